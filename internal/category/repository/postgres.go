package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/category/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const columns = `id, store_id, name, sort_index`

// inScope matches rows of one scope; $1 is the store id or NULL for global.
const inScope = `store_id IS NOT DISTINCT FROM $1::uuid`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// lockScope serializes sort index allocation within one scope until the tx ends.
func lockScope(ctx context.Context, tx *sqlx.Tx, storeID *string) error {
	_, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('categories:' || COALESCE($1::text, 'global')))`, storeID)
	return apperr.FromDB(err, "lock category scope")
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.FromDB(err, "begin create category")
	}
	defer tx.Rollback()

	if err := lockScope(ctx, tx, c.StoreID); err != nil {
		return err
	}
	err = tx.GetContext(ctx, &c.SortIndex,
		`SELECT COALESCE(MAX(sort_index), -1) + 1 FROM categories WHERE `+inScope, c.StoreID)
	if err != nil {
		return apperr.FromDB(err, "next sort index")
	}

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO categories (id, store_id, name, sort_index)
        VALUES (:id, :store_id, :name, :sort_index)
    `, c)
	if err != nil {
		return apperr.FromDB(err, "create category")
	}

	if err := tx.Commit(); err != nil {
		return apperr.FromDB(err, "commit create category")
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.DB.GetContext(ctx, &c, `SELECT `+columns+` FROM categories WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromDB(err, "find category")
	}
	return &c, nil
}

func (r *PGRepository) FindByScope(ctx context.Context, storeID string) ([]model.Category, error) {
	categories := []model.Category{}
	var err error
	if storeID == "" {
		err = r.DB.SelectContext(ctx, &categories, `
            SELECT `+columns+` FROM categories
            WHERE store_id IS NULL
            ORDER BY sort_index ASC, name ASC
        `)
	} else {
		// Global categories first, then the store's own.
		err = r.DB.SelectContext(ctx, &categories, `
            SELECT `+columns+` FROM categories
            WHERE store_id IS NULL OR store_id = $1
            ORDER BY (store_id IS NOT NULL) ASC, sort_index ASC, name ASC
        `, storeID)
	}
	if err != nil {
		return nil, apperr.FromDB(err, "list categories")
	}
	return categories, nil
}

func (r *PGRepository) Rename(ctx context.Context, scope dto.Scope, id, name string) (*model.Category, error) {
	var c model.Category
	err := r.DB.GetContext(ctx, &c, `
        UPDATE categories SET name = $3
        WHERE `+inScope+` AND id = $2
        RETURNING `+columns,
		scope.StoreIDPtr(), id, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category %s not found", id)
		}
		return nil, apperr.FromDB(err, "rename category")
	}
	return &c, nil
}

func (r *PGRepository) Delete(ctx context.Context, scope dto.Scope, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.FromDB(err, "begin delete category")
	}
	defer tx.Rollback()

	var found string
	err = tx.GetContext(ctx, &found,
		`SELECT id FROM categories WHERE `+inScope+` AND id = $2 FOR UPDATE`, scope.StoreIDPtr(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("category %s not found", id)
		}
		return apperr.FromDB(err, "lock category")
	}

	var used int
	if err := tx.GetContext(ctx, &used, `SELECT count(*) FROM order_items WHERE category_id = $1`, id); err != nil {
		return apperr.FromDB(err, "count category usage")
	}
	if used > 0 {
		return apperr.Conflict("category is used by %d order items", used)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		// A concurrent insert can still trip the RESTRICT foreign key.
		if apperr.IsKind(apperr.FromDB(err, ""), apperr.KindNotFound) {
			return apperr.Conflict("category is used by order items")
		}
		return apperr.FromDB(err, "delete category")
	}

	if err := tx.Commit(); err != nil {
		return apperr.FromDB(err, "commit delete category")
	}
	return nil
}

func (r *PGRepository) Swap(ctx context.Context, scope dto.Scope, id string, dir dto.Direction) ([]model.Category, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.FromDB(err, "begin move category")
	}
	defer tx.Rollback()

	storeID := scope.StoreIDPtr()
	if err := lockScope(ctx, tx, storeID); err != nil {
		return nil, err
	}

	var current model.Category
	err = tx.GetContext(ctx, &current,
		`SELECT `+columns+` FROM categories WHERE `+inScope+` AND id = $2`, storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category %s not found", id)
		}
		return nil, apperr.FromDB(err, "find category")
	}

	neighbourQuery := `SELECT ` + columns + ` FROM categories WHERE ` + inScope +
		` AND sort_index < $2 ORDER BY sort_index DESC LIMIT 1`
	if dir == dto.DirectionDown {
		neighbourQuery = `SELECT ` + columns + ` FROM categories WHERE ` + inScope +
			` AND sort_index > $2 ORDER BY sort_index ASC LIMIT 1`
	}

	var neighbour model.Category
	err = tx.GetContext(ctx, &neighbour, neighbourQuery, storeID, current.SortIndex)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Already first or last.
	case err != nil:
		return nil, apperr.FromDB(err, "find neighbour category")
	default:
		// Park one row on a negative index so the unique index holds at every step.
		steps := []struct {
			id    string
			index int
		}{
			{current.ID, -current.SortIndex - 1},
			{neighbour.ID, current.SortIndex},
			{current.ID, neighbour.SortIndex},
		}
		for _, s := range steps {
			if _, err := tx.ExecContext(ctx, `UPDATE categories SET sort_index = $2 WHERE id = $1`, s.id, s.index); err != nil {
				return nil, apperr.FromDB(err, "swap category order")
			}
		}
	}

	categories := []model.Category{}
	err = tx.SelectContext(ctx, &categories,
		`SELECT `+columns+` FROM categories WHERE `+inScope+` ORDER BY sort_index ASC`, storeID)
	if err != nil {
		return nil, apperr.FromDB(err, "list categories")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.FromDB(err, "commit move category")
	}
	return categories, nil
}
