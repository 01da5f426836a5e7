package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/order/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// A positive change on a picked row means new units that nobody has picked yet,
// so growth clears the pick markers.
const incrementQuery = `
    INSERT INTO order_items (id, store_id, ean, category_id, qty, is_picked, created_at, updated_at)
    VALUES ($1, $2, $3, $4, GREATEST($5::int, 0), false, now(), now())
    ON CONFLICT (store_id, ean, category_id)
    DO UPDATE SET
        qty        = GREATEST(order_items.qty + $5::int, 0),
        is_picked  = CASE WHEN $5::int > 0 THEN false ELSE order_items.is_picked END,
        picked_at  = CASE WHEN $5::int > 0 THEN NULL ELSE order_items.picked_at END,
        picked_by  = CASE WHEN $5::int > 0 THEN NULL ELSE order_items.picked_by END,
        updated_at = now()
    RETURNING id, qty
`

const setQtyQuery = `
    INSERT INTO order_items (id, store_id, ean, category_id, qty, is_picked, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, false, now(), now())
    ON CONFLICT (store_id, ean, category_id)
    DO UPDATE SET
        qty        = EXCLUDED.qty,
        is_picked  = CASE WHEN EXCLUDED.qty > order_items.qty THEN false ELSE order_items.is_picked END,
        picked_at  = CASE WHEN EXCLUDED.qty > order_items.qty THEN NULL ELSE order_items.picked_at END,
        picked_by  = CASE WHEN EXCLUDED.qty > order_items.qty THEN NULL ELSE order_items.picked_by END,
        updated_at = CASE WHEN EXCLUDED.qty = order_items.qty THEN order_items.updated_at ELSE now() END
    RETURNING qty
`

func (r *PGRepository) Increment(ctx context.Context, storeID, ean, categoryID string, delta int) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperr.FromDB(err, "begin increment")
	}
	defer tx.Rollback()

	if err := ensureCategoryInScope(ctx, tx, storeID, categoryID); err != nil {
		return 0, err
	}

	var row struct {
		ID  string `db:"id"`
		Qty int    `db:"qty"`
	}
	err = tx.GetContext(ctx, &row, incrementQuery, uuid.New().String(), storeID, ean, categoryID, delta)
	if err != nil {
		return 0, apperr.FromDB(err, "increment order item")
	}

	if row.Qty == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE id = $1 AND qty = 0`, row.ID); err != nil {
			return 0, apperr.FromDB(err, "remove empty order item")
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.FromDB(err, "commit increment")
	}
	return row.Qty, nil
}

func (r *PGRepository) SetQty(ctx context.Context, storeID, ean, categoryID string, qty int) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperr.FromDB(err, "begin set qty")
	}
	defer tx.Rollback()

	if err := ensureCategoryInScope(ctx, tx, storeID, categoryID); err != nil {
		return 0, err
	}

	if qty == 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM order_items WHERE store_id = $1 AND ean = $2 AND category_id = $3`,
			storeID, ean, categoryID)
		if err != nil {
			return 0, apperr.FromDB(err, "remove order item")
		}
		if err := tx.Commit(); err != nil {
			return 0, apperr.FromDB(err, "commit set qty")
		}
		return 0, nil
	}

	var result int
	if err := tx.GetContext(ctx, &result, setQtyQuery, uuid.New().String(), storeID, ean, categoryID, qty); err != nil {
		return 0, apperr.FromDB(err, "set order item qty")
	}
	if err := tx.Commit(); err != nil {
		return 0, apperr.FromDB(err, "commit set qty")
	}
	return result, nil
}

func (r *PGRepository) SetPicked(ctx context.Context, storeID, ean string, isPicked bool, pickedBy string) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperr.FromDB(err, "begin set picked")
	}
	defer tx.Rollback()

	if err := ensureStore(ctx, tx, storeID); err != nil {
		return 0, err
	}

	// Rows already in the requested state are skipped so repeats keep picked_at.
	res, err := tx.ExecContext(ctx, `
        UPDATE order_items
        SET is_picked  = $3::boolean,
            picked_at  = CASE WHEN $3::boolean THEN now() ELSE NULL END,
            picked_by  = CASE WHEN $3::boolean THEN $4::text ELSE NULL END,
            updated_at = now()
        WHERE store_id = $1 AND ean = $2 AND qty > 0 AND is_picked IS DISTINCT FROM $3::boolean
    `, storeID, ean, isPicked, pickedBy)
	if err != nil {
		return 0, apperr.FromDB(err, "set picked")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.FromDB(err, "set picked")
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.FromDB(err, "commit set picked")
	}
	return int(n), nil
}

func (r *PGRepository) ClearPicked(ctx context.Context, storeID string) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperr.FromDB(err, "begin clear picked")
	}
	defer tx.Rollback()

	if err := ensureStore(ctx, tx, storeID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE store_id = $1 AND is_picked`, storeID)
	if err != nil {
		return 0, apperr.FromDB(err, "clear picked")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.FromDB(err, "clear picked")
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.FromDB(err, "commit clear picked")
	}
	return int(n), nil
}

func (r *PGRepository) Move(ctx context.Context, storeID, ean, fromCategoryID, toCategoryID string) (*model.OrderItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.FromDB(err, "begin move")
	}
	defer tx.Rollback()

	if err := ensureCategoryInScope(ctx, tx, storeID, toCategoryID); err != nil {
		return nil, err
	}

	var qty int
	err = tx.GetContext(ctx, &qty, `
        DELETE FROM order_items
        WHERE store_id = $1 AND ean = $2 AND category_id = $3
        RETURNING qty
    `, storeID, ean, fromCategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order item %s not found in category %s", ean, fromCategoryID)
		}
		return nil, apperr.FromDB(err, "detach order item")
	}

	var item model.OrderItem
	err = tx.GetContext(ctx, &item, `
        INSERT INTO order_items (id, store_id, ean, category_id, qty, is_picked, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, false, now(), now())
        ON CONFLICT (store_id, ean, category_id)
        DO UPDATE SET
            qty        = order_items.qty + EXCLUDED.qty,
            is_picked  = false,
            picked_at  = NULL,
            picked_by  = NULL,
            updated_at = now()
        RETURNING *
    `, uuid.New().String(), storeID, ean, toCategoryID, qty)
	if err != nil {
		return nil, apperr.FromDB(err, "attach order item")
	}

	// Future scans of this product in this store land where it was moved to.
	if err := rememberCategory(ctx, tx, storeID, ean, toCategoryID); err != nil {
		return nil, err
	}

	// Only a global category may become the catalog-wide default.
	_, err = tx.ExecContext(ctx, `
        UPDATE products SET default_category_id = $2, updated_at = now()
        WHERE ean = $1
          AND default_category_id IS DISTINCT FROM $2::uuid
          AND EXISTS (SELECT 1 FROM categories WHERE id = $2 AND store_id IS NULL)
    `, ean, toCategoryID)
	if err != nil {
		return nil, apperr.FromDB(err, "update default category")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.FromDB(err, "commit move")
	}
	return &item, nil
}

func (r *PGRepository) PreferredCategory(ctx context.Context, storeID, ean string) (string, error) {
	var categoryID string
	err := r.DB.GetContext(ctx, &categoryID,
		`SELECT category_id FROM store_product_categories WHERE store_id = $1 AND ean = $2`, storeID, ean)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", apperr.FromDB(err, "find preferred category")
	}
	return categoryID, nil
}

func (r *PGRepository) RememberCategory(ctx context.Context, storeID, ean, categoryID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.FromDB(err, "begin remember category")
	}
	defer tx.Rollback()

	if err := ensureCategoryInScope(ctx, tx, storeID, categoryID); err != nil {
		return err
	}
	if err := rememberCategory(ctx, tx, storeID, ean, categoryID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.FromDB(err, "commit remember category")
	}
	return nil
}

func rememberCategory(ctx context.Context, tx *sqlx.Tx, storeID, ean, categoryID string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO store_product_categories (store_id, ean, category_id, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (store_id, ean)
        DO UPDATE SET category_id = EXCLUDED.category_id, updated_at = now()
    `, storeID, ean, categoryID)
	return apperr.FromDB(err, "remember category")
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.OrderItem, error) {
	items := []model.OrderItem{}

	conditions := []string{"store_id = :store_id", "qty > 0"}
	args := map[string]interface{}{"store_id": f.StoreID}

	if f.EAN != "" {
		conditions = append(conditions, "ean = :ean")
		args["ean"] = f.EAN
	}
	if f.IsPicked != nil {
		conditions = append(conditions, "is_picked = :is_picked")
		args["is_picked"] = *f.IsPicked
	}

	query := "SELECT * FROM order_items WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY is_picked ASC, updated_at DESC"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperr.FromDB(err, "prepare list order items")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, apperr.FromDB(err, "list order items")
	}
	return items, nil
}

func ensureStore(ctx context.Context, tx *sqlx.Tx, storeID string) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, storeID); err != nil {
		return apperr.FromDB(err, "lookup store")
	}
	if !exists {
		return apperr.NotFound("store %s not found", storeID)
	}
	return nil
}

// ensureCategoryInScope accepts the store's own categories and global ones.
func ensureCategoryInScope(ctx context.Context, tx *sqlx.Tx, storeID, categoryID string) error {
	if err := ensureStore(ctx, tx, storeID); err != nil {
		return err
	}
	var exists bool
	err := tx.GetContext(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM categories
            WHERE id = $1 AND (store_id = $2 OR store_id IS NULL)
        )
    `, categoryID, storeID)
	if err != nil {
		return apperr.FromDB(err, "lookup category")
	}
	if !exists {
		return apperr.NotFound("category %s not found", categoryID)
	}
	return nil
}
