package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/store/dto"
	"github.com/jmoiron/sqlx"
)

const columns = `id, name, password_hash, email, logo_url, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Store, categories []model.Category) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.FromDB(err, "begin create store")
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO stores (id, name, password_hash, email, logo_url, created_at)
        VALUES (:id, :name, :password_hash, :email, :logo_url, :created_at)
    `, s)
	if err != nil {
		if apperr.IsKind(apperr.FromDB(err, ""), apperr.KindConflict) {
			return apperr.Conflict("store name or email already in use")
		}
		return apperr.FromDB(err, "create store")
	}

	if len(categories) > 0 {
		_, err = tx.NamedExecContext(ctx, `
            INSERT INTO categories (id, store_id, name, sort_index)
            VALUES (:id, :store_id, :name, :sort_index)
        `, categories)
		if err != nil {
			return apperr.FromDB(err, "seed store categories")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.FromDB(err, "commit create store")
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Store, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM stores WHERE id = $1`, id)
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Store, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM stores WHERE lower(name) = lower($1)`, strings.TrimSpace(name))
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*model.Store, error) {
	var s model.Store
	if err := r.DB.GetContext(ctx, &s, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		// A malformed uuid can never match a store.
		if apperr.IsKind(apperr.FromDB(err, ""), apperr.KindInvalid) {
			return nil, nil
		}
		return nil, apperr.FromDB(err, "find store")
	}
	return &s, nil
}

func (r *PGRepository) List(ctx context.Context) ([]model.StoreSummary, error) {
	stores := []model.StoreSummary{}
	if err := r.DB.SelectContext(ctx, &stores, `SELECT id, name, logo_url FROM stores ORDER BY name ASC`); err != nil {
		return nil, apperr.FromDB(err, "list stores")
	}
	return stores, nil
}

func (r *PGRepository) Update(ctx context.Context, id string, patch *dto.StorePatch) (*model.Store, error) {
	sets := []string{}
	args := map[string]interface{}{"id": id}
	if patch.Name != nil {
		sets = append(sets, "name = :name")
		args["name"] = *patch.Name
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = :password_hash")
		args["password_hash"] = *patch.PasswordHash
	}
	if patch.LogoURL.Set {
		sets = append(sets, "logo_url = :logo_url")
		args["logo_url"] = patch.LogoURL.Ptr()
	}
	if len(sets) == 0 {
		s, err := r.FindByID(ctx, id)
		if err == nil && s == nil {
			err = apperr.NotFound("store %s not found", id)
		}
		return s, err
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx,
		`UPDATE stores SET `+strings.Join(sets, ", ")+` WHERE id = :id RETURNING `+columns)
	if err != nil {
		return nil, apperr.FromDB(err, "prepare update store")
	}
	defer nstmt.Close()

	var s model.Store
	if err := nstmt.GetContext(ctx, &s, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("store %s not found", id)
		}
		if apperr.IsKind(apperr.FromDB(err, ""), apperr.KindConflict) {
			return nil, apperr.Conflict("store name already in use")
		}
		return nil, apperr.FromDB(err, "update store")
	}
	return &s, nil
}
