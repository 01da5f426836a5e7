package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Get(ctx context.Context) (*model.GlobalSettings, error) {
	var s model.GlobalSettings
	err := r.DB.GetContext(ctx, &s, `SELECT login_logo_url, updated_at FROM global_settings WHERE id`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.FromDB(err, "get settings")
	}
	return &s, nil
}

// Upsert relies on the boolean primary key admitting a single row.
func (r *PGRepository) Upsert(ctx context.Context, s *model.GlobalSettings) (*model.GlobalSettings, error) {
	var out model.GlobalSettings
	err := r.DB.GetContext(ctx, &out, `
        INSERT INTO global_settings (id, login_logo_url, updated_at)
        VALUES (true, $1, now())
        ON CONFLICT (id) DO UPDATE SET
            login_logo_url = EXCLUDED.login_logo_url,
            updated_at     = now()
        RETURNING login_logo_url, updated_at
    `, s.LoginLogoURL)
	if err != nil {
		return nil, apperr.FromDB(err, "save settings")
	}
	return &out, nil
}
