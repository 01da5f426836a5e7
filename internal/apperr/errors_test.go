package apperr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, KindConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, KindNotFound},
		{"check", &pgconn.PgError{Code: "23514"}, KindInvalid},
		{"numeric out of range", &pgconn.PgError{Code: "22003"}, KindInvalid},
		{"undefined column", &pgconn.PgError{Code: "42703"}, KindSchemaMismatch},
		{"connection failure", &pgconn.PgError{Code: "08006"}, KindTransient},
		{"serialization", &pgconn.PgError{Code: "40001"}, KindTransient},
		{"other pg", &pgconn.PgError{Code: "XX000"}, KindInternal},
		{"no rows", sql.ErrNoRows, KindNotFound},
		{"deadline", context.DeadlineExceeded, KindTransient},
		{"wrapped pg", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), KindConflict},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDB(tt.err, "op")
			assert.Equal(t, tt.want, KindOf(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestFromDBKeepsKind(t *testing.T) {
	orig := NotFound("category %s", "c1")
	assert.Same(t, orig, FromDB(orig, "ignored"))
	assert.Nil(t, FromDB(nil, "nothing"))
}

func TestErrorsIsBySentinel(t *testing.T) {
	err := fmt.Errorf("create product: %w", Conflict("product %s already exists", "7300156"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "create product: product 7300156 already exists", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Invalid("bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("gone")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("dup")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Wrap(KindTransient, errors.New("io"), "db")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("who")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}
