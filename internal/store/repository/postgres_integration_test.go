//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/database/postgres/pgtest"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/store/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStoreWithCategories(t *testing.T) {
	db := pgtest.New(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	s := &model.Store{ID: uuid.NewString(), Name: "Agunnaryd", PasswordHash: "h", CreatedAt: time.Now()}
	cats := []model.Category{
		{ID: uuid.NewString(), StoreID: &s.ID, Name: "Kolonial", SortIndex: 0},
		{ID: uuid.NewString(), StoreID: &s.ID, Name: "Kött/Chark", SortIndex: 1},
	}
	require.NoError(t, repo.Create(ctx, s, cats))

	var n int
	require.NoError(t, db.Get(&n, `SELECT count(*) FROM categories WHERE store_id = $1`, s.ID))
	assert.Equal(t, 2, n)

	dup := &model.Store{ID: uuid.NewString(), Name: "AGUNNARYD", PasswordHash: "h", CreatedAt: time.Now()}
	err := repo.Create(ctx, dup, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	found, err := repo.FindByName(ctx, "agunnaryd")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, s.ID, found.ID)

	missing, err := repo.FindByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)

	name := "Ljungby"
	updated, err := repo.Update(ctx, s.ID, &dto.StorePatch{Name: &name, LogoURL: model.Some("https://logo")})
	require.NoError(t, err)
	assert.Equal(t, "Ljungby", updated.Name)
	assert.Equal(t, "https://logo", *updated.LogoURL)
}
