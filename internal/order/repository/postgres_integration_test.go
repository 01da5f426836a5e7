//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/database/postgres/pgtest"
	"github.com/fekuna/omnipos-picklist-service/internal/order/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	repo     *PGRepository
	storeID  string
	category string
}

func setup(t *testing.T) *env {
	db := pgtest.New(t)
	e := &env{repo: NewPGRepository(db), storeID: uuid.NewString(), category: uuid.NewString()}
	pgtest.SeedStore(t, db, e.storeID, "Agunnaryd", e.category)
	pgtest.SeedProduct(t, db, "7310865004703", "Mjölk")
	return e
}

func TestIncrementAgainstPostgres(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	const ean = "7310865004703"

	qty, err := e.repo.Increment(ctx, e.storeID, ean, e.category, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	qty, err = e.repo.Increment(ctx, e.storeID, ean, e.category, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	qty, err = e.repo.Increment(ctx, e.storeID, ean, e.category, -100)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	var rows int
	require.NoError(t, e.repo.DB.Get(&rows, `SELECT count(*) FROM order_items`))
	assert.Zero(t, rows)
}

func TestConcurrentIncrementsAgainstPostgres(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	const n = 40

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.repo.Increment(ctx, e.storeID, "7310865004703", e.category, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := e.repo.FindAll(ctx, &dto.OrderFilters{StoreID: e.storeID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Qty)
}

func TestPickingAgainstPostgres(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	const ean = "7310865004703"

	_, err := e.repo.SetQty(ctx, e.storeID, ean, e.category, 5)
	require.NoError(t, err)
	qty, err := e.repo.SetQty(ctx, e.storeID, ean, e.category, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	n, err := e.repo.SetPicked(ctx, e.storeID, ean, true, "Anna")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = e.repo.SetPicked(ctx, e.storeID, ean, true, "Anna")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	picked := true
	items, err := e.repo.FindAll(ctx, &dto.OrderFilters{StoreID: e.storeID, IsPicked: &picked})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Anna", *items[0].PickedBy)
	assert.NotNil(t, items[0].PickedAt)

	cleared, err := e.repo.ClearPicked(ctx, e.storeID)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)
}

func TestScopeChecksAgainstPostgres(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.repo.Increment(ctx, uuid.NewString(), "7310865004703", e.category, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = e.repo.Increment(ctx, e.storeID, "7310865004703", uuid.NewString(), 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = e.repo.Increment(ctx, e.storeID, "999", e.category, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "unknown product trips the foreign key")
}

func TestMoveRemembersCategoryAgainstPostgres(t *testing.T) {
	db := pgtest.New(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	storeID, private, global := uuid.NewString(), uuid.NewString(), uuid.NewString()
	pgtest.SeedStore(t, db, storeID, "Agunnaryd", private)
	pgtest.SeedProduct(t, db, "42", "Mjölk")
	_, err := db.Exec(`INSERT INTO categories (id, name, sort_index) VALUES ($1, 'Övrigt', 0)`, global)
	require.NoError(t, err)

	pref, err := repo.PreferredCategory(ctx, storeID, "42")
	require.NoError(t, err)
	assert.Empty(t, pref)

	defaultOf := func() *string {
		var id *string
		require.NoError(t, db.Get(&id, `SELECT default_category_id FROM products WHERE ean = '42'`))
		return id
	}

	_, err = repo.Increment(ctx, storeID, "42", global, 1)
	require.NoError(t, err)
	_, err = repo.Move(ctx, storeID, "42", global, private)
	require.NoError(t, err)
	assert.Nil(t, defaultOf(), "a store category is not written to the catalog")
	pref, err = repo.PreferredCategory(ctx, storeID, "42")
	require.NoError(t, err)
	assert.Equal(t, private, pref)

	_, err = repo.Move(ctx, storeID, "42", private, global)
	require.NoError(t, err)
	require.NotNil(t, defaultOf())
	assert.Equal(t, global, *defaultOf())

	require.NoError(t, repo.RememberCategory(ctx, storeID, "42", private))
	pref, err = repo.PreferredCategory(ctx, storeID, "42")
	require.NoError(t, err)
	assert.Equal(t, private, pref)

	err = repo.RememberCategory(ctx, storeID, "42", uuid.NewString())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestQtyOverflowIsInvalidAgainstPostgres(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.repo.Increment(ctx, e.storeID, "7310865004703", e.category, 2147483647)
	require.NoError(t, err)
	_, err = e.repo.Increment(ctx, e.storeID, "7310865004703", e.category, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))
}
