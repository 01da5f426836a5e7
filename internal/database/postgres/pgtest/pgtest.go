//go:build integration

// Package pgtest starts a throwaway Postgres for repository integration tests.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// New returns a migrated database that is torn down with the test.
func New(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("picklist"),
		tcpostgres.WithUsername("picklist"),
		tcpostgres.WithPassword("picklist"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	db, err := postgres.Open(dsn, &postgres.Config{MaxOpenConns: 20, MaxIdleConns: 5})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedStore inserts a store with one category.
func SeedStore(t *testing.T, db *sqlx.DB, storeID, name, categoryID string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO stores (id, name, password_hash) VALUES ($1, $2, 'x')`, storeID, name)
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	_, err = db.Exec(`
        INSERT INTO categories (id, store_id, name, sort_index)
        VALUES ($1, $2, 'Kolonial', COALESCE((SELECT MAX(sort_index) + 1 FROM categories WHERE store_id = $2), 0))
    `, categoryID, storeID)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func SeedProduct(t *testing.T, db *sqlx.DB, ean, name string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO products (ean, name) VALUES ($1, $2)`, ean, name); err != nil {
		t.Fatalf("seed product: %v", err)
	}
}
