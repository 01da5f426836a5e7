package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

// Columns added after the first schema version. Older databases may lack them.
var optionalColumns = []string{"brand", "weight"}

type PGRepository struct {
	DB *sqlx.DB

	mu      sync.RWMutex
	present map[string]bool // nil until loaded from information_schema
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Capabilities reports which optional product columns exist, loading them once.
func (r *PGRepository) Capabilities(ctx context.Context) (map[string]bool, error) {
	r.mu.RLock()
	present := r.present
	r.mu.RUnlock()
	if present != nil {
		return present, nil
	}

	var cols []string
	err := r.DB.SelectContext(ctx, &cols, `
        SELECT column_name FROM information_schema.columns
        WHERE table_schema = current_schema() AND table_name = 'products'
    `)
	if err != nil {
		return nil, apperr.FromDB(err, "load product columns")
	}

	present = make(map[string]bool, len(optionalColumns))
	for _, c := range cols {
		for _, opt := range optionalColumns {
			if c == opt {
				present[opt] = true
			}
		}
	}

	r.mu.Lock()
	r.present = present
	r.mu.Unlock()
	return present, nil
}

func (r *PGRepository) forgetCapabilities() {
	r.mu.Lock()
	r.present = nil
	r.mu.Unlock()
}

// withSchemaRetry runs fn with the known optional columns. On an undefined
// column error it reloads the schema and retries once; if the reload fails
// too, the retry uses only the guaranteed columns.
func (r *PGRepository) withSchemaRetry(ctx context.Context, fn func(present map[string]bool) error) error {
	present, err := r.Capabilities(ctx)
	if err != nil {
		return err
	}
	err = fn(present)
	if !apperr.IsKind(err, apperr.KindSchemaMismatch) {
		return err
	}

	r.forgetCapabilities()
	present, err = r.Capabilities(ctx)
	if err != nil {
		present = map[string]bool{}
	}
	return fn(present)
}

func selectList(present map[string]bool) string {
	cols := []string{"ean", "name", "image_url", "default_category_id", "created_at", "updated_at"}
	for _, opt := range optionalColumns {
		if present[opt] {
			cols = append(cols, opt)
		} else {
			cols = append(cols, "NULL::text AS "+opt)
		}
	}
	return strings.Join(cols, ", ")
}

func (r *PGRepository) FindByEAN(ctx context.Context, ean string) (*model.Product, error) {
	var p model.Product
	err := r.withSchemaRetry(ctx, func(present map[string]bool) error {
		query := fmt.Sprintf(`SELECT %s FROM products WHERE ean = $1 LIMIT 1`, selectList(present))
		return apperr.FromDB(r.DB.GetContext(ctx, &p, query, ean), "find product")
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindByEANs(ctx context.Context, eans []string) ([]model.Product, error) {
	if len(eans) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	err := r.withSchemaRetry(ctx, func(present map[string]bool) error {
		query, args, err := sqlx.In(
			fmt.Sprintf(`SELECT %s FROM products WHERE ean IN (?)`, selectList(present)), eans)
		if err != nil {
			return err
		}
		products = products[:0]
		return apperr.FromDB(r.DB.SelectContext(ctx, &products, r.DB.Rebind(query), args...), "find products")
	})
	return products, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	args := map[string]interface{}{}
	if f.SearchQuery != "" {
		args["search"] = "%" + f.SearchQuery + "%"
	}

	err := r.withSchemaRetry(ctx, func(present map[string]bool) error {
		where := ""
		switch {
		case f.SearchQuery != "" && present["brand"]:
			where = " WHERE (name ILIKE :search OR ean LIKE :search OR brand ILIKE :search)"
		case f.SearchQuery != "":
			where = " WHERE (name ILIKE :search OR ean LIKE :search)"
		}

		rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM products"+where, args)
		if err != nil {
			return apperr.FromDB(err, "count products")
		}
		defer rows.Close()
		if rows.Next() {
			if err := rows.Scan(&count); err != nil {
				return apperr.FromDB(err, "count products")
			}
		}

		query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY name ASC", selectList(present), where)
		if f.PageSize > 0 {
			page := f.Page
			if page < 1 {
				page = 1
			}
			query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
		}

		nstmt, err := r.DB.PrepareNamedContext(ctx, query)
		if err != nil {
			return apperr.FromDB(err, "prepare list products")
		}
		defer nstmt.Close()

		products = products[:0]
		return apperr.FromDB(nstmt.SelectContext(ctx, &products, args), "list products")
	})
	if err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// ensureGlobalCategory rejects defaults that only one store can see; the
// catalog is shared by every store.
func (r *PGRepository) ensureGlobalCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	var global bool
	err := r.DB.GetContext(ctx, &global,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND store_id IS NULL)`, *categoryID)
	if err != nil {
		return apperr.FromDB(err, "lookup default category")
	}
	if !global {
		return apperr.Invalid("default category %s must be a global category", *categoryID)
	}
	return nil
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	if err := r.ensureGlobalCategory(ctx, p.DefaultCategoryID); err != nil {
		return err
	}
	return r.withSchemaRetry(ctx, func(present map[string]bool) error {
		cols := []string{"ean", "name", "image_url", "default_category_id", "created_at", "updated_at"}
		for _, opt := range optionalColumns {
			if present[opt] {
				cols = append(cols, opt)
			}
		}
		query := fmt.Sprintf(`INSERT INTO products (%s) VALUES (:%s)`,
			strings.Join(cols, ", "), strings.Join(cols, ", :"))

		_, err := r.DB.NamedExecContext(ctx, query, p)
		if apperr.IsKind(apperr.FromDB(err, ""), apperr.KindConflict) {
			return apperr.Conflict("product %s already exists", p.EAN)
		}
		return apperr.FromDB(err, "create product")
	})
}

func (r *PGRepository) Update(ctx context.Context, ean string, patch *model.ProductPatch) (*model.Product, error) {
	if err := r.ensureGlobalCategory(ctx, patch.DefaultCategoryID.Ptr()); err != nil {
		return nil, err
	}
	var p model.Product
	err := r.withSchemaRetry(ctx, func(present map[string]bool) error {
		sets := []string{}
		args := map[string]interface{}{"ean": ean}

		add := func(col string, o model.Optional[string]) {
			if !o.Set {
				return
			}
			sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
			args[col] = o.Ptr()
		}
		add("name", patch.Name)
		add("image_url", patch.ImageURL)
		add("default_category_id", patch.DefaultCategoryID)
		if present["brand"] {
			add("brand", patch.Brand)
		}
		if present["weight"] {
			add("weight", patch.Weight)
		}

		var query string
		if len(sets) == 0 {
			query = fmt.Sprintf(`SELECT %s FROM products WHERE ean = :ean`, selectList(present))
		} else {
			query = fmt.Sprintf(`UPDATE products SET %s, updated_at = now() WHERE ean = :ean RETURNING %s`,
				strings.Join(sets, ", "), selectList(present))
		}

		nstmt, err := r.DB.PrepareNamedContext(ctx, query)
		if err != nil {
			return apperr.FromDB(err, "prepare update product")
		}
		defer nstmt.Close()

		err = nstmt.GetContext(ctx, &p, args)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("product %s not found", ean)
		}
		return apperr.FromDB(err, "update product")
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
