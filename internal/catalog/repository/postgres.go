package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/patwikx/retail-inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindSiteByCode(ctx context.Context, code string) (*model.Site, error) {
	var site model.Site
	err := r.DB.GetContext(ctx, &site, `SELECT * FROM sites WHERE code = $1 LIMIT 1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (r *PGRepository) CreateSite(ctx context.Context, s *model.Site) error {
	query := `
        INSERT INTO sites (id, code, name, site_type, is_markdown, is_active, created_at, updated_at)
        VALUES (:id, :code, :name, :site_type, :is_markdown, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.DB.GetContext(ctx, &category, `SELECT * FROM categories WHERE slug = $1 LIMIT 1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, slug, item_count, is_active, created_at, updated_at)
        VALUES (:id, :name, :slug, :item_count, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

// RecountItemCounts recomputes item_count for every active category from
// active, published products. A full recount, not incremental.
func (r *PGRepository) RecountItemCounts(ctx context.Context) error {
	query := `
        UPDATE categories c
        SET item_count = (
            SELECT count(*) FROM products p
            WHERE p.category_id = c.id AND p.is_active = true AND p.is_published = true
        )
        WHERE c.is_active = true
    `
	_, err := r.DB.ExecContext(ctx, query)
	return err
}

func (r *PGRepository) FindProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	err := r.DB.GetContext(ctx, &product, `SELECT * FROM products WHERE barcode = $1 LIMIT 1`, barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, category_id, barcode, sku, slug, name,
            retail_price, wholesale_price, po_price, base_uom, legacy_code,
            is_active, is_published, is_on_sale, last_synced_at, created_at, updated_at
        )
        VALUES (
            :id, :category_id, :barcode, :sku, :slug, :name,
            :retail_price, :wholesale_price, :po_price, :base_uom, :legacy_code,
            :is_active, :is_published, :is_on_sale, :last_synced_at, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

// UpdateProductFromSync updates the fields the legacy feed owns. Slug, active
// and published flags are left alone; is_on_sale is written as provided by the
// caller (monotonic enable handled in the use case).
func (r *PGRepository) UpdateProductFromSync(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            category_id = :category_id,
            retail_price = :retail_price,
            wholesale_price = :wholesale_price,
            po_price = :po_price,
            base_uom = :base_uom,
            legacy_code = :legacy_code,
            is_on_sale = :is_on_sale,
            last_synced_at = :last_synced_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}
