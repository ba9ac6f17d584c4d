package catalog

import (
	"context"

	"github.com/patwikx/retail-inventory-service/internal/model"
)

type Repository interface {
	// Sites
	FindSiteByCode(ctx context.Context, code string) (*model.Site, error)
	CreateSite(ctx context.Context, s *model.Site) error

	// Categories
	FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	RecountItemCounts(ctx context.Context) error

	// Products
	FindProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProductFromSync(ctx context.Context, p *model.Product) error
}
