package catalog

import (
	"context"

	"github.com/patwikx/retail-inventory-service/internal/catalog/dto"
)

// Resolver maps legacy identifiers to catalog entities, creating them if absent.
type Resolver interface {
	EnsureSite(ctx context.Context, code, name string) (*dto.SiteResolution, error)
	EnsureCategory(ctx context.Context, name string) (*dto.CategoryResolution, error)
	UpsertProduct(ctx context.Context, input *dto.UpsertProductInput) (*dto.ProductResolution, error)
	RecountItemCounts(ctx context.Context) error
}
