package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patwikx/retail-inventory-service/config"
	"github.com/patwikx/retail-inventory-service/internal/catalog"
	"github.com/patwikx/retail-inventory-service/internal/catalog/dto"
	"github.com/patwikx/retail-inventory-service/internal/model"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
	"github.com/patwikx/retail-inventory-service/pkg/search"
	"go.uber.org/zap"
)

type resolverUseCase struct {
	repo   catalog.Repository
	es     *search.Client
	cfg    config.SyncConfig
	logger logger.ZapLogger
}

func NewResolver(repo catalog.Repository, es *search.Client, cfg config.SyncConfig, log logger.ZapLogger) catalog.Resolver {
	return &resolverUseCase{
		repo:   repo,
		es:     es,
		cfg:    cfg,
		logger: log,
	}
}

func (uc *resolverUseCase) EnsureSite(ctx context.Context, code, name string) (*dto.SiteResolution, error) {
	// The on-sale enablement site is a business rule carried in config, not a
	// property derivable from the site row itself.
	shouldEnableOnSale := code == uc.cfg.OnSaleSiteCode

	site, err := uc.repo.FindSiteByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if site != nil {
		return &dto.SiteResolution{
			SiteID:             site.ID,
			Existed:            true,
			IsMarkdown:         site.IsMarkdown,
			ShouldEnableOnSale: shouldEnableOnSale,
		}, nil
	}

	upper := strings.ToUpper(name)
	isMarkdown := strings.Contains(upper, "MARKDOWN")

	siteType := model.SiteTypeStore
	switch {
	case isMarkdown:
		siteType = model.SiteTypeMarkdown
	case code == uc.cfg.WarehouseSiteCode || strings.Contains(upper, "WAREHOUSE"):
		siteType = model.SiteTypeWarehouse
	}

	now := time.Now()
	site = &model.Site{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Code:       code,
		Name:       name,
		SiteType:   siteType,
		IsMarkdown: isMarkdown,
		IsActive:   true,
	}
	if err := uc.repo.CreateSite(ctx, site); err != nil {
		return nil, err
	}

	uc.logger.Info("created site from legacy feed",
		zap.String("code", code),
		zap.String("site_type", siteType),
	)

	return &dto.SiteResolution{
		SiteID:             site.ID,
		Existed:            false,
		IsMarkdown:         isMarkdown,
		ShouldEnableOnSale: shouldEnableOnSale,
	}, nil
}

func (uc *resolverUseCase) EnsureCategory(ctx context.Context, name string) (*dto.CategoryResolution, error) {
	// Resolution is purely by slug: two names normalizing identically map to
	// the same category, first writer wins.
	slug := catalog.Slugify(name)

	cat, err := uc.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		return &dto.CategoryResolution{CategoryID: cat.ID, Existed: true}, nil
	}

	now := time.Now()
	cat = &model.Category{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
		Slug:      slug,
		ItemCount: 0,
		IsActive:  true,
	}
	if err := uc.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}

	return &dto.CategoryResolution{CategoryID: cat.ID, Existed: false}, nil
}

func (uc *resolverUseCase) UpsertProduct(ctx context.Context, input *dto.UpsertProductInput) (*dto.ProductResolution, error) {
	existing, err := uc.repo.FindProductByBarcode(ctx, input.Barcode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	categoryID := &input.CategoryID
	if input.CategoryID == "" {
		categoryID = nil
	}

	if existing != nil {
		existing.Name = input.Name
		existing.CategoryID = categoryID
		existing.RetailPrice = input.RetailPrice
		existing.WholesalePrice = input.WholesalePrice
		existing.POPrice = input.POPrice
		existing.BaseUOM = input.BaseUOM
		existing.LegacyCode = input.LegacyCode
		// Monotonic: sync may enable on-sale but never turns it off.
		if input.EnableOnSale {
			existing.IsOnSale = true
		}
		existing.LastSyncedAt = &now
		existing.UpdatedAt = now

		if err := uc.repo.UpdateProductFromSync(ctx, existing); err != nil {
			return nil, err
		}

		go uc.syncToElastic(context.Background(), existing)

		return &dto.ProductResolution{ProductID: existing.ID, Created: false}, nil
	}

	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:     categoryID,
		Barcode:        input.Barcode,
		SKU:            input.Barcode,
		Slug:           catalog.ProductSlug(input.Barcode, input.Name),
		Name:           input.Name,
		RetailPrice:    input.RetailPrice,
		WholesalePrice: input.WholesalePrice,
		POPrice:        input.POPrice,
		BaseUOM:        input.BaseUOM,
		LegacyCode:     input.LegacyCode,
		IsActive:       true,
		IsPublished:    true,
		IsOnSale:       input.EnableOnSale,
		LastSyncedAt:   &now,
	}
	if err := uc.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	go uc.syncToElastic(context.Background(), p)

	return &dto.ProductResolution{ProductID: p.ID, Created: true}, nil
}

func (uc *resolverUseCase) RecountItemCounts(ctx context.Context) error {
	return uc.repo.RecountItemCounts(ctx)
}

func (uc *resolverUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	const indexName = "products"

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"sku": { "type": "keyword" },
				"barcode": { "type": "keyword" },
				"slug": { "type": "keyword" },
				"retail_price": { "type": "double" },
				"is_on_sale": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, indexName, mapping)

	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("barcode", p.Barcode), zap.Error(err))
	}
}
