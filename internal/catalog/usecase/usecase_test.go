package usecase

import (
	"context"
	"testing"

	"github.com/patwikx/retail-inventory-service/config"
	"github.com/patwikx/retail-inventory-service/internal/catalog/dto"
	"github.com/patwikx/retail-inventory-service/internal/model"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
)

type fakeRepo struct {
	sites      map[string]*model.Site     // by code
	categories map[string]*model.Category // by slug
	products   map[string]*model.Product  // by barcode
	recounts   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sites:      map[string]*model.Site{},
		categories: map[string]*model.Category{},
		products:   map[string]*model.Product{},
	}
}

func (r *fakeRepo) FindSiteByCode(_ context.Context, code string) (*model.Site, error) {
	return r.sites[code], nil
}

func (r *fakeRepo) CreateSite(_ context.Context, s *model.Site) error {
	r.sites[s.Code] = s
	return nil
}

func (r *fakeRepo) FindCategoryBySlug(_ context.Context, slug string) (*model.Category, error) {
	return r.categories[slug], nil
}

func (r *fakeRepo) CreateCategory(_ context.Context, c *model.Category) error {
	r.categories[c.Slug] = c
	return nil
}

func (r *fakeRepo) RecountItemCounts(context.Context) error {
	r.recounts++
	return nil
}

func (r *fakeRepo) FindProductByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	return r.products[barcode], nil
}

func (r *fakeRepo) CreateProduct(_ context.Context, p *model.Product) error {
	r.products[p.Barcode] = p
	return nil
}

func (r *fakeRepo) UpdateProductFromSync(_ context.Context, p *model.Product) error {
	r.products[p.Barcode] = p
	return nil
}

var testCfg = config.SyncConfig{OnSaleSiteCode: "026", WarehouseSiteCode: "001"}

func newTestResolver(repo *fakeRepo) *resolverUseCase {
	return &resolverUseCase{
		repo:   repo,
		cfg:    testCfg,
		logger: logger.NewNop(),
	}
}

func TestEnsureSiteClassification(t *testing.T) {
	cases := []struct {
		code, name     string
		wantType       string
		wantMarkdown   bool
		wantEnableSale bool
	}{
		{"001", "Main Warehouse", model.SiteTypeWarehouse, false, false},
		{"014", "Downtown WAREHOUSE Annex", model.SiteTypeWarehouse, false, false},
		{"005", "Riverside Branch", model.SiteTypeStore, false, false},
		{"019", "Markdown Outlet", model.SiteTypeMarkdown, true, false},
		{"026", "Clearance Store", model.SiteTypeStore, false, true},
	}

	for _, c := range cases {
		repo := newFakeRepo()
		uc := newTestResolver(repo)

		res, err := uc.EnsureSite(context.Background(), c.code, c.name)
		if err != nil {
			t.Fatalf("EnsureSite(%s): %v", c.code, err)
		}
		if res.Existed {
			t.Errorf("%s: fresh site reported as existing", c.code)
		}
		if res.IsMarkdown != c.wantMarkdown {
			t.Errorf("%s: markdown = %v, want %v", c.code, res.IsMarkdown, c.wantMarkdown)
		}
		if res.ShouldEnableOnSale != c.wantEnableSale {
			t.Errorf("%s: shouldEnableOnSale = %v, want %v", c.code, res.ShouldEnableOnSale, c.wantEnableSale)
		}

		site := repo.sites[c.code]
		if site == nil {
			t.Fatalf("%s: site not created", c.code)
		}
		if site.SiteType != c.wantType {
			t.Errorf("%s: type = %s, want %s", c.code, site.SiteType, c.wantType)
		}
		if !site.IsActive {
			t.Errorf("%s: new site must be active", c.code)
		}
	}
}

func TestEnsureSiteExisting(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestResolver(repo)
	ctx := context.Background()

	first, _ := uc.EnsureSite(ctx, "003", "Harbor Store")
	second, err := uc.EnsureSite(ctx, "003", "Harbor Store")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Existed {
		t.Error("second resolution should report existed")
	}
	if first.SiteID != second.SiteID {
		t.Error("same code resolved to different sites")
	}
	if len(repo.sites) != 1 {
		t.Errorf("expected 1 site, got %d", len(repo.sites))
	}
}

func TestEnsureCategoryFirstWriterWins(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestResolver(repo)
	ctx := context.Background()

	a, err := uc.EnsureCategory(ctx, "Health & Beauty")
	if err != nil {
		t.Fatal(err)
	}
	b, err := uc.EnsureCategory(ctx, "  health---beauty  ")
	if err != nil {
		t.Fatal(err)
	}

	if a.Existed || !b.Existed {
		t.Errorf("existed flags: first=%v second=%v", a.Existed, b.Existed)
	}
	if a.CategoryID != b.CategoryID {
		t.Error("equivalent names must resolve to the same category")
	}

	cat := repo.categories["health-beauty"]
	if cat == nil {
		t.Fatal("category not stored under normalized slug")
	}
	if cat.Name != "Health & Beauty" {
		t.Errorf("first writer's name should win, got %q", cat.Name)
	}
	if cat.ItemCount != 0 {
		t.Errorf("new category itemCount = %d, want 0", cat.ItemCount)
	}
}

func TestUpsertProductCreateAndUpdate(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestResolver(repo)
	ctx := context.Background()

	created, err := uc.UpsertProduct(ctx, &dto.UpsertProductInput{
		Barcode:     "4801234567890",
		Name:        "Instant Coffee 100g",
		RetailPrice: 149.75,
		BaseUOM:     "PCS",
		LegacyCode:  "ITM-0042",
		CategoryID:  "cat-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !created.Created {
		t.Error("first upsert should create")
	}

	p := repo.products["4801234567890"]
	if p.Slug != "4801234567890-instant-coffee-100g" {
		t.Errorf("slug = %q", p.Slug)
	}
	if !p.IsActive || !p.IsPublished {
		t.Error("new product must be active and published")
	}
	if p.IsOnSale {
		t.Error("on-sale must stay off without enablement")
	}

	updated, err := uc.UpsertProduct(ctx, &dto.UpsertProductInput{
		Barcode:     "4801234567890",
		Name:        "Instant Coffee 100g (New Pack)",
		RetailPrice: 159.00,
		BaseUOM:     "PCS",
		LegacyCode:  "ITM-0042",
		CategoryID:  "cat-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Created {
		t.Error("second upsert must update, not create")
	}
	if updated.ProductID != created.ProductID {
		t.Error("upsert resolved a different product")
	}

	p = repo.products["4801234567890"]
	if p.RetailPrice != 159.00 || p.Name != "Instant Coffee 100g (New Pack)" {
		t.Errorf("update not applied: %+v", p)
	}
	if p.LastSyncedAt == nil {
		t.Error("lastSyncedAt not stamped")
	}
}

func TestUpsertProductOnSaleMonotonic(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestResolver(repo)
	ctx := context.Background()

	input := &dto.UpsertProductInput{
		Barcode: "111", Name: "Widget", BaseUOM: "PCS", EnableOnSale: true,
	}
	if _, err := uc.UpsertProduct(ctx, input); err != nil {
		t.Fatal(err)
	}
	if !repo.products["111"].IsOnSale {
		t.Fatal("enablement ignored on create")
	}

	// A later sync without enablement must not turn the flag off.
	input.EnableOnSale = false
	if _, err := uc.UpsertProduct(ctx, input); err != nil {
		t.Fatal(err)
	}
	if !repo.products["111"].IsOnSale {
		t.Error("sync must never force-disable on-sale")
	}
}
