package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	catalogdto "github.com/patwikx/retail-inventory-service/internal/catalog/dto"
	inventorydto "github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/internal/legacy"
	"github.com/patwikx/retail-inventory-service/internal/model"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
)

type fakeSource struct {
	rows []legacy.InventoryRow
	err  error
}

func (s *fakeSource) FetchSiteInventory(context.Context, string) ([]legacy.InventoryRow, error) {
	return s.rows, s.err
}

type fakeResolver struct {
	sites        map[string]string
	categories   map[string]string
	products     map[string]string
	failBarcodes map[string]bool
	recounts     int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		sites:        map[string]string{},
		categories:   map[string]string{},
		products:     map[string]string{},
		failBarcodes: map[string]bool{},
	}
}

func (r *fakeResolver) EnsureSite(_ context.Context, code, _ string) (*catalogdto.SiteResolution, error) {
	if id, ok := r.sites[code]; ok {
		return &catalogdto.SiteResolution{SiteID: id, Existed: true}, nil
	}
	id := "site-" + code
	r.sites[code] = id
	return &catalogdto.SiteResolution{SiteID: id, Existed: false}, nil
}

func (r *fakeResolver) EnsureCategory(_ context.Context, name string) (*catalogdto.CategoryResolution, error) {
	if id, ok := r.categories[name]; ok {
		return &catalogdto.CategoryResolution{CategoryID: id, Existed: true}, nil
	}
	id := "cat-" + name
	r.categories[name] = id
	return &catalogdto.CategoryResolution{CategoryID: id, Existed: false}, nil
}

func (r *fakeResolver) UpsertProduct(_ context.Context, input *catalogdto.UpsertProductInput) (*catalogdto.ProductResolution, error) {
	if r.failBarcodes[input.Barcode] {
		return nil, errors.New("simulated upsert failure")
	}
	if id, ok := r.products[input.Barcode]; ok {
		return &catalogdto.ProductResolution{ProductID: id, Created: false}, nil
	}
	id := "prod-" + input.Barcode
	r.products[input.Barcode] = id
	return &catalogdto.ProductResolution{ProductID: id, Created: true}, nil
}

func (r *fakeResolver) RecountItemCounts(context.Context) error {
	r.recounts++
	return nil
}

type fakeInventoryUC struct {
	snapshots map[string]float64
}

func newFakeInventoryUC() *fakeInventoryUC {
	return &fakeInventoryUC{snapshots: map[string]float64{}}
}

func (f *fakeInventoryUC) ApplySnapshot(_ context.Context, input *inventorydto.SnapshotInput) (*inventorydto.SnapshotResult, error) {
	key := input.ProductID + "@" + input.SiteID
	_, existed := f.snapshots[key]
	f.snapshots[key] = input.Quantity
	return &inventorydto.SnapshotResult{InventoryID: "inv-" + key, Created: !existed}, nil
}

func (f *fakeInventoryUC) GetInventory(context.Context, string) (*model.Inventory, error) {
	return nil, nil
}
func (f *fakeInventoryUC) GetByProductSite(context.Context, string, string) (*model.Inventory, error) {
	return nil, nil
}
func (f *fakeInventoryUC) Adjust(context.Context, *inventorydto.AdjustStockInput) (*model.Inventory, error) {
	return nil, errors.New("not used")
}
func (f *fakeInventoryUC) Transfer(context.Context, *inventorydto.TransferStockInput) error {
	return errors.New("not used")
}
func (f *fakeInventoryUC) ListMovements(context.Context, *inventorydto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return nil, 0, nil
}

func makeRows(n int) []legacy.InventoryRow {
	rows := make([]legacy.InventoryRow, n)
	for i := range rows {
		rows[i] = legacy.InventoryRow{
			Barcode:        fmt.Sprintf("BC%03d", i),
			ProductCode:    fmt.Sprintf("P%03d", i),
			Name:           fmt.Sprintf("Item %d", i),
			OnHandQuantity: float64(10 + i),
			CategoryName:   "Groceries",
			SiteCode:       "001",
			SiteName:       "Main Warehouse",
		}
	}
	return rows
}

func collect(frames *[]Frame) EmitFunc {
	return func(f Frame) error {
		*frames = append(*frames, f)
		return nil
	}
}

func TestRunPartialFailureTolerance(t *testing.T) {
	rows := makeRows(5)
	resolver := newFakeResolver()
	resolver.failBarcodes["BC002"] = true
	invUC := newFakeInventoryUC()
	o := NewOrchestrator(&fakeSource{rows: rows}, resolver, invUC, logger.NewNop())

	var frames []Frame
	if err := o.Run(context.Background(), "001", collect(&frames)); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := frames[len(frames)-1]
	if final.Type != FrameComplete {
		t.Fatalf("last frame type = %s, want %s", final.Type, FrameComplete)
	}
	if final.Stats.TotalFetched != 5 {
		t.Errorf("totalFetched = %d, want 5 regardless of failures", final.Stats.TotalFetched)
	}
	if final.Stats.Errors != 1 {
		t.Errorf("errors = %d, want 1", final.Stats.Errors)
	}
	if len(final.Errors) != 1 {
		t.Fatalf("error list length = %d, want 1", len(final.Errors))
	}
	if want := "BC002"; len(final.Errors) > 0 && !strings.Contains(final.Errors[0], want) {
		t.Errorf("error message %q does not name the failed barcode %s", final.Errors[0], want)
	}

	// Rows after the failure were still processed.
	if len(invUC.snapshots) != 4 {
		t.Errorf("expected 4 inventory snapshots, got %d", len(invUC.snapshots))
	}
	if final.Stats.ProductsCreated != 4 {
		t.Errorf("productsCreated = %d, want 4", final.Stats.ProductsCreated)
	}
	if final.Stats.SitesCreated != 1 || final.Stats.CategoriesCreated != 1 {
		t.Errorf("sitesCreated=%d categoriesCreated=%d, want 1/1", final.Stats.SitesCreated, final.Stats.CategoriesCreated)
	}
	if resolver.recounts != 1 {
		t.Errorf("category recount ran %d times, want 1", resolver.recounts)
	}
}

func TestRunFrameOrdering(t *testing.T) {
	rows := makeRows(3)
	o := NewOrchestrator(&fakeSource{rows: rows}, newFakeResolver(), newFakeInventoryUC(), logger.NewNop())

	var frames []Frame
	if err := o.Run(context.Background(), "001", collect(&frames)); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// 1 initial + 3 per-row progress + 1 complete.
	if len(frames) != 5 {
		t.Fatalf("frame count = %d, want 5", len(frames))
	}
	if frames[0].Type != FrameProgress || frames[0].Current != 0 || frames[0].Total != 3 {
		t.Errorf("initial frame: %+v", frames[0])
	}

	last := -1
	for i, f := range frames {
		if f.Current < last {
			t.Errorf("frame %d: current %d decreased below %d", i, f.Current, last)
		}
		last = f.Current
	}
}

func TestRunFetchFailureEmitsErrorFrame(t *testing.T) {
	fetchErr := errors.New("legacy unreachable")
	o := NewOrchestrator(&fakeSource{err: fetchErr}, newFakeResolver(), newFakeInventoryUC(), logger.NewNop())

	var frames []Frame
	err := o.Run(context.Background(), "001", collect(&frames))
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error returned, got %v", err)
	}
	if len(frames) != 1 || frames[0].Type != FrameError {
		t.Fatalf("expected a single error frame, got %+v", frames)
	}
}

func TestRunCancellationStopsBetweenRows(t *testing.T) {
	rows := makeRows(10)
	invUC := newFakeInventoryUC()
	o := NewOrchestrator(&fakeSource{rows: rows}, newFakeResolver(), invUC, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	var frames []Frame
	emit := func(f Frame) error {
		frames = append(frames, f)
		if f.Current == 2 {
			cancel()
		}
		return nil
	}

	err := o.Run(ctx, "001", emit)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(invUC.snapshots) != 2 {
		t.Errorf("expected 2 rows processed before cancellation, got %d", len(invUC.snapshots))
	}
	for _, f := range frames {
		if f.Type == FrameComplete {
			t.Error("cancelled run must not emit a complete frame")
		}
	}
}
