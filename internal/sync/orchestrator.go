package sync

import (
	"context"
	"fmt"

	"github.com/patwikx/retail-inventory-service/internal/catalog"
	catalogdto "github.com/patwikx/retail-inventory-service/internal/catalog/dto"
	"github.com/patwikx/retail-inventory-service/internal/inventory"
	inventorydto "github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/internal/legacy"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// Orchestrator reconciles one site's legacy inventory snapshot into the local
// catalog and ledger, streaming progress to the caller.
type Orchestrator struct {
	source    legacy.Source
	resolver  catalog.Resolver
	inventory inventory.UseCase
	logger    logger.ZapLogger
}

func NewOrchestrator(source legacy.Source, resolver catalog.Resolver, inv inventory.UseCase, log logger.ZapLogger) *Orchestrator {
	return &Orchestrator{
		source:    source,
		resolver:  resolver,
		inventory: inv,
		logger:    log,
	}
}

// Run pulls the snapshot for siteCode and applies it row by row. A failure on
// one row is recorded and the loop moves on; only a fetch failure before the
// loop is fatal. The context is checked between rows so a dropped consumer
// stops the run after the in-flight row.
func (o *Orchestrator) Run(ctx context.Context, siteCode string, emit EmitFunc) error {
	rows, err := o.source.FetchSiteInventory(ctx, siteCode)
	if err != nil {
		o.logger.Error("legacy snapshot fetch failed", zap.String("site_code", siteCode), zap.Error(err))
		_ = emit(Frame{
			Type:    FrameError,
			Message: fmt.Sprintf("Failed to fetch legacy inventory: %v", err),
		})
		return err
	}

	stats := Stats{TotalFetched: len(rows)}
	var errList []string

	if err := emit(Frame{
		Type:    FrameProgress,
		Current: 0,
		Total:   len(rows),
		Message: fmt.Sprintf("Fetched %d items from legacy system", len(rows)),
		Stats:   &stats,
	}); err != nil {
		return err
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("sync cancelled",
				zap.String("site_code", siteCode),
				zap.Int("processed", i),
			)
			return err
		}

		if err := o.processRow(ctx, row, &stats); err != nil {
			stats.Errors++
			errList = append(errList, fmt.Sprintf("%s: %v", row.Barcode, err))
			o.logger.Warn("sync row failed", zap.String("barcode", row.Barcode), zap.Error(err))
		}

		if err := emit(Frame{
			Type:    FrameProgress,
			Current: i + 1,
			Total:   len(rows),
			Message: fmt.Sprintf("Processed %d of %d items", i+1, len(rows)),
			Stats:   &stats,
		}); err != nil {
			return err
		}
	}

	// Full recount, not incremental: cheap at this cardinality and self-healing.
	if err := o.resolver.RecountItemCounts(ctx); err != nil {
		o.logger.Error("category recount failed", zap.Error(err))
		errList = append(errList, fmt.Sprintf("category recount: %v", err))
	}

	o.logger.Info("sync complete",
		zap.String("site_code", siteCode),
		zap.Int("total", stats.TotalFetched),
		zap.Int("errors", stats.Errors),
	)

	return emit(Frame{
		Type:    FrameComplete,
		Current: len(rows),
		Total:   len(rows),
		Message: "Sync complete",
		Stats:   &stats,
		Errors:  errList,
	})
}

func (o *Orchestrator) processRow(ctx context.Context, row legacy.InventoryRow, stats *Stats) error {
	site, err := o.resolver.EnsureSite(ctx, row.SiteCode, row.SiteName)
	if err != nil {
		return fmt.Errorf("resolve site: %w", err)
	}
	if !site.Existed {
		stats.SitesCreated++
	}

	cat, err := o.resolver.EnsureCategory(ctx, row.CategoryName)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	if !cat.Existed {
		stats.CategoriesCreated++
	}

	prod, err := o.resolver.UpsertProduct(ctx, &catalogdto.UpsertProductInput{
		Barcode:        row.Barcode,
		Name:           row.Name,
		RetailPrice:    row.RetailPrice,
		WholesalePrice: row.WholesalePrice,
		POPrice:        row.POPrice,
		BaseUOM:        row.BaseUnitCode,
		LegacyCode:     row.ProductCode,
		CategoryID:     cat.CategoryID,
		EnableOnSale:   site.ShouldEnableOnSale,
	})
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	if prod.Created {
		stats.ProductsCreated++
	} else {
		stats.ProductsUpdated++
	}

	snap, err := o.inventory.ApplySnapshot(ctx, &inventorydto.SnapshotInput{
		ProductID: prod.ProductID,
		SiteID:    site.SiteID,
		Quantity:  row.OnHandQuantity,
	})
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	if snap.Created {
		stats.InventoriesCreated++
	} else {
		stats.InventoriesUpdated++
	}

	return nil
}
