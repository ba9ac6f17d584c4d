package inventory

import (
	"context"
	"time"

	"github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/internal/model"
)

// UseCase is the only sanctioned entry point for mutating the ledger. Every
// mutation emits a movement record consistent with the new quantity state.
type UseCase interface {
	GetInventory(ctx context.Context, id string) (*model.Inventory, error)
	GetByProductSite(ctx context.Context, productID, siteID string) (*model.Inventory, error)
	Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.Inventory, error)
	Transfer(ctx context.Context, input *dto.TransferStockInput) error
	ApplySnapshot(ctx context.Context, input *dto.SnapshotInput) (*dto.SnapshotResult, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}

// Locker serializes mutations on one ledger row across service instances.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
