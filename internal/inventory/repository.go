package inventory

import (
	"context"

	"github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/internal/model"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*model.Inventory, error)
	GetByProductSite(ctx context.Context, productID, siteID string) (*model.Inventory, error)

	// SaveWithMovement writes one ledger row and, when movement is non-nil, its
	// movement record in a single transaction. isNew selects insert vs a
	// version-checked update; a stale version fails with errs.ErrConcurrentUpdate.
	SaveWithMovement(ctx context.Context, inv *model.Inventory, movement *model.InventoryMovement, isNew bool) error

	// TransferWithMovements commits both sides of a transfer plus their two
	// movement records atomically: either all four writes land or none do.
	TransferWithMovements(ctx context.Context, src, dst *model.Inventory, dstNew bool, out, in *model.InventoryMovement) error

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
