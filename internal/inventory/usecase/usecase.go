package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patwikx/retail-inventory-service/internal/errs"
	"github.com/patwikx/retail-inventory-service/internal/inventory"
	"github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/internal/model"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	lockTTL        = 5 * time.Second
	lockRetries    = 3
	lockRetryDelay = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo   inventory.Repository
	locker inventory.Locker
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, locker inventory.Locker, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		locker: locker,
		logger: log,
	}
}

func (uc *inventoryUseCase) GetInventory(ctx context.Context, id string) (*model.Inventory, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errs.NotFound("inventory", id)
	}
	return inv, nil
}

func (uc *inventoryUseCase) GetByProductSite(ctx context.Context, productID, siteID string) (*model.Inventory, error) {
	return uc.repo.GetByProductSite(ctx, productID, siteID)
}

// acquireLocks takes per-(product, site) locks with a short retry loop.
// Released in reverse order via the returned func.
func (uc *inventoryUseCase) acquireLocks(ctx context.Context, keys ...string) (func(), error) {
	value := uuid.New().String()
	held := make([]string, 0, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			if err := uc.locker.ReleaseLock(context.Background(), held[i], value); err != nil {
				uc.logger.Error("failed to release inventory lock", zap.String("key", held[i]), zap.Error(err))
			}
		}
	}

	for _, key := range keys {
		acquired := false
		for i := 0; i < lockRetries; i++ {
			ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
			if err != nil {
				uc.logger.Error("failed to acquire lock, redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(lockRetryDelay)
		}
		if !acquired {
			release()
			return nil, fmt.Errorf("inventory busy, please try again later")
		}
		held = append(held, key)
	}

	return release, nil
}

func lockKey(productID, siteID string) string {
	return fmt.Sprintf("lock:inventory:%s:%s", productID, siteID)
}

func (uc *inventoryUseCase) Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.Inventory, error) {
	if input.Quantity <= 0 {
		return nil, errs.Validation("quantity must be greater than zero")
	}
	if input.Type != dto.AdjustTypeIn && input.Type != dto.AdjustTypeOut {
		return nil, errs.Validation("adjustment type must be IN or OUT")
	}
	if input.Reason == "" {
		return nil, errs.Validation("reason is required")
	}

	// First load tells us which row to lock; the row is re-read under the lock.
	probe, err := uc.repo.GetByID(ctx, input.InventoryID)
	if err != nil {
		return nil, err
	}
	if probe == nil {
		return nil, errs.NotFound("inventory", input.InventoryID)
	}

	release, err := uc.acquireLocks(ctx, lockKey(probe.ProductID, probe.SiteID))
	if err != nil {
		return nil, err
	}
	defer release()

	inv, err := uc.repo.GetByID(ctx, input.InventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errs.NotFound("inventory", input.InventoryID)
	}

	change := input.Quantity
	movementType := model.MovementStockIn
	if input.Type == dto.AdjustTypeOut {
		if input.Quantity > inv.AvailableQty {
			return nil, &errs.InsufficientStockError{Requested: input.Quantity, Available: inv.AvailableQty}
		}
		change = -input.Quantity
		movementType = model.MovementStockOut
	}

	now := time.Now()
	before := inv.Quantity
	inv.Quantity = before + change
	inv.AvailableQty = inv.Quantity - inv.ReservedQty
	inv.UpdatedAt = now

	movement := &model.InventoryMovement{
		ID:             uuid.New().String(),
		InventoryID:    inv.ID,
		ProductID:      inv.ProductID,
		SiteID:         inv.SiteID,
		MovementType:   movementType,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  inv.Quantity,
		Reference:      optional(input.Reference),
		Notes:          input.Reason,
		CreatedBy:      optional(input.ActorID),
		CreatedAt:      now,
	}

	if err := uc.repo.SaveWithMovement(ctx, inv, movement, false); err != nil {
		return nil, err
	}

	return inv, nil
}

func (uc *inventoryUseCase) Transfer(ctx context.Context, input *dto.TransferStockInput) error {
	if input.Quantity <= 0 {
		return errs.Validation("quantity must be greater than zero")
	}
	if input.FromSiteID == input.ToSiteID {
		return errs.Validation("source and destination site must differ")
	}

	// Locks taken in sorted key order so two opposing transfers cannot deadlock.
	keys := []string{
		lockKey(input.ProductID, input.FromSiteID),
		lockKey(input.ProductID, input.ToSiteID),
	}
	if keys[1] < keys[0] {
		keys[0], keys[1] = keys[1], keys[0]
	}
	release, err := uc.acquireLocks(ctx, keys...)
	if err != nil {
		return err
	}
	defer release()

	src, err := uc.repo.GetByProductSite(ctx, input.ProductID, input.FromSiteID)
	if err != nil {
		return err
	}
	if src == nil {
		return errs.NotFound("inventory", input.ProductID+"@"+input.FromSiteID)
	}
	if input.Quantity > src.AvailableQty {
		return &errs.InsufficientStockError{Requested: input.Quantity, Available: src.AvailableQty}
	}

	dst, err := uc.repo.GetByProductSite(ctx, input.ProductID, input.ToSiteID)
	if err != nil {
		return err
	}

	now := time.Now()
	dstNew := dst == nil
	if dstNew {
		dst = &model.Inventory{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			SiteID:    input.ToSiteID,
		}
	}

	srcBefore := src.Quantity
	src.Quantity -= input.Quantity
	src.AvailableQty = src.Quantity - src.ReservedQty
	src.UpdatedAt = now

	dstBefore := dst.Quantity
	dst.Quantity += input.Quantity
	dst.AvailableQty = dst.Quantity - dst.ReservedQty
	dst.UpdatedAt = now

	// One group id ties the two movements together; the notes keep the
	// human-readable cross-reference for history views.
	groupID := uuid.New().String()

	outNotes := fmt.Sprintf("Transfer to site %s", input.ToSiteID)
	inNotes := fmt.Sprintf("Transfer from site %s", input.FromSiteID)
	if input.Notes != "" {
		outNotes += ": " + input.Notes
		inNotes += ": " + input.Notes
	}

	out := &model.InventoryMovement{
		ID:              uuid.New().String(),
		InventoryID:     src.ID,
		ProductID:       src.ProductID,
		SiteID:          src.SiteID,
		MovementType:    model.MovementTransferOut,
		QuantityChange:  -input.Quantity,
		QuantityBefore:  srcBefore,
		QuantityAfter:   src.Quantity,
		TransferGroupID: &groupID,
		Notes:           outNotes,
		CreatedBy:       optional(input.ActorID),
		CreatedAt:       now,
	}
	in := &model.InventoryMovement{
		ID:              uuid.New().String(),
		InventoryID:     dst.ID,
		ProductID:       dst.ProductID,
		SiteID:          dst.SiteID,
		MovementType:    model.MovementTransferIn,
		QuantityChange:  input.Quantity,
		QuantityBefore:  dstBefore,
		QuantityAfter:   dst.Quantity,
		TransferGroupID: &groupID,
		Notes:           inNotes,
		CreatedBy:       optional(input.ActorID),
		CreatedAt:       now,
	}

	return uc.repo.TransferWithMovements(ctx, src, dst, dstNew, out, in)
}

// ApplySnapshot is the idempotent sync upsert: the incoming quantity is
// authoritative and becomes both quantity and available quantity (the legacy
// feed has no reservation concept). A SYNC movement is recorded whenever the
// quantity actually changed.
func (uc *inventoryUseCase) ApplySnapshot(ctx context.Context, input *dto.SnapshotInput) (*dto.SnapshotResult, error) {
	if input.Quantity < 0 {
		return nil, errs.Validation("snapshot quantity must not be negative")
	}

	release, err := uc.acquireLocks(ctx, lockKey(input.ProductID, input.SiteID))
	if err != nil {
		return nil, err
	}
	defer release()

	inv, err := uc.repo.GetByProductSite(ctx, input.ProductID, input.SiteID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	isNew := inv == nil
	if isNew {
		inv = &model.Inventory{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			SiteID:    input.SiteID,
		}
	}

	before := inv.Quantity
	inv.Quantity = input.Quantity
	inv.AvailableQty = input.Quantity
	inv.LastSyncedAt = &now
	inv.UpdatedAt = now

	var movement *model.InventoryMovement
	if change := input.Quantity - before; change != 0 {
		movement = &model.InventoryMovement{
			ID:             uuid.New().String(),
			InventoryID:    inv.ID,
			ProductID:      inv.ProductID,
			SiteID:         inv.SiteID,
			MovementType:   model.MovementSync,
			QuantityChange: change,
			QuantityBefore: before,
			QuantityAfter:  inv.Quantity,
			Notes:          "Legacy inventory sync",
			CreatedAt:      now,
		}
	}

	if err := uc.repo.SaveWithMovement(ctx, inv, movement, isNew); err != nil {
		return nil, err
	}

	return &dto.SnapshotResult{InventoryID: inv.ID, Created: isNew}, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
