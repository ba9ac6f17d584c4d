package model

import "time"

// Movement types. Every ledger mutation is tagged with exactly one.
const (
	MovementStockIn     = "STOCK_IN"
	MovementStockOut    = "STOCK_OUT"
	MovementAdjustment  = "ADJUSTMENT"
	MovementTransferIn  = "TRANSFER_IN"
	MovementTransferOut = "TRANSFER_OUT"
	MovementSync        = "SYNC"
)

type Inventory struct {
	ID           string     `db:"id" json:"id"`
	ProductID    string     `db:"product_id" json:"product_id"`
	SiteID       string     `db:"site_id" json:"site_id"`
	Quantity     float64    `db:"quantity" json:"quantity"`
	ReservedQty  float64    `db:"reserved_qty" json:"reserved_qty"`
	AvailableQty float64    `db:"available_qty" json:"available_qty"`
	Version      int64      `db:"version" json:"version"` // Optimistic concurrency token
	LastSyncedAt *time.Time `db:"last_synced_at" json:"last_synced_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// InventoryMovement is an immutable audit record of one quantity change.
// Replaying movements in creation order reproduces the ledger quantity.
type InventoryMovement struct {
	ID              string    `db:"id" json:"id"`
	InventoryID     string    `db:"inventory_id" json:"inventory_id"`
	ProductID       string    `db:"product_id" json:"product_id"`
	SiteID          string    `db:"site_id" json:"site_id"`
	MovementType    string    `db:"movement_type" json:"movement_type"`
	QuantityChange  float64   `db:"quantity_change" json:"quantity_change"`
	QuantityBefore  float64   `db:"quantity_before" json:"quantity_before"`
	QuantityAfter   float64   `db:"quantity_after" json:"quantity_after"`
	TransferGroupID *string   `db:"transfer_group_id" json:"transfer_group_id"` // Shared by both sides of a transfer
	Reference       *string   `db:"reference" json:"reference"`
	Notes           string    `db:"notes" json:"notes"`
	CreatedBy       *string   `db:"created_by" json:"created_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
