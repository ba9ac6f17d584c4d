package dto

// Adjustment directions.
const (
	AdjustTypeIn  = "IN"
	AdjustTypeOut = "OUT"
)

type AdjustStockInput struct {
	InventoryID string
	Type        string // IN | OUT
	Quantity    float64
	Reason      string
	Reference   string
	ActorID     string
}

type TransferStockInput struct {
	ProductID  string
	FromSiteID string
	ToSiteID   string
	Quantity   float64
	Notes      string
	ActorID    string
}

// SnapshotInput is a sync-driven authoritative quantity for one (product, site).
type SnapshotInput struct {
	ProductID string
	SiteID    string
	Quantity  float64
}
