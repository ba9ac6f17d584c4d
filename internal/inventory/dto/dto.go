package dto

type SnapshotResult struct {
	InventoryID string
	Created     bool
}

type MovementFilters struct {
	ProductID    string
	SiteID       string
	InventoryID  string
	MovementType string
	Page         int
	PageSize     int
}
