package dto

// UpsertProductInput carries one legacy feed row's product fields.
type UpsertProductInput struct {
	Barcode        string
	Name           string
	RetailPrice    float64
	WholesalePrice float64
	POPrice        float64
	BaseUOM        string
	LegacyCode     string
	CategoryID     string
	EnableOnSale   bool
}
