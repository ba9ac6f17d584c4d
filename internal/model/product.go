package model

import "time"

type Product struct {
	BaseModel
	CategoryID     *string    `db:"category_id" json:"category_id"` // Nullable
	Barcode        string     `db:"barcode" json:"barcode"`         // Unique
	SKU            string     `db:"sku" json:"sku"`
	Slug           string     `db:"slug" json:"slug"`
	Name           string     `db:"name" json:"name"`
	RetailPrice    float64    `db:"retail_price" json:"retail_price"`
	WholesalePrice float64    `db:"wholesale_price" json:"wholesale_price"`
	POPrice        float64    `db:"po_price" json:"po_price"`
	BaseUOM        string     `db:"base_uom" json:"base_uom"`
	LegacyCode     string     `db:"legacy_code" json:"legacy_code"` // Traceability back to the POS feed
	IsActive       bool       `db:"is_active" json:"is_active"`
	IsPublished    bool       `db:"is_published" json:"is_published"`
	IsOnSale       bool       `db:"is_on_sale" json:"is_on_sale"`
	LastSyncedAt   *time.Time `db:"last_synced_at" json:"last_synced_at"`
}
