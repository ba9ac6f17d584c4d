package model

type Category struct {
	BaseModel
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"` // Unique, derived from name
	ItemCount int    `db:"item_count" json:"item_count"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}
