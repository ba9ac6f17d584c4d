package model

// Site types.
const (
	SiteTypeStore     = "STORE"
	SiteTypeWarehouse = "WAREHOUSE"
	SiteTypeMarkdown  = "MARKDOWN"
)

type Site struct {
	BaseModel
	Code       string `db:"code" json:"code"` // Unique legacy site code
	Name       string `db:"name" json:"name"`
	SiteType   string `db:"site_type" json:"site_type"`
	IsMarkdown bool   `db:"is_markdown" json:"is_markdown"`
	IsActive   bool   `db:"is_active" json:"is_active"`
}
