package dto

// SiteResolution is the outcome of resolving a legacy site code.
type SiteResolution struct {
	SiteID             string
	Existed            bool
	IsMarkdown         bool
	ShouldEnableOnSale bool
}

type CategoryResolution struct {
	CategoryID string
	Existed    bool
}

type ProductResolution struct {
	ProductID string
	Created   bool
}
