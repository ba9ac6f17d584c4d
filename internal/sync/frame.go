package sync

// Frame types emitted over the progress stream.
const (
	FrameProgress = "progress"
	FrameComplete = "complete"
	FrameError    = "error"
)

// Stats accumulates counters for one sync run.
type Stats struct {
	TotalFetched       int `json:"totalFetched"`
	ProductsCreated    int `json:"productsCreated"`
	ProductsUpdated    int `json:"productsUpdated"`
	InventoriesCreated int `json:"inventoriesCreated"`
	InventoriesUpdated int `json:"inventoriesUpdated"`
	CategoriesCreated  int `json:"categoriesCreated"`
	SitesCreated       int `json:"sitesCreated"`
	Errors             int `json:"errors"`
}

// Frame is one typed progress event. Frames are emitted strictly in
// row-processing order; current never decreases within a run.
type Frame struct {
	Type    string   `json:"type"`
	Current int      `json:"current"`
	Total   int      `json:"total"`
	Message string   `json:"message"`
	Stats   *Stats   `json:"stats,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// EmitFunc delivers one frame to the consumer. A non-nil error means the
// consumer is gone and the run should stop.
type EmitFunc func(Frame) error
