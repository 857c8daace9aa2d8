package entity

// Category groups products in a tree.
type Category struct {
	ID       uint   `json:"id"`
	ParentID uint   `json:"parent_id"`
	Title    string `json:"title"`

	// ShowPid is the page that renders the single view for products of this
	// category; 0 falls back to the configured default.
	ShowPid uint `json:"show_pid"`
}

// Page is a node of the page tree that stores catalog records.
type Page struct {
	ID    uint   `json:"id"`
	Pid   uint   `json:"pid"`
	Title string `json:"title"`
}
