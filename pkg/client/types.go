package client

import "encoding/json"

// Entry is one catalog application.
type Entry struct {
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	IsSystem     bool    `json:"is_system"`
	Category     string  `json:"category,omitempty"`
	UsageCount   uint32  `json:"usage_count"`
	IconData     *string `json:"icon_data"`
	DateModified uint64  `json:"date_modified"`
}

// Query narrows a catalog listing.
type Query struct {
	Refresh  bool
	Search   string
	Category string
	Sort     string // name, usage or date
}

// Categories lists user categories and the display order.
type Categories struct {
	UserCategories []string `json:"user_categories"`
	CategoryOrder  []string `json:"category_order"`
}

// AutoResult summarizes an auto-categorization run.
type AutoResult struct {
	Examined  int  `json:"examined"`
	Assigned  int  `json:"assigned"`
	Unmatched int  `json:"unmatched"`
	Failed    int  `json:"failed"`
	Written   bool `json:"written"`
}

// Usage is one application's launch count.
type Usage struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Count uint32 `json:"count"`
}

// Stats summarizes catalog usage.
type Stats struct {
	Apps          int            `json:"apps"`
	SystemApps    int            `json:"system_apps"`
	Categorized   int            `json:"categorized"`
	TotalLaunches uint64         `json:"total_launches"`
	MeanUsage     float64        `json:"mean_usage"`
	StdDevUsage   float64        `json:"stddev_usage"`
	MedianUsage   float64        `json:"median_usage"`
	ByCategory    map[string]int `json:"by_category"`
	TopUsed       []Usage        `json:"top_used"`
}

// Reply is the outcome of an invoked command envelope.
type Reply struct {
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command"`
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type catalogResult struct {
	Entries []Entry `json:"entries"`
}

type usageResult struct {
	Path  string `json:"path"`
	Count uint32 `json:"count"`
}

type configResult struct {
	Config json.RawMessage `json:"config"`
}

type envelope struct {
	ID      string `json:"id,omitempty"`
	Command string `json:"command"`
	Args    any    `json:"args,omitempty"`
}
