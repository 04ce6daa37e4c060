package catalog

import (
	"github.com/GriffinCanCode/AppShelf/internal/domain/discovery"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/bytedance/sonic"
)

// Entry is one application as presented to clients.
type Entry struct {
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	IsSystem     bool    `json:"is_system"`
	Category     string  `json:"category"`
	UsageCount   uint32  `json:"usage_count"`
	IconData     *string `json:"icon_data"`
	DateModified uint64  `json:"date_modified"`
}

// MarshalJSON writes an unassigned category as null, so clients always see
// both category and icon_data keys.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	var category *string
	if e.Category != "" {
		category = &e.Category
	}
	return sonic.Marshal(struct {
		plain
		Category *string `json:"category"`
	}{plain(e), category})
}

// fromBundle merges a discovered bundle with persisted metadata.
func fromBundle(b discovery.Bundle, rec *metadata.Record) Entry {
	e := Entry{
		Name:         b.Name,
		Path:         b.Path,
		IsSystem:     b.IsSystem,
		DateModified: b.LastModified,
	}
	e.overlay(rec)
	return e
}

// overlay replaces user-owned fields with the record's current values.
func (e *Entry) overlay(rec *metadata.Record) {
	e.Category, _ = rec.Category(e.Path)
	e.UsageCount = rec.Usage(e.Path)
}
