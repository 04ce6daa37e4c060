package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
)

// Sort orders
const (
	SortName  = "name"
	SortUsage = "usage"
	SortDate  = "date"
)

// FrequentLimit caps the Frequent view.
const FrequentLimit = 10

// Query narrows and orders a catalog for display.
type Query struct {
	Search   string `json:"search,omitempty" form:"search"`
	Category string `json:"category,omitempty" form:"category"`
	Sort     string `json:"sort,omitempty" form:"sort"`
}

// IsZero reports whether the query leaves the catalog untouched.
func (q Query) IsZero() bool {
	return q == Query{}
}

// ValidSort reports whether s names a known sort order; empty means name.
func ValidSort(s string) bool {
	switch s {
	case "", SortName, SortUsage, SortDate:
		return true
	}
	return false
}

// Filter returns the entries matching q in display order. The input is not
// modified.
func Filter(entries []Entry, q Query) []Entry {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if needle != "" && !strings.Contains(strings.ToLower(e.Name), needle) {
			continue
		}
		if !inCategory(e, q.Category) {
			continue
		}
		out = append(out, e)
	}

	if q.Category == metadata.CategoryFrequent {
		sortByUsage(out)
		if len(out) > FrequentLimit {
			out = out[:FrequentLimit]
		}
		return out
	}

	switch q.Sort {
	case SortUsage:
		sortByUsage(out)
	case SortDate:
		slices.SortStableFunc(out, func(a, b Entry) int {
			return cmp.Compare(b.DateModified, a.DateModified)
		})
	default:
		SortByName(out)
	}
	return out
}

func inCategory(e Entry, category string) bool {
	switch category {
	case "", metadata.CategoryAll:
		return true
	case metadata.CategorySystem:
		return e.IsSystem
	case metadata.CategoryUserApps:
		return !e.IsSystem
	case metadata.CategoryFrequent:
		return e.UsageCount > 0
	case metadata.CategoryScripts:
		return false
	default:
		return !e.IsSystem && e.Category == category
	}
}

func sortByUsage(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.UsageCount, a.UsageCount)
	})
}
