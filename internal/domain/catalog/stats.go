package catalog

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"gonum.org/v1/gonum/stat"
)

// DefaultTop is the number of most-used applications reported.
const DefaultTop = 5

// Usage is one application's launch count.
type Usage struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Count uint32 `json:"count"`
}

// Stats summarizes catalog usage and categorization.
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

// Summarize computes usage statistics for entries. The top list is built
// from every counted path in the record, including ones no longer in the
// catalog.
func Summarize(entries []Entry, rec *metadata.Record, top int) Stats {
	if top <= 0 {
		top = DefaultTop
	}

	s := Stats{
		Apps:       len(entries),
		ByCategory: map[string]int{},
		TopUsed:    []Usage{},
	}

	names := make(map[string]string, len(entries))
	counts := make([]float64, 0, len(entries))
	for _, e := range entries {
		names[e.Path] = e.Name
		if e.IsSystem {
			s.SystemApps++
		}
		if e.Category != "" {
			s.Categorized++
			s.ByCategory[e.Category]++
		}
		counts = append(counts, float64(e.UsageCount))
	}

	if len(counts) > 0 {
		s.MeanUsage, s.StdDevUsage = stat.MeanStdDev(counts, nil)
		if len(counts) == 1 {
			s.StdDevUsage = 0
		}
		slices.Sort(counts)
		s.MedianUsage = stat.Quantile(0.5, stat.Empirical, counts, nil)
	}

	for path, n := range rec.UsageCounts {
		if n == 0 {
			continue
		}
		s.TotalLaunches += uint64(n)
		name, ok := names[path]
		if !ok {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		s.TopUsed = append(s.TopUsed, Usage{Name: name, Path: path, Count: n})
	}
	slices.SortFunc(s.TopUsed, func(a, b Usage) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	if len(s.TopUsed) > top {
		s.TopUsed = s.TopUsed[:top]
	}
	return s
}
