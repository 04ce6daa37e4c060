package classify

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"sync"

	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Classification outcomes
const (
	OutcomeAssigned  = "assigned"
	OutcomeUnmatched = "unmatched"
	OutcomeFailed    = "failed"
)

// Store is the subset of the metadata store the heuristic needs.
type Store interface {
	Load() *metadata.Record
	Update(fn func(rec *metadata.Record) bool) (bool, error)
}

// Observer receives one outcome per examined path.
type Observer interface {
	ObserveClassification(outcome string)
}

// Result summarizes one run.
type Result struct {
	Examined  int  `json:"examined"`
	Assigned  int  `json:"assigned"`
	Unmatched int  `json:"unmatched"`
	Failed    int  `json:"failed"`
	Written   bool `json:"written"`
}

// Heuristic assigns categories to uncategorized applications from their
// declared category identifier. It never overrides an existing assignment.
type Heuristic struct {
	extractor Extractor
	taxonomy  Taxonomy
	store     Store
	observer  Observer
	logger    *zap.Logger
	workers   int
}

// NewHeuristic creates a heuristic using the given taxonomy.
func NewHeuristic(extractor Extractor, taxonomy Taxonomy, store Store, logger *zap.Logger) *Heuristic {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := runtime.NumCPU() * 2
	if workers > 16 {
		workers = 16
	}
	return &Heuristic{
		extractor: extractor,
		taxonomy:  taxonomy,
		store:     store,
		logger:    logger,
		workers:   workers,
	}
}

// SetObserver attaches an outcome observer.
func (h *Heuristic) SetObserver(o Observer) {
	h.observer = o
}

// Taxonomy returns the active rules.
func (h *Heuristic) Taxonomy() Taxonomy {
	return h.taxonomy
}

// Run classifies every path without a category and writes all assignments
// in a single update. Per-path failures leave the path uncategorized. The
// only error returned is a failed write.
func (h *Heuristic) Run(ctx context.Context, bundlePaths []string) (Result, error) {
	rec := h.store.Load()

	var pending []string
	for _, p := range bundlePaths {
		if _, ok := rec.Categories[p]; !ok {
			pending = append(pending, p)
		}
	}

	res := Result{Examined: len(pending)}
	found := h.classifyAll(ctx, pending, &res)
	if len(found) == 0 {
		return res, nil
	}

	written, err := h.store.Update(func(rec *metadata.Record) bool {
		res.Assigned = apply(rec, found)
		return res.Assigned > 0
	})
	res.Written = written
	if err != nil {
		return res, fmt.Errorf("auto-categorize: %w", err)
	}

	h.logger.Info("auto-categorize complete",
		zap.Int("examined", res.Examined),
		zap.Int("assigned", res.Assigned),
		zap.Int("unmatched", res.Unmatched),
		zap.Int("failed", res.Failed),
		zap.Bool("written", res.Written))
	return res, nil
}

func (h *Heuristic) classifyAll(ctx context.Context, pending []string, res *Result) map[string]string {
	var (
		mu    sync.Mutex
		found = make(map[string]string)
		g     errgroup.Group
	)
	g.SetLimit(h.workers)

	for _, p := range pending {
		g.Go(func() error {
			category, outcome := h.classify(ctx, p)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case OutcomeAssigned:
				found[p] = category
			case OutcomeUnmatched:
				res.Unmatched++
			case OutcomeFailed:
				res.Failed++
			}
			if h.observer != nil {
				h.observer.ObserveClassification(outcome)
			}
			return nil
		})
	}
	_ = g.Wait()
	return found
}

func (h *Heuristic) classify(ctx context.Context, path string) (string, string) {
	identifier, err := h.extractor.CategoryType(ctx, path)
	if err != nil {
		h.logger.Debug("no category identifier", zap.String("path", path), zap.Error(err))
		return "", OutcomeFailed
	}
	category, ok := h.taxonomy.Classify(identifier)
	if !ok {
		return "", OutcomeUnmatched
	}
	return category, OutcomeAssigned
}

// apply records assignments for paths that are still uncategorized and
// registers each newly used category.
func apply(rec *metadata.Record, found map[string]string) int {
	applied := 0
	for _, path := range slices.Sorted(maps.Keys(found)) {
		if _, taken := rec.Categories[path]; taken {
			continue
		}
		category := found[path]
		rec.Categories[path] = category
		applied++

		if !slices.Contains(rec.UserCategories, category) {
			rec.UserCategories = append(rec.UserCategories, category)
		}
		if !slices.Contains(rec.CategoryOrder, category) {
			rec.CategoryOrder = append(rec.CategoryOrder, category)
		}
	}
	return applied
}
