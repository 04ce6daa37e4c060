package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/AppShelf/internal/domain/discovery"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/GriffinCanCode/AppShelf/internal/shared/paths"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an operation targets a path that no longer
// exists on disk.
var ErrNotFound = errors.New("app not found")

// Refresh modes
const (
	ModeSoft = "soft"
	ModeHard = "hard"
)

// Discoverer enumerates installed applications.
type Discoverer interface {
	Discover(ctx context.Context) []discovery.Bundle
}

// RecordStore is the subset of the metadata store the cache needs.
type RecordStore interface {
	Load() *metadata.Record
	IncrementUsage(path string) (uint32, error)
	SetCategory(path, category string) error
}

// Observer receives refresh outcomes for metrics.
type Observer interface {
	ObserveRefresh(mode string, entries int, d time.Duration)
}

// Cache holds the last catalog snapshot. A single mutex covers every read
// and both refresh kinds, so concurrent callers are serialized.
type Cache struct {
	probe    Discoverer
	store    RecordStore
	exists   func(path string) bool
	observer Observer
	logger   *zap.Logger

	mu      sync.Mutex
	entries []Entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithExists overrides the filesystem existence check.
func WithExists(fn func(string) bool) Option {
	return func(c *Cache) { c.exists = fn }
}

// WithObserver attaches a refresh observer.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// New creates an empty cache.
func New(probe Discoverer, store RecordStore, logger *zap.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		probe:  probe,
		store:  store,
		exists: paths.Exists,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the catalog. With force, or when nothing is cached yet, the
// probe runs again; otherwise vanished entries are pruned and metadata is
// re-applied without querying the system. A hard refresh ignores caller
// cancellation once started.
func (c *Cache) Get(ctx context.Context, force bool) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	mode := ModeSoft
	if force || len(c.entries) == 0 {
		mode = ModeHard
		c.hardRefresh(context.WithoutCancel(ctx))
	} else {
		c.softRefresh()
	}

	if c.observer != nil {
		c.observer.ObserveRefresh(mode, len(c.entries), time.Since(start))
	}
	c.logger.Debug("catalog refreshed",
		zap.String("mode", mode),
		zap.Int("entries", len(c.entries)),
		zap.Duration("took", time.Since(start)))

	return slices.Clone(c.entries)
}

func (c *Cache) softRefresh() {
	rec := c.store.Load()
	kept := c.entries[:0]
	for _, e := range c.entries {
		if !c.exists(e.Path) {
			continue
		}
		e.overlay(rec)
		kept = append(kept, e)
	}
	clear(c.entries[len(kept):])
	c.entries = kept
}

func (c *Cache) hardRefresh(ctx context.Context) {
	bundles := c.probe.Discover(ctx)
	rec := c.store.Load()

	entries := make([]Entry, 0, len(bundles))
	for _, b := range bundles {
		entries = append(entries, fromBundle(b, rec))
	}
	SortByName(entries)
	c.entries = entries
}

// Snapshot returns the cached entries without refreshing.
func (c *Cache) Snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Paths returns the identity paths of the cached entries.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Path
	}
	return out
}

// RecordUsage increments the launch count of an existing application. The
// cached snapshot is left alone; the next refresh picks the count up.
func (c *Cache) RecordUsage(_ context.Context, path string) (uint32, error) {
	if !c.exists(path) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	count, err := c.store.IncrementUsage(path)
	if err != nil {
		return count, fmt.Errorf("record usage: %w", err)
	}
	return count, nil
}

// SetCategory assigns a category to an existing application.
func (c *Cache) SetCategory(_ context.Context, path, category string) error {
	if !c.exists(path) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err := c.store.SetCategory(path, category); err != nil {
		return fmt.Errorf("set category: %w", err)
	}
	return nil
}

// SortByName orders entries by case-insensitive name, then path.
func SortByName(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}
