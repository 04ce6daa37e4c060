package discovery

import (
	"context"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AppShelf/internal/shared/paths"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Bundle is one discovered application.
type Bundle struct {
	Name         string
	Path         string
	IsSystem     bool
	LastModified uint64 // seconds since the Unix epoch, 0 when unknown
}

// StatFunc reports file information; os.Stat in production.
type StatFunc func(path string) (os.FileInfo, error)

// Observer receives probe outcomes for metrics.
type Observer interface {
	ObserveDiscovery(d time.Duration, bundles int, err error)
}

// Options configures a Probe.
type Options struct {
	Roots       []string
	SystemRoots []string
	Exclude     []string // doublestar patterns matched against full paths
	Breaker     *resilience.Breaker
	Stat        StatFunc
	Observer    Observer
}

// Probe turns raw searcher output into a clean, sorted bundle list.
type Probe struct {
	searcher Searcher
	opts     Options
	logger   *zap.Logger
}

// NewProbe creates a probe. Invalid exclusion patterns are dropped with a
// warning.
func NewProbe(searcher Searcher, opts Options, logger *zap.Logger) *Probe {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Roots) == 0 {
		opts.Roots = paths.DefaultRoots()
	}
	if opts.SystemRoots == nil {
		opts.SystemRoots = paths.DefaultSystemRoots()
	}
	if opts.Stat == nil {
		opts.Stat = os.Stat
	}

	valid := opts.Exclude[:0:0]
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			logger.Warn("ignoring invalid exclude pattern", zap.String("pattern", pattern))
			continue
		}
		valid = append(valid, pattern)
	}
	opts.Exclude = valid

	return &Probe{searcher: searcher, opts: opts, logger: logger}
}

// Roots returns the directories the probe searches.
func (p *Probe) Roots() []string {
	return slices.Clone(p.opts.Roots)
}

// Discover enumerates installed applications. A failing search yields an
// empty result rather than an error.
func (p *Probe) Discover(ctx context.Context) []Bundle {
	start := time.Now()

	raw, err := p.search(ctx)
	if err != nil {
		p.logger.Warn("discovery probe failed", zap.Error(err))
		p.observe(time.Since(start), 0, err)
		return []Bundle{}
	}

	bundles := p.normalize(raw)
	p.observe(time.Since(start), len(bundles), nil)
	p.logger.Debug("discovery complete",
		zap.Int("candidates", len(raw)),
		zap.Int("bundles", len(bundles)),
		zap.Duration("took", time.Since(start)))
	return bundles
}

func (p *Probe) search(ctx context.Context) ([]string, error) {
	if p.opts.Breaker == nil {
		return p.searcher.Search(ctx, p.opts.Roots)
	}
	return resilience.Do(p.opts.Breaker, func() ([]string, error) {
		return p.searcher.Search(ctx, p.opts.Roots)
	})
}

func (p *Probe) normalize(raw []string) []Bundle {
	seen := make(map[string]struct{}, len(raw))
	bundles := make([]Bundle, 0, len(raw))

	for _, line := range raw {
		path := strings.TrimSpace(line)
		if path == "" || paths.IsNested(path) || !paths.IsBundle(path) {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		if p.excluded(path) {
			continue
		}
		name := paths.BundleName(path)
		if name == "" {
			continue
		}

		bundles = append(bundles, Bundle{
			Name:         name,
			Path:         path,
			IsSystem:     paths.HasAnyPrefix(path, p.opts.SystemRoots),
			LastModified: p.mtime(path),
		})
	}

	SortBundles(bundles)
	return bundles
}

func (p *Probe) excluded(path string) bool {
	for _, pattern := range p.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (p *Probe) mtime(path string) uint64 {
	info, err := p.opts.Stat(path)
	if err != nil {
		return 0
	}
	secs := info.ModTime().Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}

func (p *Probe) observe(d time.Duration, n int, err error) {
	if p.opts.Observer != nil {
		p.opts.Observer.ObserveDiscovery(d, n, err)
	}
}

// SortBundles orders bundles by case-insensitive name, then path.
func SortBundles(bundles []Bundle) {
	slices.SortStableFunc(bundles, func(a, b Bundle) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}
