package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/GriffinCanCode/AppShelf/internal/shared/paths"
	"github.com/GriffinCanCode/AppShelf/internal/shared/process"
	"github.com/charlievieth/fastwalk"
)

// BundleQuery selects application bundles in the Spotlight index.
const BundleQuery = "kMDItemContentTypeTree == 'com.apple.application-bundle'"

// Searcher produces candidate bundle paths below a set of roots. Results may
// contain duplicates, nested bundles and non-bundle paths.
type Searcher interface {
	Search(ctx context.Context, roots []string) ([]string, error)
}

// SpotlightSearcher queries the system content index with mdfind.
type SpotlightSearcher struct {
	Runner process.Runner
}

// Search runs one mdfind query scoped to every root.
func (s SpotlightSearcher) Search(ctx context.Context, roots []string) ([]string, error) {
	args := make([]string, 0, 2*len(roots)+1)
	for _, r := range roots {
		args = append(args, "-onlyin", r)
	}
	args = append(args, BundleQuery)

	out, err := s.Runner.Output(ctx, "mdfind", args...)
	if err != nil {
		return nil, fmt.Errorf("spotlight query: %w", err)
	}
	return process.Lines(out), nil
}

// WalkSearcher walks the roots directly. It does not descend into bundles,
// so nested helpers never show up. Missing roots are skipped.
type WalkSearcher struct {
	Follow bool
}

// Search walks every root concurrently.
func (w WalkSearcher) Search(ctx context.Context, roots []string) ([]string, error) {
	var (
		mu    sync.Mutex
		found []string
	)

	conf := fastwalk.Config{Follow: w.Follow}
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}

		err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil || !d.IsDir() || p == root {
				return nil
			}
			if filepath.Ext(p) != paths.BundleExt {
				return nil
			}

			mu.Lock()
			found = append(found, p)
			mu.Unlock()
			return filepath.SkipDir
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return found, nil
}
