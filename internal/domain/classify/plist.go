package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/AppShelf/internal/shared/paths"
	"github.com/GriffinCanCode/AppShelf/internal/shared/process"
)

// CategoryKey is the Info.plist key holding the declared category identifier.
const CategoryKey = "LSApplicationCategoryType"

// Extractor reads a bundle's declared category identifier.
type Extractor interface {
	CategoryType(ctx context.Context, bundle string) (string, error)
}

// PlistExtractor reads Info.plist with plutil.
type PlistExtractor struct {
	Runner process.Runner
}

// CategoryType returns the raw identifier, for example
// "public.app-category.developer-tools". A missing key or plist is an error.
func (p PlistExtractor) CategoryType(ctx context.Context, bundle string) (string, error) {
	out, err := p.Runner.Output(ctx, "plutil", "-extract", CategoryKey, "raw", "-o", "-", paths.InfoPlistPath(bundle))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", CategoryKey, err)
	}
	return strings.TrimSpace(string(out)), nil
}
