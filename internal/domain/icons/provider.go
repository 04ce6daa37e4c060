package icons

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AppShelf/internal/shared/fsutil"
	"github.com/GriffinCanCode/AppShelf/internal/shared/paths"
	"github.com/GriffinCanCode/AppShelf/internal/shared/process"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Size is the edge length of rendered icons in pixels.
const Size = 128

// Extractor renders a bundle's icon as a PNG file at out.
type Extractor interface {
	Extract(ctx context.Context, bundle, out string) error
}

// SipsExtractor resolves CFBundleIconFile with plutil and converts the
// .icns with sips.
type SipsExtractor struct {
	Runner process.Runner
}

// Extract writes a Size x Size PNG of the bundle's icon to out.
func (s SipsExtractor) Extract(ctx context.Context, bundle, out string) error {
	raw, err := s.Runner.Output(ctx, "plutil", "-extract", "CFBundleIconFile", "raw", "-o", "-", paths.InfoPlistPath(bundle))
	if err != nil {
		return fmt.Errorf("icon name: %w", err)
	}
	name := strings.TrimSpace(string(raw))
	if name == "" {
		return fmt.Errorf("icon name: empty CFBundleIconFile")
	}
	if filepath.Ext(name) == "" {
		name += ".icns"
	}

	src := filepath.Join(bundle, paths.Resources, name)
	size := fmt.Sprint(Size)
	if _, err := s.Runner.Output(ctx, "sips", "-s", "format", "png", "-z", size, size, src, "--out", out); err != nil {
		return fmt.Errorf("convert icon: %w", err)
	}
	return nil
}

// Provider serves bundle icons as data URIs from an on-disk cache keyed by
// bundle path.
type Provider struct {
	dir       string
	extractor Extractor
	logger    *zap.Logger
	group     singleflight.Group
}

// NewProvider creates a provider caching icons in dir.
func NewProvider(dir string, extractor Extractor, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{dir: dir, extractor: extractor, logger: logger}
}

// CachePath returns the cache file for a bundle path.
func (p *Provider) CachePath(bundle string) string {
	sum := md5.Sum([]byte(bundle))
	return filepath.Join(p.dir, hex.EncodeToString(sum[:])+".png")
}

// Fetch returns the icon of bundle as a data URI. Concurrent requests for the
// same bundle share one extraction. Any failure yields ok == false.
func (p *Provider) Fetch(ctx context.Context, bundle string) (string, bool) {
	cached := p.CachePath(bundle)

	if uri, err := dataURI(cached); err == nil {
		return uri, true
	}

	// The shared extraction must outlive any single waiter's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := p.group.Do(cached, func() (interface{}, error) {
		err := fsutil.RenderAtomic(cached, func(tmp string) error {
			if err := p.extractor.Extract(shared, bundle, tmp); err != nil {
				return err
			}
			info, err := os.Stat(tmp)
			if err != nil {
				return err
			}
			if info.Size() == 0 {
				return fmt.Errorf("empty icon rendered for %s", bundle)
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		return dataURI(cached)
	})
	if err != nil {
		p.logger.Debug("icon unavailable", zap.String("path", bundle), zap.Error(err))
		return "", false
	}
	return v.(string), true
}

func dataURI(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty icon file %s", file)
	}
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
