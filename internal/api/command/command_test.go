package command

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/AppShelf/internal/domain/catalog"
	"github.com/GriffinCanCode/AppShelf/internal/domain/classify"
	"github.com/GriffinCanCode/AppShelf/internal/domain/discovery"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AppShelf/internal/shared/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bundleList []discovery.Bundle

func (b bundleList) Discover(context.Context) []discovery.Bundle { return b }

type idExtractor map[string]string

func (m idExtractor) CategoryType(_ context.Context, p string) (string, error) {
	if id, ok := m[p]; ok {
		return id, nil
	}
	return "", errors.New("missing")
}

type iconStub map[string]string

func (m iconStub) Fetch(_ context.Context, p string) (string, bool) {
	uri, ok := m[p]
	return uri, ok
}

type env struct {
	dir     string
	store   *metadata.Store
	cache   *catalog.Cache
	metrics *monitoring.Metrics
	d       *Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	xcode := testutil.Bundle(t, dir, "Xcode")
	figma := testutil.Bundle(t, dir, "Figma")
	calc := testutil.Bundle(t, dir, "Calculator")

	store := metadata.NewStore(filepath.Join(t.TempDir(), "config.json"), zap.NewNop())
	cache := catalog.New(bundleList{
		{Name: "Calculator", Path: calc, IsSystem: true},
		{Name: "Figma", Path: figma},
		{Name: "Xcode", Path: xcode},
	}, store, zap.NewNop())
	heuristic := classify.NewHeuristic(idExtractor{
		xcode: "public.app-category.developer-tools",
	}, classify.DefaultTaxonomy(), store, zap.NewNop())
	metrics := monitoring.NewMetrics()

	return &env{
		dir:     dir,
		store:   store,
		cache:   cache,
		metrics: metrics,
		d: NewDispatcher(Deps{
			Catalog:    cache,
			Store:      store,
			Classifier: heuristic,
			Icons:      iconStub{xcode: "data:image/png;base64,AAAA"},
			Metrics:    metrics,
			Logger:     zap.NewNop(),
		}),
	}
}

func (e *env) path(name string) string { return filepath.Join(e.dir, name+".app") }

func envelope(t *testing.T, kind Kind, args any) Envelope {
	t.Helper()
	env := Envelope{ID: "1", Command: kind}
	if args != nil {
		raw, err := json.Marshal(args)
		require.NoError(t, err)
		env.Args = raw
	}
	return env
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope
		want    Request
		wantErr error
	}{
		{
			name: "get_catalog without args",
			env:  Envelope{Command: KindGetCatalog},
			want: GetCatalog{},
		},
		{
			name: "get_catalog with query",
			env:  Envelope{Command: KindGetCatalog, Args: json.RawMessage(`{"refresh":true,"search":"x","sort":"usage"}`)},
			want: GetCatalog{Refresh: true, Query: catalog.Query{Search: "x", Sort: "usage"}},
		},
		{
			name: "record_usage",
			env:  Envelope{Command: KindRecordUsage, Args: json.RawMessage(`{"path":"/Applications/Mail.app"}`)},
			want: RecordUsage{Path: "/Applications/Mail.app"},
		},
		{
			name: "set_category allows clearing",
			env:  Envelope{Command: KindSetCategory, Args: json.RawMessage(`{"path":"/A.app","category":""}`)},
			want: SetCategory{Path: "/A.app"},
		},
		{
			name: "auto_categorize ignores args",
			env:  Envelope{Command: KindAutoCategorize, Args: json.RawMessage(`{"x":1}`)},
			want: AutoCategorize{},
		},
		{
			name:    "unknown command",
			env:     Envelope{Command: "launch_app"},
			wantErr: ErrUnknownCommand,
		},
		{
			name:    "missing path",
			env:     Envelope{Command: KindRecordUsage},
			wantErr: ErrInvalidArgs,
		},
		{
			name:    "malformed args",
			env:     Envelope{Command: KindAddUserCategory, Args: json.RawMessage(`{"name":5}`)},
			wantErr: ErrInvalidArgs,
		},
		{
			name:    "bad sort",
			env:     Envelope{Command: KindGetCatalog, Args: json.RawMessage(`{"sort":"size"}`)},
			wantErr: ErrInvalidArgs,
		},
		{
			name:    "save_config without config",
			env:     Envelope{Command: KindSaveConfig, Args: json.RawMessage(`{}`)},
			wantErr: ErrInvalidArgs,
		},
		{
			name:    "negative top",
			env:     Envelope{Command: KindGetStats, Args: json.RawMessage(`{"top":-1}`)},
			wantErr: ErrInvalidArgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.env)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEveryKindDecodes(t *testing.T) {
	args := map[Kind]string{
		KindRecordUsage:        `{"path":"/a.app"}`,
		KindSetCategory:        `{"path":"/a.app","category":"Design"}`,
		KindAddUserCategory:    `{"name":"Games"}`,
		KindRemoveUserCategory: `{"name":"Games"}`,
		KindSaveConfig:         `{"config":{}}`,
		KindGetIcon:            `{"path":"/a.app"}`,
	}
	for _, k := range Kinds() {
		req, err := Decode(Envelope{Command: k, Args: json.RawMessage(args[k])})
		require.NoError(t, err, k)
		assert.Equal(t, k, req.Kind())
	}
}

func TestHandleCatalogFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reply := e.d.Handle(ctx, envelope(t, KindGetCatalog, map[string]any{"refresh": true}))
	require.True(t, reply.OK, reply.Error)
	entries := reply.Data.(CatalogResult).Entries
	require.Len(t, entries, 3)
	assert.Equal(t, "Calculator", entries[0].Name)

	for i := 0; i < 3; i++ {
		reply = e.d.Handle(ctx, envelope(t, KindRecordUsage, RecordUsage{Path: e.path("Figma")}))
		require.True(t, reply.OK, reply.Error)
	}
	assert.Equal(t, UsageResult{Path: e.path("Figma"), Count: 3}, reply.Data)

	reply = e.d.Handle(ctx, envelope(t, KindSetCategory, SetCategory{Path: e.path("Figma"), Category: "Design"}))
	require.True(t, reply.OK, reply.Error)

	reply = e.d.Handle(ctx, envelope(t, KindGetCatalog, map[string]any{"category": "Design"}))
	require.True(t, reply.OK)
	entries = reply.Data.(CatalogResult).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "Figma", entries[0].Name)
	assert.Equal(t, uint32(3), entries[0].UsageCount)

	assert.Equal(t, 1.0, promtest.ToFloat64(e.metrics.CommandsTotal.WithLabelValues("set_category", "ok")))
}

func TestHandleNotFound(t *testing.T) {
	e := newEnv(t)

	reply := e.d.Handle(context.Background(), envelope(t, KindRecordUsage, RecordUsage{Path: e.path("Gone")}))

	assert.False(t, reply.OK)
	assert.Equal(t, CodeNotFound, reply.Code)
	assert.Contains(t, reply.Error, "app not found")
	assert.Nil(t, reply.Data)
	assert.Equal(t, "1", reply.ID)
}

func TestHandleUnknown(t *testing.T) {
	e := newEnv(t)
	reply := e.d.Handle(context.Background(), Envelope{ID: "9", Command: "reveal_in_finder"})
	assert.False(t, reply.OK)
	assert.Equal(t, CodeUnknownCommand, reply.Code)
}

func TestCategoryCommands(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reply := e.d.Handle(ctx, envelope(t, KindAddUserCategory, AddUserCategory{Name: "Games"}))
	require.True(t, reply.OK)
	res := reply.Data.(CategoriesResult)
	assert.Equal(t, []string{"Games"}, res.UserCategories)
	assert.Contains(t, res.CategoryOrder, "Games")

	reply = e.d.Handle(ctx, envelope(t, KindSetCategory, SetCategory{Path: e.path("Xcode"), Category: "Games"}))
	require.True(t, reply.OK)

	reply = e.d.Handle(ctx, envelope(t, KindRemoveUserCategory, RemoveUserCategory{Name: "Games"}))
	require.True(t, reply.OK)
	assert.Empty(t, reply.Data.(CategoriesResult).UserCategories)

	for _, entry := range e.cache.Get(ctx, true) {
		assert.NotEqual(t, "Games", entry.Category)
	}
}

func TestAutoCategorizeCommand(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reply := e.d.Handle(ctx, Envelope{Command: KindAutoCategorize})
	require.True(t, reply.OK, reply.Error)
	res := reply.Data.(classify.Result)
	assert.Equal(t, 3, res.Examined)
	assert.Equal(t, 1, res.Assigned)
	assert.True(t, res.Written)

	assert.Equal(t, "Development", e.store.Load().Categories[e.path("Xcode")])

	again := e.d.Handle(ctx, Envelope{Command: KindAutoCategorize}).Data.(classify.Result)
	assert.False(t, again.Written)
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rec := e.d.Handle(ctx, Envelope{Command: KindGetConfig}).Data.(ConfigResult).Config
	rec.Theme = "Aurora"

	reply := e.d.Handle(ctx, envelope(t, KindSaveConfig, SaveConfig{Config: rec}))
	require.True(t, reply.OK, reply.Error)

	assert.Equal(t, "Aurora", e.store.Load().Theme)
}

func TestDecodeSaveConfigFillsDefaults(t *testing.T) {
	req, err := Decode(Envelope{
		Command: KindSaveConfig,
		Args:    json.RawMessage(`{"config":{"categories":{"/x.app":"Design"},"theme":"Aurora"}}`),
	})
	require.NoError(t, err)

	rec := req.(SaveConfig).Config
	require.NotNil(t, rec)
	assert.Equal(t, "Design", rec.Categories["/x.app"])
	assert.Equal(t, "Aurora", rec.Theme)
	assert.Equal(t, metadata.DefaultShortcut, rec.Shortcut)
	assert.Equal(t, float32(metadata.DefaultWallpaperBlur), rec.WallpaperBlur)
	assert.Equal(t, float32(metadata.DefaultWallpaperOverlay), rec.WallpaperOverlay)
	assert.Equal(t, metadata.DefaultWallpaperFit, rec.WallpaperFit)
	assert.Equal(t, metadata.DefaultWallpaperPosition, rec.WallpaperPosition)
	assert.Equal(t, metadata.BuiltinOrder(), rec.CategoryOrder)
}

func TestSaveFailureIsNotSurfaced(t *testing.T) {
	e := newEnv(t)
	// A directory where the record should be makes every write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(e.store.Path(), "blocker"), 0o755))

	reply := e.d.Handle(context.Background(), envelope(t, KindRecordUsage, RecordUsage{Path: e.path("Xcode")}))
	assert.True(t, reply.OK)
}

func TestIconAndStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	icon := e.d.Handle(ctx, envelope(t, KindGetIcon, GetIcon{Path: e.path("Xcode")})).Data.(IconResult)
	require.NotNil(t, icon.Data)
	assert.Equal(t, "data:image/png;base64,AAAA", *icon.Data)

	missing := e.d.Handle(ctx, envelope(t, KindGetIcon, GetIcon{Path: e.path("Figma")})).Data.(IconResult)
	assert.Nil(t, missing.Data)

	_, err := e.cache.RecordUsage(ctx, e.path("Xcode"))
	require.NoError(t, err)

	stats := e.d.Handle(ctx, envelope(t, KindGetStats, GetStats{Top: 1})).Data.(catalog.Stats)
	assert.Equal(t, 3, stats.Apps)
	require.Len(t, stats.TopUsed, 1)
	assert.Equal(t, "Xcode", stats.TopUsed[0].Name)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, CodeInvalidArgs, CodeOf(metadata.ErrInvalidName))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
