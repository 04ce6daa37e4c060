package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/AppShelf/internal/domain/catalog"
	"github.com/GriffinCanCode/AppShelf/internal/domain/classify"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/tracing"
	"go.uber.org/zap"
)

// Result is the payload of a successful command.
type Result interface{}

// CatalogResult carries catalog entries.
type CatalogResult struct {
	Entries []catalog.Entry `json:"entries"`
}

// UsageResult carries a new launch count.
type UsageResult struct {
	Path  string `json:"path"`
	Count uint32 `json:"count"`
}

// ConfigResult carries the persisted record.
type ConfigResult struct {
	Config *metadata.Record `json:"config"`
}

// CategoriesResult carries user categories and display order.
type CategoriesResult struct {
	UserCategories []string `json:"user_categories"`
	CategoryOrder  []string `json:"category_order"`
}

// IconResult carries an icon data URI; Data is nil when unavailable.
type IconResult struct {
	Path string  `json:"path"`
	Data *string `json:"data"`
}

// Ack acknowledges a command without a payload.
type Ack struct{}

// Catalog is the cache surface the dispatcher drives.
type Catalog interface {
	Get(ctx context.Context, force bool) []catalog.Entry
	Snapshot() []catalog.Entry
	RecordUsage(ctx context.Context, path string) (uint32, error)
	SetCategory(ctx context.Context, path, category string) error
}

// Metadata is the store surface the dispatcher drives.
type Metadata interface {
	Load() *metadata.Record
	AddCategory(name string) error
	RemoveCategory(name string) error
	Replace(rec *metadata.Record) error
}

// Classifier runs auto-categorization.
type Classifier interface {
	Run(ctx context.Context, paths []string) (classify.Result, error)
}

// Icons fetches application icons.
type Icons interface {
	Fetch(ctx context.Context, path string) (string, bool)
}

// Dispatcher executes typed commands against the domain. It is the only
// component the transports talk to.
type Dispatcher struct {
	catalog    Catalog
	store      Metadata
	classifier Classifier
	icons      Icons
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	logger     *zap.Logger
}

// Deps bundles the dispatcher's collaborators.
type Deps struct {
	Catalog    Catalog
	Store      Metadata
	Classifier Classifier
	Icons      Icons
	Metrics    *monitoring.Metrics
	Tracer     *tracing.Tracer
	Logger     *zap.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(d Deps) *Dispatcher {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Tracer == nil {
		d.Tracer = tracing.New(d.Logger)
	}
	return &Dispatcher{
		catalog:    d.Catalog,
		store:      d.Store,
		classifier: d.Classifier,
		icons:      d.Icons,
		metrics:    d.Metrics,
		tracer:     d.Tracer,
		logger:     d.Logger,
	}
}

// Dispatch runs req. Persistence failures on write are logged and reported
// as success, since the in-memory outcome already happened; NotFound and
// invalid input are returned to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	kind := string(req.Kind())
	span, ctx := d.tracer.StartSpan(ctx, kind)
	timer := monitoring.NewTimer(d.metrics, kind)

	res, err := d.dispatch(ctx, req)

	status := "ok"
	if err != nil {
		status = "error"
		span.SetError(err)
	}
	timer.Stop(status)
	d.tracer.Finish(span)
	return res, err
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	switch r := req.(type) {
	case GetCatalog:
		entries := d.catalog.Get(ctx, r.Refresh)
		if !r.Query.IsZero() {
			entries = catalog.Filter(entries, r.Query)
		}
		return CatalogResult{Entries: entries}, nil

	case RecordUsage:
		count, err := d.catalog.RecordUsage(ctx, r.Path)
		if err = d.swallowWrite(ctx, "record_usage", err); err != nil {
			return nil, err
		}
		return UsageResult{Path: r.Path, Count: count}, nil

	case SetCategory:
		err := d.catalog.SetCategory(ctx, r.Path, r.Category)
		return Ack{}, d.swallowWrite(ctx, "set_category", err)

	case AddUserCategory:
		return d.categories(ctx, "add_user_category", d.store.AddCategory(r.Name))

	case RemoveUserCategory:
		return d.categories(ctx, "remove_user_category", d.store.RemoveCategory(r.Name))

	case AutoCategorize:
		entries := d.catalog.Snapshot()
		if len(entries) == 0 {
			entries = d.catalog.Get(ctx, false)
		}
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.Path
		}
		res, err := d.classifier.Run(ctx, paths)
		if err = d.swallowWrite(ctx, "auto_categorize", err); err != nil {
			return nil, err
		}
		return res, nil

	case GetConfig:
		return ConfigResult{Config: d.store.Load()}, nil

	case SaveConfig:
		return Ack{}, d.swallowWrite(ctx, "save_config", d.store.Replace(r.Config))

	case GetIcon:
		res := IconResult{Path: r.Path}
		if d.icons != nil {
			if uri, ok := d.icons.Fetch(ctx, r.Path); ok {
				res.Data = &uri
			}
		}
		return res, nil

	case GetStats:
		entries := d.catalog.Get(ctx, false)
		return catalog.Summarize(entries, d.store.Load(), r.Top), nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, req)
	}
}

func (d *Dispatcher) categories(ctx context.Context, op string, err error) (Result, error) {
	if err = d.swallowWrite(ctx, op, err); err != nil {
		return nil, err
	}
	rec := d.store.Load()
	return CategoriesResult{UserCategories: rec.UserCategories, CategoryOrder: rec.CategoryOrder}, nil
}

// swallowWrite keeps NotFound and validation errors and drops everything
// else after logging it.
func (d *Dispatcher) swallowWrite(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, metadata.ErrInvalidName) || errors.Is(err, ErrInvalidArgs) {
		return err
	}
	tracing.Logger(ctx, d.logger).Error("metadata write failed",
		zap.String("operation", op),
		zap.Error(err))
	return nil
}
