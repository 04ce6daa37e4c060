package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AppShelf/internal/api/command"
	apihttp "github.com/GriffinCanCode/AppShelf/internal/api/http"
	"github.com/GriffinCanCode/AppShelf/internal/api/middleware"
	"github.com/GriffinCanCode/AppShelf/internal/domain/catalog"
	"github.com/GriffinCanCode/AppShelf/internal/domain/classify"
	"github.com/GriffinCanCode/AppShelf/internal/domain/discovery"
	"github.com/GriffinCanCode/AppShelf/internal/domain/icons"
	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/config"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AppShelf/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AppShelf/internal/shared/paths"
	"github.com/GriffinCanCode/AppShelf/internal/shared/process"
	"github.com/GriffinCanCode/AppShelf/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	http    *http.Server
	router  *gin.Engine
	cache   *catalog.Cache
	store   *metadata.Store
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// Option adjusts how the server is assembled.
type Option func(*options)

type options struct {
	runner   process.Runner
	searcher discovery.Searcher
	logger   *logging.Logger
}

// WithRunner replaces the external command runner.
func WithRunner(r process.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithSearcher replaces the configured discovery backend.
func WithSearcher(s discovery.Searcher) Option {
	return func(o *options) { o.searcher = s }
}

// WithLogger replaces the logger built from configuration.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	o := options{runner: process.ExecRunner{}}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	home, err := paths.Home()
	if err != nil {
		return nil, err
	}
	catalogCfg := cfg.Catalog.Resolve(home)
	data := paths.Data{Dir: catalogCfg.DataDir}

	logger.Info("Initializing AppShelf server",
		zap.String("addr", addr(cfg.Server)),
		zap.String("data_dir", data.Dir),
		zap.String("backend", catalogCfg.SearchBackend),
		zap.Strings("roots", catalogCfg.Roots),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New(logger.Component("trace"))

	store := metadata.NewStore(data.RecordPath(), logger.Component("metadata"))
	store.Observe(metrics.ObserveWrite)

	searcher := o.searcher
	if searcher == nil {
		searcher = newSearcher(catalogCfg.SearchBackend, o.runner)
	}
	probe := discovery.NewProbe(searcher, discovery.Options{
		Roots:       catalogCfg.Roots,
		SystemRoots: catalogCfg.SystemRoots,
		Exclude:     catalogCfg.Exclude,
		Breaker: resilience.ForCommand("discovery",
			catalogCfg.ProbeFailures, catalogCfg.ProbeCooldown, logger.Component("resilience")),
		Observer: metrics,
	}, logger.Component("discovery"))

	cache := catalog.New(probe, store, logger.Component("catalog"), catalog.WithObserver(metrics))

	taxonomy := classify.DefaultTaxonomy()
	if catalogCfg.TaxonomyFile != "" {
		taxonomy, err = classify.LoadTaxonomy(catalogCfg.TaxonomyFile)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		logger.Info("Taxonomy loaded",
			zap.String("file", catalogCfg.TaxonomyFile),
			zap.Int("rules", len(taxonomy.Rules)))
	}
	heuristic := classify.NewHeuristic(classify.PlistExtractor{Runner: o.runner}, taxonomy, store, logger.Component("classify"))
	heuristic.SetObserver(metrics)

	iconProvider := icons.NewProvider(data.IconsPath(), icons.SipsExtractor{Runner: o.runner}, logger.Component("icons"))

	dispatcher := command.NewDispatcher(command.Deps{
		Catalog:    cache,
		Store:      store,
		Classifier: heuristic,
		Icons:      iconProvider,
		Metrics:    metrics,
		Tracer:     tracer,
		Logger:     logger.Component("command"),
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Component("http")))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.BodyLimit(middleware.MaxBodySize))
	if cfg.RateLimit.Enabled {
		limits := rateLimits(cfg.RateLimit)
		logger.Info("Rate limiting enabled",
			zap.Int("rps", limits.RequestsPerSecond),
			zap.Int("burst", limits.Burst),
			zap.Bool("global", cfg.RateLimit.Global),
		)
		router.Use(rateLimiter(cfg.RateLimit))
	}

	handlers := apihttp.NewHandlers(dispatcher, cache, metrics, apihttp.Info{
		DataDir: data.Dir,
		Backend: catalogCfg.SearchBackend,
	}, logger.Component("http"))
	wsHandler := ws.NewHandler(dispatcher, metrics, logger.Component("ws"))
	handlers.Register(router, wsHandler.HandleConnection)

	logger.Info("Server initialized successfully")

	return &Server{
		http: &http.Server{
			Addr:              addr(cfg.Server),
			Handler:           gzhttp.GzipHandler(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
		router:  router,
		cache:   cache,
		store:   store,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	lc := logging.DefaultConfig()
	if cfg.Development {
		lc = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		lc.Level = cfg.Level
	}
	if cfg.File != "" {
		lc.Rotation = &logging.Rotation{
			File:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// rateLimits fills unset limits from the middleware defaults.
func rateLimits(rc config.RateLimitConfig) middleware.RateLimitConfig {
	limits := middleware.DefaultRateLimitConfig()
	if rc.RequestsPerSecond > 0 {
		limits.RequestsPerSecond = rc.RequestsPerSecond
	}
	if rc.Burst > 0 {
		limits.Burst = rc.Burst
	}
	return limits
}

func rateLimiter(rc config.RateLimitConfig) gin.HandlerFunc {
	if rc.Global {
		return middleware.GlobalRateLimit(rateLimits(rc))
	}
	return middleware.RateLimit(rateLimits(rc))
}

func newSearcher(backend string, runner process.Runner) discovery.Searcher {
	if backend == config.BackendWalk {
		return discovery.WalkSearcher{}
	}
	return discovery.SpotlightSearcher{Runner: runner}
}

func addr(s config.ServerConfig) string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Handler returns the compressed root handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Warm runs the first discovery so early requests are served from cache.
func (s *Server) Warm(ctx context.Context) int {
	n := len(s.cache.Get(ctx, true))
	s.logger.Info("Catalog warmed", zap.Int("entries", n))
	return n
}

// Run starts the HTTP server and blocks until it stops. A graceful
// shutdown is not an error.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.http.Shutdown(ctx)
	_ = s.logger.Sync()
	return err
}
