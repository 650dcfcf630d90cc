// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/api"
	"github.com/harborlight/ipsearch/internal/archive"
	archgcs "github.com/harborlight/ipsearch/internal/archive/gcs"
	archlocal "github.com/harborlight/ipsearch/internal/archive/local"
	archmem "github.com/harborlight/ipsearch/internal/archive/memory"
	"github.com/harborlight/ipsearch/internal/config"
	"github.com/harborlight/ipsearch/internal/events"
	eventsmem "github.com/harborlight/ipsearch/internal/events/memory"
	eventspubsub "github.com/harborlight/ipsearch/internal/events/pubsub"
	"github.com/harborlight/ipsearch/internal/fallback"
	"github.com/harborlight/ipsearch/internal/fetch"
	"github.com/harborlight/ipsearch/internal/history"
	historymem "github.com/harborlight/ipsearch/internal/history/memory"
	histpg "github.com/harborlight/ipsearch/internal/history/postgres"
	"github.com/harborlight/ipsearch/internal/logging"
	"github.com/harborlight/ipsearch/internal/mcpbridge"
	"github.com/harborlight/ipsearch/internal/metrics"
	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/policy/ratelimit"
	"github.com/harborlight/ipsearch/internal/records"
	"github.com/harborlight/ipsearch/internal/search"
	"github.com/harborlight/ipsearch/internal/source"
	"github.com/harborlight/ipsearch/internal/source/browser"
	"github.com/harborlight/ipsearch/internal/source/delegate"
	"github.com/harborlight/ipsearch/internal/source/gpatents"
	"github.com/harborlight/ipsearch/internal/status"
	"github.com/harborlight/ipsearch/internal/telemetry"
)

// App holds every shared, long-lived service: the logger, metrics registry,
// the search engine with its source adapters, the status checker and the
// persistence providers. It is built once at startup and torn down by Close.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	engine  *search.Engine
	checker *status.Checker
	// crawler is nil when the delegate adapter could not be constructed;
	// the bulk-crawl surface then reports unavailable while search keeps
	// running on the remaining adapters.
	crawler *delegate.Adapter
	server  *api.Server

	history history.Store
	archive archive.Store
	events  events.Publisher

	tracer       *sdktrace.TracerProvider
	pubsubClient *pubsub.Client
	gcsClient    *storage.Client
}

// Build wires the full service graph from configuration. Optional components
// degrade: a failed delegate adapter is logged and skipped, while history,
// archive and event providers fail the build because the operator asked for
// them explicitly.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)

	a := &App{cfg: cfg, logger: logger}
	a.metrics = metrics.New(prometheus.NewRegistry())

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.Init(ctx, cfg.Telemetry)
		if err != nil {
			return nil, fmt.Errorf("telemetry init failed: %w", err)
		}
		a.tracer = tp
	}

	limiter := ratelimit.New(cfg.RateLimit, a.metrics.ObserveRateLimitDelay)
	hum := humanize.New(cfg.Humanize)
	fetcher := fetch.New(cfg.Fetch, limiter, logger.Named("fetch"))

	// The delegate adapter also backs the bulk-crawl surface, so it is
	// constructed even when absent from the search order.
	crawler, err := delegate.New(cfg.Delegate, hum, logger.Named("delegate"))
	if err != nil {
		logger.Warn("delegate adapter unavailable", zap.Error(err))
	} else {
		a.crawler = crawler
	}

	sources, err := a.buildSources(cfg, hum, fetcher, limiter)
	if err != nil {
		return nil, err
	}

	if err := a.setupHistory(ctx); err != nil {
		return nil, err
	}
	if err := a.setupArchive(ctx); err != nil {
		return nil, err
	}
	if err := a.setupEvents(ctx); err != nil {
		return nil, err
	}

	a.engine = search.New(
		sources,
		fallback.New(),
		a.history,
		a.archive,
		a.events,
		a.metrics,
		nil,
		nil,
		search.Config{
			AdapterTimeout: cfg.Search.AdapterTimeout,
			PersistTimeout: cfg.Search.PersistTimeout,
		},
		logger.Named("search"),
	)
	a.checker = status.New(cfg.Status, fetcher, a.metrics, logger.Named("status"))

	var bulk api.BulkCrawler
	if a.crawler != nil {
		bulk = a.crawler
	}
	a.server = api.NewServer(a.engine, a.checker, bulk, a.history, a.metrics, cfg.Server, logger.Named("api"))
	return a, nil
}

// buildSources assembles the adapter walk in the configured priority order.
func (a *App) buildSources(cfg config.Config, hum *humanize.Humanizer, fetcher *fetch.Client, limiter *ratelimit.Limiter) ([]source.Source, error) {
	sources := make([]source.Source, 0, len(cfg.Search.Order))
	for _, name := range cfg.Search.Order {
		switch name {
		case records.SourceBrowser:
			sources = append(sources, browser.New(cfg.Browser, hum, a.logger.Named("browser")))
		case records.SourceIndex:
			sources = append(sources, gpatents.New(cfg.Index, fetcher, hum, limiter, a.logger.Named("index")))
		case records.SourceDelegate:
			if a.crawler == nil {
				a.logger.Warn("delegate adapter missing from search order", zap.String("source", name))
				continue
			}
			sources = append(sources, a.crawler)
		default:
			return nil, fmt.Errorf("unknown search source: %s", name)
		}
	}
	return sources, nil
}

func (a *App) setupHistory(ctx context.Context) error {
	switch a.cfg.History.Provider {
	case "postgres":
		a.logger.Info("using postgres history store")
		store, err := histpg.New(ctx, a.cfg.History.Postgres)
		if err != nil {
			return fmt.Errorf("history store init failed: %w", err)
		}
		a.history = store
	case "memory":
		a.logger.Info("using in-memory history store")
		a.history = historymem.New(a.cfg.History.Capacity)
	case "noop":
		a.history = history.NoOp{}
	default:
		return fmt.Errorf("unknown history provider: %s", a.cfg.History.Provider)
	}
	return nil
}

func (a *App) setupArchive(ctx context.Context) error {
	switch a.cfg.Archive.Provider {
	case "gcs":
		a.logger.Info("using gcs archive", zap.String("bucket", a.cfg.Archive.GCS.Bucket))
		client, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("gcs client init failed: %w", err)
		}
		a.gcsClient = client
		store, err := archgcs.New(client, a.cfg.Archive.GCS)
		if err != nil {
			return fmt.Errorf("gcs archive init failed: %w", err)
		}
		a.archive = store
	case "local":
		a.logger.Info("using local archive", zap.String("base_dir", a.cfg.Archive.Local.BaseDir))
		store, err := archlocal.New(a.cfg.Archive.Local)
		if err != nil {
			return fmt.Errorf("local archive init failed: %w", err)
		}
		a.archive = store
	case "memory":
		a.archive = archmem.New()
	case "noop":
		a.archive = archive.NoOp{}
	default:
		return fmt.Errorf("unknown archive provider: %s", a.cfg.Archive.Provider)
	}
	return nil
}

func (a *App) setupEvents(ctx context.Context) error {
	switch a.cfg.Events.Provider {
	case "pubsub":
		a.logger.Info("using pubsub event publisher",
			zap.String("project_id", a.cfg.Events.ProjectID),
			zap.String("topic_id", a.cfg.Events.TopicID))
		client, err := pubsub.NewClient(ctx, a.cfg.Events.ProjectID)
		if err != nil {
			return fmt.Errorf("pubsub client init failed: %w", err)
		}
		a.pubsubClient = client
		// Mirror to the log so operators can follow the event stream
		// without a subscription.
		a.events = events.NewMulti(
			events.NewLogPublisher(a.logger.Named("events")),
			eventspubsub.New(client.Topic(a.cfg.Events.TopicID)),
		)
	case "log":
		a.events = events.NewLogPublisher(a.logger.Named("events"))
	case "memory":
		a.events = eventsmem.New()
	case "noop":
		a.events = events.NoOp{}
	default:
		return fmt.Errorf("unknown events provider: %s", a.cfg.Events.Provider)
	}
	return nil
}

// Run serves the HTTP API until the context is cancelled or a termination
// signal arrives, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := a.server.Handler()
	if a.tracer != nil {
		handler = otelhttp.NewHandler(handler, "ipsearch")
	}
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	a.logger.Info("shutdown initiated")

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// RunMCP serves the search tools over stdio for MCP clients until the
// context is cancelled.
func (a *App) RunMCP(ctx context.Context) error {
	var bulk mcpbridge.BulkCrawler
	if a.crawler != nil {
		bulk = a.crawler
	}
	bridge, err := mcpbridge.New(a.engine, a.checker, bulk, a.logger.Named("mcp"))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return bridge.Run(ctx)
}

// Close releases every owned resource. Failures are logged rather than
// returned because teardown must visit each component.
func (a *App) Close() {
	a.logger.Info("shutting down application services")
	if a.crawler != nil {
		if err := a.crawler.Close(); err != nil {
			a.logger.Warn("delegate adapter close failed", zap.Error(err))
		}
	}
	if a.history != nil {
		a.history.Close()
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Warn("archive close failed", zap.Error(err))
		}
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("event publisher close failed", zap.Error(err))
		}
	}
	if a.pubsubClient != nil {
		if err := a.pubsubClient.Close(); err != nil {
			a.logger.Warn("pubsub client close failed", zap.Error(err))
		}
	}
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			a.logger.Warn("gcs client close failed", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// Logger returns the root logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Engine returns the search engine.
func (a *App) Engine() *search.Engine { return a.engine }

// Checker returns the status checker.
func (a *App) Checker() *status.Checker { return a.checker }

// Crawler returns the delegate adapter, or nil when it is unavailable.
func (a *App) Crawler() *delegate.Adapter { return a.crawler }
