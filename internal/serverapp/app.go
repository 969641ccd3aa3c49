// Package serverapp wires configuration, database connections, and the sort
// pipeline into a runnable listing server.
package serverapp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"column-sortable/internal/config"
	"column-sortable/internal/introspection"
	"column-sortable/internal/logging"
	"column-sortable/internal/middleware"
	"column-sortable/internal/sortbuilder"
)

// App owns runtime resources for the listing server lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	db             *sql.DB
	registry       *introspection.Registry
	builder        *sortbuilder.Builder
	metrics        *middleware.ListingMetrics
	promReg        *prometheus.Registry
	tracerProvider *sdktrace.TracerProvider

	handler http.Handler
	srv     *http.Server

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error
	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{cfg: cfg, logger: logger}, nil
}

// Init opens the database connection and builds the listing handlers.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if a.initialized {
		return fmt.Errorf("app already initialized")
	}

	db, err := sql.Open("mysql", a.cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(a.cfg.Database.Pool.MaxOpen)
	db.SetMaxIdleConns(a.cfg.Database.Pool.MaxIdle)
	db.SetConnMaxLifetime(a.cfg.Database.Pool.MaxLifetime)
	a.db = db

	a.registry = introspection.NewRegistry(map[string]introspection.Connection{
		DefaultConnection: {DB: db, Database: a.cfg.Database.Database},
	})
	a.builder = sortbuilder.New(a.cfg.Sorting.Options(), a.registry, a.logger.Logger)

	// No span exporter is configured; spans exist for in-process
	// correlation (request IDs, schema lookups) and for whatever pipeline
	// the embedding process installs.
	a.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(semconv.ServiceName("column-sortable"))),
	)
	otel.SetTracerProvider(a.tracerProvider)

	a.promReg = prometheus.NewRegistry()
	a.metrics = middleware.NewListingMetrics(a.promReg)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.HandlerFor(a.promReg, promhttp.HandlerOpts{}))

	for name, listingCfg := range a.cfg.Listings {
		model, err := newListingModel(name, listingCfg)
		if err != nil {
			return err
		}
		builder := a.builder
		if listingCfg.DefaultDirection != "" {
			opts := a.cfg.Sorting.Options()
			opts.DefaultDirection = listingCfg.DefaultDirection
			builder = sortbuilder.New(opts, a.registry, a.logger.Logger)
		}
		handler := &listingHandler{
			model:   model,
			builder: builder,
			db:      a.db,
			maxRows: a.cfg.Server.MaxRows,
		}
		mux.Handle("GET /listings/"+name, a.metrics.Instrument(name, handler))
		a.logger.Info("registered listing",
			slog.String("listing", name),
			slog.String("table", listingCfg.Table),
		)
	}

	a.handler = otelhttp.NewHandler(middleware.Logging(a.logger)(mux), "listing-server")
	a.initialized = true
	return nil
}

// Start begins serving HTTP and returns a channel carrying fatal server
// errors.
func (a *App) Start() (<-chan error, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if !a.initialized {
		return nil, fmt.Errorf("app not initialized")
	}
	if a.started {
		return nil, fmt.Errorf("app already started")
	}

	a.srv = &http.Server{
		Addr:    a.cfg.Server.Addr(),
		Handler: a.handler,
	}
	a.serverErrors = make(chan error, 1)

	go func() {
		a.logger.Info("listing server started", slog.String("addr", a.srv.Addr))
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.serverErrors <- err
		}
	}()

	a.started = true
	return a.serverErrors, nil
}

// Handler exposes the composed HTTP handler; used by tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Shutdown stops the HTTP server and closes the database connection.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	a.shutdownOnce.Do(func() {
		if a.srv != nil {
			err = a.srv.Shutdown(ctx)
		}
		if a.tracerProvider != nil {
			if tpErr := a.tracerProvider.Shutdown(ctx); err == nil {
				err = tpErr
			}
		}
		if a.db != nil {
			if closeErr := a.db.Close(); err == nil {
				err = closeErr
			}
		}
	})
	return err
}
