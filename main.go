package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appcatalog "ibook/internal/application/catalog"
	"ibook/internal/domain/inventory"
	"ibook/internal/infrastructure/config"
	"ibook/internal/infrastructure/eventbus"
	"ibook/internal/infrastructure/httpapi"
	"ibook/internal/infrastructure/jsonfile"
	"ibook/internal/infrastructure/memory"
	"ibook/internal/infrastructure/observability/oteltrace"
	"ibook/internal/infrastructure/observability/prometrics"
	"ibook/internal/infrastructure/observability/telemetry"
	"ibook/internal/infrastructure/observability/zaplogger"
	"ibook/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := zaplogger.MustNew(cfg.Log.Level, cfg.Log.File,
		observability.F("service", cfg.Service.Name),
		observability.F("env", cfg.Service.Environment),
	)
	defer func() {
		if s, ok := logger.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}()

	tel := telemetry.New(
		oteltrace.New(cfg.Service.Name),
		logger,
		prometrics.New(cfg.Service.Name, ""),
	)

	store := jsonfile.NewStore(cfg.Storage.Path, logger)
	products, err := store.Load()
	if err != nil {
		logger.Error("snapshot_load_failed", observability.F("error", err.Error()))
		os.Exit(1)
	}
	catalog := inventory.NewCatalog()
	if err := catalog.SetProducts(products); err != nil {
		logger.Error("snapshot_invalid", observability.F("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("catalog_loaded",
		observability.F("path", cfg.Storage.Path),
		observability.F("products", catalog.Len()),
	)

	repo := memory.NewCatalogStore(catalog)

	bus := eventbus.NewBus(logger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	if cfg.Storage.Autosave {
		jsonfile.NewWorker(repo, store, tel).Register(bus)
	}

	service := appcatalog.NewService(repo, bus, tel)
	handler := httpapi.NewHandler(service)

	router := chi.NewRouter()
	router.Use(httpapi.ObservabilityMiddleware(tel))
	router.Handle("/metrics", promhttp.Handler())
	router.Mount("/", handler.Router())

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", observability.F("error", err.Error()))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", observability.F("error", err.Error()))
	} else {
		logger.Info("http_server_stopped")
	}
}
