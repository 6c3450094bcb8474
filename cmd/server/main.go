// Command server runs the shipment lifecycle HTTP API (component C6):
// it wires the store, the BL ingestion pipeline, object storage, and
// the auth pipeline behind the /api/v2 router, alongside a separate
// metrics/health listener, per spec §6's process layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/auth"
	"github.com/affreight/shipengine/internal/config"
	"github.com/affreight/shipengine/internal/telemetry"
	"github.com/affreight/shipengine/pkg/api/httpapi"
	"github.com/affreight/shipengine/pkg/blingest"
	"github.com/affreight/shipengine/pkg/blingest/llm"
	"github.com/affreight/shipengine/pkg/cache"
	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/metrics"
	"github.com/affreight/shipengine/pkg/objectstorage"
	"github.com/affreight/shipengine/pkg/store/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the application config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := telemetry.NewLogger(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	db, err := postgres.Connect(&postgres.Config{
		Host: cfg.Database.Host, Port: cfg.Database.Port, User: cfg.Database.User,
		Password: cfg.Database.Password, Database: cfg.Database.Database, SSLMode: cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns, MaxIdleConns: cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	store := postgres.New(db, logger)

	portsCache := cache.NewPortsCache(func(ctx context.Context) ([]domain.Port, error) {
		return store.ListPorts(ctx)
	})

	extractor := llm.New(llm.Config{APIKey: cfg.LLM.APIKey, Model: cfg.LLM.Model, Timeout: cfg.LLM.Timeout}, logger)
	pipeline := blingest.New(extractor, portsCacheAdapter{portsCache}, store)

	files, err := objectstorage.New(ctx, cfg.Storage.Bucket, cfg.Storage.Region)
	if err != nil {
		return fmt.Errorf("building object storage client: %w", err)
	}

	verifier := auth.NewHTTPVerifier(cfg.Auth.IdentityServiceURL, cfg.Auth.TokenAudience, nil)
	authenticator := auth.New(verifier, store, auth.SuperAdmins(cfg.Auth.SuperAdmins))

	handlers := httpapi.New(store, pipeline, files, cfg, logger)
	router := httpapi.Router(handlers, authenticator)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	metricsServer := metrics.NewServer(cfg.Server.MetricsPort, logger)
	metricsServer.StartAsync()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", zap.String("port", cfg.Server.Port))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("api server stopped unexpectedly: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown error", zap.Error(err))
	}
	if err := metricsServer.Stop(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", zap.Error(err))
	}
	return nil
}

// portsCacheAdapter satisfies blingest.PortLister over pkg/cache's
// TTL-bounded ports catalog rather than hitting the store on every
// parse-bl call.
type portsCacheAdapter struct {
	cache *cache.PortsCache
}

func (a portsCacheAdapter) ListPorts(ctx context.Context) ([]domain.Port, error) {
	return a.cache.GetAll(ctx)
}
