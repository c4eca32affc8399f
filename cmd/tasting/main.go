package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/tasting/internal/adapters/http/api"
	"github.com/okian/tasting/internal/adapters/http/swagger"
	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/adapters/remote"
	service "github.com/okian/tasting/internal/app"
	"github.com/okian/tasting/internal/config"
	"github.com/okian/tasting/pkg/logger"
	"github.com/okian/tasting/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// A missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		return
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithFile(cfg.LogFile)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.SetEnabled(cfg.MetricsEnabled)

	store, err := kv.Open(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open store", logger.String("driver", cfg.StorageDriver), logger.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			loggerInstance.Warn(context.Background(), "failed to close store", logger.Error(err))
		}
	}()

	svc := newService(cfg, store, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// Report whether the remote backend is reachable; the local API works either way.
	go probeRemote(ctx, cfg, store)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(context.Background(), "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// newService builds the tasting service from configuration.
func newService(cfg *config.Config, store kv.Store, l logger.Logger) *service.Service {
	return service.New(
		service.WithLogger(l),
		service.WithStore(store),
		service.WithHistoryKey(cfg.HistoryKey),
		service.WithSettingsKey(cfg.SettingsKey),
		service.WithMaxRankingsLimit(cfg.MaxRankingsLimit),
		service.WithVerdictRules(cfg.VerdictRules),
		service.WithVerdictFallback(cfg.VerdictFallback),
	)
}

// newMux registers the API and documentation routes.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxRankingsLimit).Register(ctx, mux)
	return mux
}

func probeRemote(ctx context.Context, cfg *config.Config, store kv.Store) {
	client := remote.New(store,
		remote.WithBaseURL(cfg.RemoteBaseURL),
		remote.WithTimeout(cfg.RemoteTimeout()),
	)
	logger.Get().Info(ctx, "remote backend",
		logger.String("url", client.BaseURL()),
		logger.Bool("reachable", client.TestConnection(ctx)),
		logger.Bool("authenticated", client.IsAuthenticated(ctx)))
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the history gauge.
			_ = svc.GetStats()
		}
	}
}
