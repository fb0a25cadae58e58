package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/incluscore/incluscore/internal/adapters/http/api"
	"github.com/incluscore/incluscore/internal/adapters/http/stream"
	repository "github.com/incluscore/incluscore/internal/adapters/repository"
	app "github.com/incluscore/incluscore/internal/app"
	"github.com/incluscore/incluscore/internal/config"
	"github.com/incluscore/incluscore/internal/domain/scoring"
	"github.com/incluscore/incluscore/pkg/logger"
	"github.com/incluscore/incluscore/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	healthRefreshInterval = 10 * time.Second
	kilobyte              = 1024
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	model, err := buildModel(ctx, cfg, log)
	if err != nil {
		os.Stderr.WriteString("failed to load model: " + err.Error() + "\n")
		return
	}

	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		os.Stderr.WriteString("failed to connect state store: " + err.Error() + "\n")
		return
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithModel(model),
		app.WithStore(store),
		app.WithLockShards(cfg.LockShards),
		app.WithSimulationSteps(app.SimulationSteps{
			UPI:      cfg.Simulation.UPIStep,
			Bill:     cfg.Simulation.BillStep,
			Recharge: cfg.Simulation.RechargeStep,
			Savings:  cfg.Simulation.SavingsStep,
		}),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	if cfg.SeedDemoUsers {
		if err := repository.SeedDemoUsers(ctx, store); err != nil {
			log.Warn(ctx, "demo seed failed", logger.Error(err))
		}
	}

	go refreshHealthGauges(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	wsHandler := stream.NewHandler(svc,
		stream.WithLogger(log.Named("stream")),
		stream.WithBufferSize(cfg.StreamWriteBufferKB*kilobyte),
	)
	wsHandler.Register(mux)

	// Server timeouts stop applying once a websocket upgrade hijacks the
	// connection; the stream handler sets its own per-message deadlines.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildModel loads trained parameters from the configured path, falling back
// to the parameter set embedded in the binary.
func buildModel(ctx context.Context, cfg *config.Config, log logger.Logger) (*scoring.PretrainedModel, error) {
	params, err := scoring.DefaultParams()
	if cfg.ModelPath != "" {
		fileParams, ferr := scoring.LoadParamsFile(cfg.ModelPath)
		if ferr != nil {
			log.Warn(ctx, "model file unreadable; using embedded parameters",
				logger.String("model_path", cfg.ModelPath), logger.Error(ferr))
		} else {
			params, err = fileParams, nil
		}
	}
	if err != nil {
		return nil, err
	}

	m := scoring.NewPretrainedModel()
	if err := m.Load(params); err != nil {
		return nil, err
	}
	log.Info(ctx, "model loaded", logger.String("version", params.Version))
	return m, nil
}

// buildStore connects Redis when configured, otherwise uses the in-memory
// store.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.RedisURL == "" {
		log.Info(ctx, "using in-memory state store")
		return repository.NewMemoryStore(), nil
	}
	store, err := repository.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "using redis state store")
	return store, nil
}

// refreshHealthGauges keeps the readiness and storage gauges current.
func refreshHealthGauges(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(healthRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateModelReady(svc.Ready())
			metrics.UpdateStorageConnected(svc.StorageHealthy(ctx))
		}
	}
}
