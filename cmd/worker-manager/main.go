// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"character-workers/internal/catalog"
	"character-workers/internal/common/camunda"
	"character-workers/internal/common/config"
	"character-workers/internal/common/database"
	httpclient "character-workers/internal/common/http"
	"character-workers/internal/common/logger"
	"character-workers/internal/common/metrics"
	"character-workers/internal/common/observability"
	"character-workers/internal/extractor"
	"character-workers/internal/generator"
	"character-workers/internal/llm"
	"character-workers/internal/store"

	gc "character-workers/internal/workers/generation/generate-characters"
	gg "character-workers/internal/workers/generation/get-generation"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	log.Info("Starting worker manager...", map[string]interface{}{"storeBackend": cfg.Store.Backend})

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Result store ---
	resultStore, health, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("result store unavailable", zap.Error(err))
	}
	defer closeStore()

	// --- Generation pipeline ---
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err), zap.String("path", cfg.Catalog.Path))
	}
	log.Info("catalog loaded", map[string]interface{}{"characters": cat.Len()})

	model := llm.NewOpenRouterClient(llm.Config{
		BaseURL: cfg.APIs.OpenRouter.BaseURL,
		APIKey:  cfg.APIs.OpenRouter.APIKey,
		Model:   cfg.APIs.OpenRouter.Model,
		AppName: cfg.App.Name,
	}, log)

	firecrawlTimeout := config.GetDuration(cfg.APIs.Firecrawl.Timeout)
	siteExtractor := extractor.New(
		extractor.NewFirecrawlClient(
			httpclient.NewClient(firecrawlTimeout+10*time.Second),
			cfg.APIs.Firecrawl.BaseURL,
			cfg.APIs.Firecrawl.APIKey,
			cfg.APIs.Firecrawl.Timeout,
			log,
		),
		extractor.NewPageLoader(
			httpclient.NewClient(config.GetDuration(cfg.APIs.WebPage.Timeout)).WithUserAgent(cfg.APIs.WebPage.UserAgent),
		),
	)

	gen, err := generator.New(cat, siteExtractor, model, resultStore,
		generator.Config{MaxPageRunes: cfg.Generation.MaxPageRunes}, log)
	if err != nil {
		zapLog.Fatal("generator init failed", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()

	var workers []*camunda.CamundaWorker

	if config.IsWorkerEnabled(cfg, gc.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, gc.TaskType)
		handler := gc.NewHandler(&gc.Config{
			Timeout:    config.GetDuration(wcfg.Timeout),
			MaxRetries: wcfg.MaxRetries,
		}, gen, log)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), gc.TaskType, workerOptions(wcfg), handler, obs, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": gc.TaskType})
	}

	if config.IsWorkerEnabled(cfg, gg.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, gg.TaskType)
		handler := gg.NewHandler(&gg.Config{
			Timeout:    config.GetDuration(wcfg.Timeout),
			MaxRetries: wcfg.MaxRetries,
		}, gen, log)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), gg.TaskType, workerOptions(wcfg), handler, obs, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": gg.TaskType})
	}

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newMux(health, zeebe.HealthCheck),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping Health/Metrics server", map[string]interface{}{"error": err})
	}

	log.Info("Worker manager stopped gracefully", nil)
}

func workerOptions(wcfg config.WorkerConfig) camunda.WorkerOptions {
	return camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}
}

type checkFunc func(context.Context) error

// openStore connects the configured backend and returns the store, its
// readiness check and a closer.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, checkFunc, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres, log)
		if err != nil {
			return nil, nil, nil, err
		}
		st, err := store.NewPostgresStore(pg.DB, cfg.Store.Table)
		if err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		if err := st.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		return st, pg.Ping, func() { pg.Close() }, nil

	case "redis":
		rc, err := database.ConnectRedis(ctx, cfg.Database.Redis, log)
		if err != nil {
			return nil, nil, nil, err
		}
		st := store.NewRedisStore(rc.Client, cfg.Store.KeyPrefix, cfg.Store.TTLDuration())
		return st, rc.Ping, func() { rc.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

// newMux serves /health (liveness), /ready (store and broker reachable) and
// /metrics.
func newMux(checks ...checkFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "not ready", err.Error())
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status, reason string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if reason != "" {
		body["reason"] = reason
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
