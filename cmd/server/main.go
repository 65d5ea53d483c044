package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/influencer-metrics/internal/config"
	"github.com/AngelCh415/influencer-metrics/internal/httpx"
	"github.com/AngelCh415/influencer-metrics/internal/ingest"
	"github.com/AngelCh415/influencer-metrics/internal/metrics"
	"github.com/AngelCh415/influencer-metrics/internal/store"
	"github.com/AngelCh415/influencer-metrics/internal/telemetry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.FromEnv().LogLevel}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tel := telemetry.New(reg)

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	loader := ingest.NewLoader(cl, logger, cfg)
	st := store.NewMemoryStore()
	svc := metrics.NewService(st, loader, tel, logger, cfg.DefaultPageSize)

	// serve anyway on a failed first load; /readyz reports 503 until a reload succeeds
	if err := svc.Reload(context.Background()); err != nil {
		logger.Warn("initial load failed", slog.String("err", err.Error()))
	}

	if cfg.ReloadCron != "" {
		sched, err := ingest.NewScheduler(cfg.ReloadCron, svc.Reload, logger)
		if err != nil {
			logger.Error("bad RELOAD_CRON", slog.String("err", err.Error()))
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.NewRouter(logger, svc, tel, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
