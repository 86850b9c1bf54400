package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	httpadapter "github.com/kirillkom/eduassist/internal/adapters/http"
	"github.com/kirillkom/eduassist/internal/bootstrap"
	"github.com/kirillkom/eduassist/internal/config"
	"github.com/kirillkom/eduassist/internal/core/usecase"
	"github.com/kirillkom/eduassist/internal/observability/logging"
	"github.com/kirillkom/eduassist/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app, err := bootstrap.New(ctx, cfg,
		bootstrap.WithLogger(logger),
		bootstrap.WithRecorder(httpMetrics),
		bootstrap.WithBreakerListener(httpMetrics.ObserveBreakerState),
	)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	scheduler, err := scheduleCleanup(ctx, logger, cfg.AudioCleanupSchedule, app.CleanupUC)
	if err != nil {
		logger.Error("cleanup_schedule_invalid", "schedule", cfg.AudioCleanupSchedule, "error", err)
		app.Close()
		os.Exit(1)
	}
	scheduler.Start()

	router := httpadapter.NewRouter(httpadapter.Options{
		APIKey:             cfg.APIKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.APIRateLimitRPS,
		RateLimitBurst:     cfg.APIRateLimitBurst,
		MaxInFlight:        cfg.APIMaxInFlight,
		BackpressureWait:   time.Duration(cfg.APIBackpressureWaitMS) * time.Millisecond,
		ValidateRequests:   true,
		Metrics:            httpMetrics,
		Logger:             logger,
	}, app.AnalyzeUC, app.SummarizeUC, app.QuizUC, app.SpeechUC).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_failed", "error", err)
	}
	<-scheduler.Stop().Done()
}

// scheduleCleanup registers periodic removal of expired audio clips.
func scheduleCleanup(ctx context.Context, logger *slog.Logger, schedule string, cleanup *usecase.CleanupUseCase) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		removed, err := cleanup.Run(ctx)
		if err != nil {
			logger.Warn("audio_cleanup_failed", "removed", removed, "error", err)
			return
		}
		if removed > 0 {
			logger.Info("audio_cleanup_done", "removed", removed)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
