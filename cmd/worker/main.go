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

	"github.com/kirillkom/eduassist/internal/bootstrap"
	"github.com/kirillkom/eduassist/internal/config"
	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
	"github.com/kirillkom/eduassist/internal/observability/logging"
	"github.com/kirillkom/eduassist/internal/observability/metrics"
)

const jobTimeout = 2 * time.Minute

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app, err := bootstrap.New(ctx, cfg, bootstrap.WithLogger(logger), bootstrap.WithRecorder(workerMetrics))
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if app.Queue == nil {
		logger.Error("worker_requires_queue", "hint", "set NATS_URL")
		app.Close()
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker_metrics_listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_failed", "error", err)
		}
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeSpeechJobs(ctx, speechJobHandler(app.SpeechUC, workerMetrics, logger))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker_subscribe_failed", "error", err)
		app.Close()
		os.Exit(1)
	}
}

type jobObserver interface {
	StartJob(enqueuedAt time.Time)
	FinishJob(duration time.Duration, err error)
}

func speechJobHandler(processor ports.SpeechJobProcessor, observer jobObserver, logger *slog.Logger) func(context.Context, domain.SpeechJob) error {
	return func(ctx context.Context, job domain.SpeechJob) error {
		jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()

		started := time.Now()
		observer.StartJob(job.EnqueuedAt)
		err := processor.Process(jobCtx, job)
		observer.FinishJob(time.Since(started), err)

		if err != nil {
			return err
		}
		logger.Info("speech_job_done", "key", job.Key, "duration_ms", time.Since(started).Milliseconds())
		return nil
	}
}
