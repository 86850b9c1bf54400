package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/eduassist/internal/core/domain"
)

// WorkerMetrics covers queued speech synthesis in the worker process.
type WorkerMetrics struct {
	registry *prometheus.Registry

	jobsTotal     *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	jobsInFlight  prometheus.Gauge
	queueLag      prometheus.Histogram
	speechOutcome *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "speech_jobs_total",
			Help:        "Processed speech jobs by status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "speech_job_duration_seconds",
			Help:        "Speech job duration in seconds by status.",
			Buckets:     []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	jobsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "speech_jobs_in_flight",
			Help:        "Number of speech jobs being synthesized.",
			ConstLabels: constLabels,
		},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "queue_lag_seconds",
			Help:        "Delay between enqueueing a speech job and starting it.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			ConstLabels: constLabels,
		},
	)
	speechOutcome := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "speech",
			Name:        "total",
			Help:        "Speech synthesis outcomes by status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)

	registry.MustRegister(jobsTotal, jobDuration, jobsInFlight, queueLag, speechOutcome)

	return &WorkerMetrics{
		registry:      registry,
		jobsTotal:     jobsTotal,
		jobDuration:   jobDuration,
		jobsInFlight:  jobsInFlight,
		queueLag:      queueLag,
		speechOutcome: speechOutcome,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartJob(enqueuedAt time.Time) {
	m.jobsInFlight.Inc()
	if !enqueuedAt.IsZero() {
		if lag := time.Since(enqueuedAt); lag >= 0 {
			m.queueLag.Observe(lag.Seconds())
		}
	}
}

func (m *WorkerMetrics) FinishJob(duration time.Duration, err error) {
	m.jobsInFlight.Dec()
	status := "success"
	if err != nil {
		status = "error"
	}
	m.jobsTotal.WithLabelValues(status).Inc()
	m.jobDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// ObserveSpeech lets the speech use case report into the worker registry.
func (m *WorkerMetrics) ObserveSpeech(status string) {
	if status == "" {
		status = "unknown"
	}
	m.speechOutcome.WithLabelValues(status).Inc()
}

// The worker never summarizes or builds quizzes.
func (m *WorkerMetrics) ObserveSummary(domain.SummaryMode, int) {}
func (m *WorkerMetrics) ObserveQuiz(int)                        {}
func (m *WorkerMetrics) ObserveModelFallback()                  {}
