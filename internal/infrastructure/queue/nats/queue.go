package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/infrastructure/resilience"
)

const DefaultSubject = "eduassist.speech.requested"

type Queue struct {
	conn       *nats.Conn
	subject    string
	queueGroup string
	workers    int
	executor   *resilience.Executor
	logger     *slog.Logger
}

type Options struct {
	ConnectTimeout     time.Duration
	ReconnectWait      time.Duration
	MaxReconnects      int
	QueueGroup         string
	Workers            int
	ResilienceExecutor *resilience.Executor
	Logger             *slog.Logger
}

func New(url, subject string, options Options) (*Queue, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	group := options.QueueGroup
	if group == "" {
		group = "speech-workers"
	}
	workers := options.Workers
	if workers <= 0 {
		workers = 2
	}

	conn, err := nats.Connect(
		url,
		nats.Name("eduassist"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:       conn,
		subject:    subject,
		queueGroup: group,
		workers:    workers,
		executor:   options.ResilienceExecutor,
		logger:     logger,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishSpeechJob(ctx context.Context, job domain.SpeechJob) error {
	payload, err := encodeJob(job)
	if err != nil {
		return err
	}
	err = q.executor.Execute(ctx, "nats.publish", func(context.Context) error {
		if err := q.conn.Publish(q.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}, classifyNATSError)
	return wrapTemporaryIfNeeded(err)
}

// SubscribeSpeechJobs blocks until ctx is done, then drains in-flight messages.
// At most Workers handlers run at once; NATS redelivery is not used, failures are logged.
// Handlers already running when ctx ends are allowed to finish.
func (q *Queue) SubscribeSpeechJobs(ctx context.Context, handler func(context.Context, domain.SpeechJob) error) error {
	handlerCtx := context.WithoutCancel(ctx)
	slots := make(chan struct{}, q.workers)
	var gate jobGate

	sub, err := q.conn.QueueSubscribe(q.subject, q.queueGroup, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		job, err := decodeJob(msg.Data)
		if err != nil {
			q.logger.Error("speech_job_malformed", "error", err, "bytes", len(msg.Data))
			return
		}

		if !gate.enter() {
			return
		}
		slots <- struct{}{}
		go func() {
			defer func() {
				<-slots
				gate.leave()
			}()
			if err := handler(handlerCtx, job); err != nil {
				q.logger.Error("speech_job_failed", "key", job.Key, "error", err)
			}
		}()
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	drainErr := sub.Drain()
	waitDrained(sub, 5*time.Second)
	gate.closeAndWait()
	if drainErr != nil {
		return fmt.Errorf("nats drain subscription: %w", drainErr)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// waitDrained polls until the subscription is closed by Drain or the timeout passes.
func waitDrained(sub *nats.Subscription, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for sub.IsValid() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
}

func encodeJob(job domain.SpeechJob) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal speech job: %w", err)
	}
	return payload, nil
}

func decodeJob(data []byte) (domain.SpeechJob, error) {
	var job domain.SpeechJob
	if err := json.Unmarshal(data, &job); err != nil {
		return domain.SpeechJob{}, fmt.Errorf("unmarshal speech job: %w", err)
	}
	if job.Key == "" {
		return domain.SpeechJob{}, fmt.Errorf("speech job without key")
	}
	return job, nil
}
