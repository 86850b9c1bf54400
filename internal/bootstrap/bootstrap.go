package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/eduassist/internal/config"
	"github.com/kirillkom/eduassist/internal/core/ports"
	"github.com/kirillkom/eduassist/internal/core/quizgen"
	"github.com/kirillkom/eduassist/internal/core/summarize"
	"github.com/kirillkom/eduassist/internal/core/textproc"
	"github.com/kirillkom/eduassist/internal/core/usecase"
	"github.com/kirillkom/eduassist/internal/infrastructure/chunking"
	"github.com/kirillkom/eduassist/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/eduassist/internal/infrastructure/lexicon/yamlfile"
	"github.com/kirillkom/eduassist/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/eduassist/internal/infrastructure/queue/nats"
	"github.com/kirillkom/eduassist/internal/infrastructure/resilience"
	"github.com/kirillkom/eduassist/internal/infrastructure/scraper/web"
	"github.com/kirillkom/eduassist/internal/infrastructure/speech/gtts"
	"github.com/kirillkom/eduassist/internal/infrastructure/storage/gcs"
	"github.com/kirillkom/eduassist/internal/infrastructure/storage/localfs"
)

const ttsChunkRunes = 200

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Lexicon textproc.Lexicon

	Storage ports.ObjectStorage
	// Queue is nil when NATS_URL is empty; speech is then synthesized inline.
	Queue ports.SpeechQueue

	AnalyzeUC   *usecase.AnalyzeUseCase
	SummarizeUC *usecase.SummarizeUseCase
	QuizUC      *usecase.QuizUseCase
	SpeechUC    *usecase.SpeechUseCase
	CleanupUC   *usecase.CleanupUseCase

	closeFns []func()
}

type options struct {
	logger        *slog.Logger
	recorder      usecase.Recorder
	stateListener resilience.StateListener
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRecorder routes domain counters to rec, usually the process metrics.
func WithRecorder(rec usecase.Recorder) Option {
	return func(o *options) { o.recorder = rec }
}

func WithBreakerListener(listener resilience.StateListener) Option {
	return func(o *options) { o.stateListener = listener }
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	app := &App{Config: cfg, Logger: o.logger}

	lexicon, err := yamlfile.Load(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	app.Lexicon = lexicon

	executorOpts := []resilience.ExecutorOption{resilience.WithLogger(o.logger)}
	if o.stateListener != nil {
		executorOpts = append(executorOpts, resilience.WithStateListener(o.stateListener))
	}
	executor := resilience.NewExecutor(resilience.DefaultConfig(), executorOpts...)

	storage, err := newStorage(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Storage = storage

	if cfg.NATSURL != "" {
		queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			Workers:            cfg.NATSWorkers,
			ResilienceExecutor: executor,
			Logger:             o.logger,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init speech queue: %w", err)
		}
		app.Queue = queue
		app.closeFns = append(app.closeFns, queue.Close)
	}

	var generator ports.TextGenerator
	if cfg.OllamaURL != "" {
		generator = ollama.NewSummarizer(ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaTimeout, executor))
	}

	fetcher := web.NewFetcher(web.Options{
		UserAgent: cfg.ScrapeUserAgent,
		Timeout:   cfg.ScrapeTimeout,
		MaxChars:  cfg.ScrapeMaxChars,
		Executor:  executor,
	})
	synthesizer := gtts.New(cfg.TTSBaseURL, cfg.ScrapeUserAgent, cfg.TTSTimeout, chunking.NewSplitter(ttsChunkRunes), executor)

	var quizOpts []quizgen.Option
	if cfg.QuizDeterministic {
		quizOpts = append(quizOpts, quizgen.WithSeed(cfg.QuizSeed))
	}

	app.AnalyzeUC = usecase.NewAnalyzeUseCase(fetcher)
	app.SummarizeUC = usecase.NewSummarizeUseCase(summarize.New(lexicon), generator, o.recorder, o.logger)
	quizGenerator := quizgen.New(lexicon, quizOpts...)
	app.QuizUC = usecase.NewQuizUseCase(quizGenerator, xlsx.NewExporter(), cfg.QuizMaxItems, o.recorder)
	app.SpeechUC = usecase.NewSpeechUseCase(synthesizer, storage, app.Queue, cfg.TTSDefaultLang, o.recorder)
	app.CleanupUC = usecase.NewCleanupUseCase(storage, cfg.AudioTTL, o.logger)

	o.logger.Info("bootstrap_ready",
		"storage_backend", cfg.StorageBackend,
		"speech_queue", app.Queue != nil,
		"model_summaries", generator != nil,
		"quiz_deterministic", quizGenerator.Deterministic(),
		"custom_lexicon", cfg.LexiconPath != "",
	)
	return app, nil
}

func newStorage(ctx context.Context, cfg config.Config, app *App) (ports.ObjectStorage, error) {
	switch cfg.StorageBackend {
	case "", "localfs":
		storage, err := localfs.New(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		return storage, nil
	case "gcs":
		storage, err := gcs.New(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, fmt.Errorf("init gcs storage: %w", err)
		}
		app.closeFns = append(app.closeFns, func() { _ = storage.Close() })
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
