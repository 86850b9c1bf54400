package ports

import (
	"context"
	"io"

	"github.com/kirillkom/eduassist/internal/core/domain"
)

// ContentAnalyzer is the inbound contract for turning a URL into readable text.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.Page, error)
}

// TextSummarizer produces extractive summaries and, when a model is configured, generative ones.
type TextSummarizer interface {
	Summarize(ctx context.Context, text string, mode domain.SummaryMode) (domain.Summary, error)
	SummarizeWithModel(ctx context.Context, text string, mode domain.SummaryMode) (domain.GeneratedSummary, error)
}

// QuizBuilder builds multiple-choice quizzes of at most num items.
type QuizBuilder interface {
	Build(ctx context.Context, text string, num int) (domain.Quiz, error)
	Export(ctx context.Context, quiz domain.Quiz, w io.Writer) error
	ExportContentType() string
}

// SpeechService is the inbound contract for text-to-speech, synchronous or queued.
type SpeechService interface {
	Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.AudioClip, error)
	Enqueue(ctx context.Context, req domain.SpeechRequest) (*domain.AudioClip, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// SpeechJobProcessor is the inbound contract for asynchronous synthesis in the worker.
type SpeechJobProcessor interface {
	Process(ctx context.Context, job domain.SpeechJob) error
}
