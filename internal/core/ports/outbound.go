package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/eduassist/internal/core/domain"
)

// PageFetcher downloads a URL and extracts its readable content.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.Page, error)
}

// TextGenerator is an optional generative model.
type TextGenerator interface {
	GenerateSummary(ctx context.Context, text string, mode domain.SummaryMode) (string, error)
}

// SpeechSynthesizer renders text as MP3 audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// ObjectStorage stores transient generated files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]domain.StoredObject, error)
}

// SpeechQueue publishes/consumes speech jobs.
type SpeechQueue interface {
	PublishSpeechJob(ctx context.Context, job domain.SpeechJob) error
	SubscribeSpeechJobs(ctx context.Context, handler func(context.Context, domain.SpeechJob) error) error
}

// QuizExporter renders a quiz into a downloadable document.
type QuizExporter interface {
	Export(quiz domain.Quiz, w io.Writer) error
	ContentType() string
}

// Chunker splits text into pieces an upstream service accepts.
type Chunker interface {
	Split(text string) []string
}
