package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/summarize"
	"github.com/kirillkom/eduassist/internal/core/textproc"
)

const sampleText = "Plan de estudios. La universidad ofrece programas. El plan de estudios incluye matemáticas, ciencias y literatura."

type generatorFake struct {
	out   string
	err   error
	mode  domain.SummaryMode
	calls int
}

func (f *generatorFake) GenerateSummary(_ context.Context, _ string, mode domain.SummaryMode) (string, error) {
	f.calls++
	f.mode = mode
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type recorderFake struct {
	mu        sync.Mutex
	summaries int
	quizItems []int
	speech    []string
	fallbacks int
}

func (r *recorderFake) ObserveSummary(domain.SummaryMode, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries++
}

func (r *recorderFake) ObserveQuiz(items int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizItems = append(r.quizItems, items)
}

func (r *recorderFake) ObserveSpeech(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speech = append(r.speech, status)
}

func (r *recorderFake) ObserveModelFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks++
}

// asRecorder keeps a nil fake from becoming a non-nil interface.
func asRecorder(rec *recorderFake) Recorder {
	if rec == nil {
		return nil
	}
	return rec
}

func newSummarizeUseCase(gen *generatorFake, rec *recorderFake) *SummarizeUseCase {
	s := summarize.New(textproc.DefaultLexicon())
	if gen == nil {
		return NewSummarizeUseCase(s, nil, asRecorder(rec), nil)
	}
	return NewSummarizeUseCase(s, gen, asRecorder(rec), nil)
}

func TestSummarizeUseCaseRejectsEmptyText(t *testing.T) {
	uc := newSummarizeUseCase(nil, nil)
	if _, err := uc.Summarize(context.Background(), " \n ", domain.ModeSummary); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.SummarizeWithModel(context.Background(), "", domain.ModeSummary); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSummarizeUseCaseExtractive(t *testing.T) {
	rec := &recorderFake{}
	uc := newSummarizeUseCase(nil, rec)
	summary, err := uc.Summarize(context.Background(), sampleText, "summary")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Text != sampleText {
		t.Fatalf("unexpected summary %q", summary.Text)
	}
	if rec.summaries != 1 {
		t.Fatalf("expected one recorded summary, got %d", rec.summaries)
	}
}

func TestSummarizeWithModelWithoutGenerator(t *testing.T) {
	got, err := newSummarizeUseCase(nil, nil).SummarizeWithModel(context.Background(), sampleText, domain.ModeAuto)
	if err != nil {
		t.Fatalf("SummarizeWithModel() error = %v", err)
	}
	if got.Source != domain.SourceExtractive || got.Text != sampleText {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestSummarizeWithModelUsesModelAnswer(t *testing.T) {
	gen := &generatorFake{out: "  Resumen generado.  "}
	got, err := newSummarizeUseCase(gen, nil).SummarizeWithModel(context.Background(), sampleText, "FULL")
	if err != nil {
		t.Fatalf("SummarizeWithModel() error = %v", err)
	}
	if got.Source != domain.SourceModel || got.Text != "Resumen generado." {
		t.Fatalf("unexpected result %+v", got)
	}
	if gen.mode != domain.ModeFull {
		t.Fatalf("expected normalized mode full, got %q", gen.mode)
	}
}

func TestSummarizeWithModelFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *generatorFake
	}{
		{name: "model error", gen: &generatorFake{err: domain.WrapError(domain.ErrTemporary, "ollama", errors.New("timeout"))}},
		{name: "blank answer", gen: &generatorFake{out: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorderFake{}
			got, err := newSummarizeUseCase(tt.gen, rec).SummarizeWithModel(context.Background(), sampleText, domain.ModeSummary)
			if err != nil {
				t.Fatalf("SummarizeWithModel() error = %v", err)
			}
			if got.Source != domain.SourceExtractive || got.Text != sampleText {
				t.Fatalf("unexpected fallback %+v", got)
			}
			if rec.fallbacks != 1 {
				t.Fatalf("expected fallback to be recorded, got %d", rec.fallbacks)
			}
		})
	}
}

func TestSummarizeWithModelCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &generatorFake{err: context.Canceled}
	_, err := newSummarizeUseCase(gen, nil).SummarizeWithModel(ctx, sampleText, domain.ModeSummary)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
