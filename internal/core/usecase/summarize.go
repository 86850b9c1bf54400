package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
	"github.com/kirillkom/eduassist/internal/core/summarize"
)

var errEmptyText = errors.New("text is empty")

type SummarizeUseCase struct {
	summarizer *summarize.Summarizer
	generator  ports.TextGenerator
	recorder   Recorder
	logger     *slog.Logger
}

// NewSummarizeUseCase accepts a nil generator; SummarizeWithModel then always answers extractively.
func NewSummarizeUseCase(
	summarizer *summarize.Summarizer,
	generator ports.TextGenerator,
	recorder Recorder,
	logger *slog.Logger,
) *SummarizeUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummarizeUseCase{
		summarizer: summarizer,
		generator:  generator,
		recorder:   recorderOrNop(recorder),
		logger:     logger,
	}
}

func (uc *SummarizeUseCase) Summarize(_ context.Context, text string, mode domain.SummaryMode) (domain.Summary, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Summary{}, domain.WrapError(domain.ErrInvalidInput, "summarize", errEmptyText)
	}
	summary := uc.summarizer.SummarizeDetailed(text, mode)
	uc.recorder.ObserveSummary(summary.Mode, len(summary.Selected))
	return summary, nil
}

// SummarizeWithModel asks the generative model first and falls back to the extractive
// summary when the model is absent, fails or answers with blank text.
func (uc *SummarizeUseCase) SummarizeWithModel(ctx context.Context, text string, mode domain.SummaryMode) (domain.GeneratedSummary, error) {
	extractive, err := uc.Summarize(ctx, text, mode)
	if err != nil {
		return domain.GeneratedSummary{}, err
	}
	fallback := domain.GeneratedSummary{Text: extractive.Text, Source: domain.SourceExtractive}
	if uc.generator == nil {
		return fallback, nil
	}

	generated, err := uc.generator.GenerateSummary(ctx, text, extractive.Mode)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.GeneratedSummary{}, ctxErr
		}
		uc.logger.Warn("model_summary_failed", "error", err)
		uc.recorder.ObserveModelFallback()
		return fallback, nil
	}
	generated = strings.TrimSpace(generated)
	if generated == "" {
		uc.logger.Warn("model_summary_empty")
		uc.recorder.ObserveModelFallback()
		return fallback, nil
	}
	return domain.GeneratedSummary{Text: generated, Source: domain.SourceModel}, nil
}
