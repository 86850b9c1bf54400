package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
	"github.com/kirillkom/eduassist/internal/core/quizgen"
)

type QuizUseCase struct {
	generator *quizgen.Generator
	exporter  ports.QuizExporter
	maxItems  int
	recorder  Recorder
}

func NewQuizUseCase(
	generator *quizgen.Generator,
	exporter ports.QuizExporter,
	maxItems int,
	recorder Recorder,
) *QuizUseCase {
	if maxItems <= 0 {
		maxItems = quizgen.DefaultItems
	}
	return &QuizUseCase{
		generator: generator,
		exporter:  exporter,
		maxItems:  maxItems,
		recorder:  recorderOrNop(recorder),
	}
}

// Build clamps num into [0, maxItems]; zero yields an empty quiz.
func (uc *QuizUseCase) Build(_ context.Context, text string, num int) (domain.Quiz, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Quiz{}, domain.WrapError(domain.ErrInvalidInput, "build quiz", errEmptyText)
	}
	num = max(0, min(num, uc.maxItems))
	quiz := uc.generator.Generate(text, num)
	uc.recorder.ObserveQuiz(len(quiz.Items))
	return quiz, nil
}

func (uc *QuizUseCase) Export(_ context.Context, quiz domain.Quiz, w io.Writer) error {
	if uc.exporter == nil {
		return domain.WrapError(domain.ErrInvalidInput, "export quiz", errors.New("quiz export is not configured"))
	}
	if err := uc.exporter.Export(quiz, w); err != nil {
		return fmt.Errorf("export quiz: %w", err)
	}
	return nil
}

func (uc *QuizUseCase) ExportContentType() string {
	if uc.exporter == nil {
		return ""
	}
	return uc.exporter.ContentType()
}
