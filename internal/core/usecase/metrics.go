package usecase

import "github.com/kirillkom/eduassist/internal/core/domain"

// Recorder receives domain counters. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveSummary(mode domain.SummaryMode, sentences int)
	ObserveQuiz(items int)
	ObserveSpeech(status string)
	ObserveModelFallback()
}

type nopRecorder struct{}

func (nopRecorder) ObserveSummary(domain.SummaryMode, int) {}
func (nopRecorder) ObserveQuiz(int)                        {}
func (nopRecorder) ObserveSpeech(string)                   {}
func (nopRecorder) ObserveModelFallback()                  {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
