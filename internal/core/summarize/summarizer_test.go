package summarize

import (
	"strings"
	"testing"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/textproc"
)

func newTestSummarizer() *Summarizer {
	return New(textproc.DefaultLexicon())
}

func TestSummarizeShortTextReturnsAllSentencesInOrder(t *testing.T) {
	in := "Plan de estudios. La universidad ofrece programas. El plan de estudios incluye matemáticas, ciencias y literatura."
	got := newTestSummarizer().Summarize(in, domain.ModeSummary)
	if got != in {
		t.Fatalf("unexpected summary:\n got: %q\nwant: %q", got, in)
	}
}

func TestSummarizeSelectsHighestScoringSentences(t *testing.T) {
	in := "clave clave. zorro. clave dato. lobo. clave clave clave. clave orden. clave final."
	got := newTestSummarizer().Summarize(in, domain.ModeSummary)
	want := "clave clave. clave dato. clave clave clave. clave orden. clave final."
	if got != want {
		t.Fatalf("unexpected summary:\n got: %q\nwant: %q", got, want)
	}
}

func TestSummarizeTiesKeepEncounterOrder(t *testing.T) {
	got := newTestSummarizer().Summarize("a. b. c. d. e. f. g.", domain.ModeAuto)
	if got != "a. b. c. d. e." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSummarizeFullModeKeepsEverySentence(t *testing.T) {
	in := "uno. dos. tres. cuatro. cinco. seis. siete."
	got := newTestSummarizer().Summarize(in, domain.ModeFull)
	if got != in {
		t.Fatalf("expected full text, got %q", got)
	}
}

func TestSummarizeUnknownModeFallsBackToSummary(t *testing.T) {
	in := "uno. dos. tres. cuatro. cinco. seis. siete."
	s := newTestSummarizer()
	if got, want := s.Summarize(in, "extendido"), s.Summarize(in, domain.ModeSummary); got != want {
		t.Fatalf("unknown mode: got %q, want %q", got, want)
	}
	detailed := s.SummarizeDetailed(in, "")
	if detailed.Mode != domain.ModeSummary || len(detailed.Selected) != SummarySentences {
		t.Fatalf("unexpected detailed summary %+v", detailed)
	}
	if detailed.TotalSentences != 7 {
		t.Fatalf("expected 7 sentences, got %d", detailed.TotalSentences)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := newTestSummarizer()
	for _, mode := range []domain.SummaryMode{domain.ModeAuto, domain.ModeSummary, domain.ModeFull, "otro"} {
		for _, in := range []string{"", "   ", "\n\n\t"} {
			if got := s.Summarize(in, mode); got != "" {
				t.Fatalf("Summarize(%q, %q) = %q, want empty", in, mode, got)
			}
		}
	}
}

func TestSummarizeTrailingPeriod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "sin punto final", want: "sin punto final."},
		{in: "¿Una pregunta?", want: "¿Una pregunta?."},
		{in: "Suspenso...", want: "Suspenso."},
		{in: "Normal.", want: "Normal."},
		{in: "...", want: "."},
	}
	s := newTestSummarizer()
	for _, tt := range tests {
		if got := s.Summarize(tt.in, domain.ModeFull); got != tt.want {
			t.Fatalf("Summarize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarizeSplitsOnNewlinesWithoutPunctuation(t *testing.T) {
	got := newTestSummarizer().Summarize("titulo\nprimer parrafo\nsegundo parrafo", domain.ModeFull)
	if got != "titulo primer parrafo segundo parrafo." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSummarizeIsIdempotentAndOrderPreserving(t *testing.T) {
	in := strings.Repeat("La biblioteca abre temprano. Los estudiantes leen libros. Hoy llueve. La biblioteca presta libros a estudiantes. ", 3) +
		"Otra idea distinta aparece. Los libros de la biblioteca son nuevos."
	s := newTestSummarizer()
	first := s.SummarizeDetailed(in, domain.ModeSummary)
	second := s.SummarizeDetailed(in, domain.ModeSummary)
	if first.Text != second.Text {
		t.Fatalf("summaries differ:\n%q\n%q", first.Text, second.Text)
	}
	if len(first.Selected) != SummarySentences {
		t.Fatalf("expected %d sentences, got %d", SummarySentences, len(first.Selected))
	}
	for i := 1; i < len(first.Selected); i++ {
		if first.Selected[i-1].Index >= first.Selected[i].Index {
			t.Fatalf("selection not in reading order: %+v", first.Selected)
		}
	}
	if strings.HasSuffix(first.Text, "..") || !strings.HasSuffix(first.Text, ".") {
		t.Fatalf("bad terminal punctuation: %q", first.Text)
	}
}

func TestSummarizeNonLatinScript(t *testing.T) {
	got := newTestSummarizer().Summarize("Привет мир. Как дела? 東京は大きい。", domain.ModeSummary)
	if got == "" || !strings.HasSuffix(got, ".") {
		t.Fatalf("expected non-empty summary, got %q", got)
	}
}
