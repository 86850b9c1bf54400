package quizgen

import (
	"math"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/textproc"
)

const campusText = "La Universidad Nacional ofrece programas de ingeniería y ciencias sociales para estudiantes. " +
	"La Biblioteca Central abre sus puertas a las ocho de la mañana. " +
	"El Consejo Académico aprobó el nuevo calendario de exámenes finales. " +
	"Roma es una ciudad con mil años de luz y de paz y de sol. " +
	"Corto pero Importante."

func newSeeded() *Generator {
	return New(textproc.DefaultLexicon(), WithSeed(42))
}

func assertItemInvariants(t *testing.T, item domain.QuizItem) {
	t.Helper()
	if len(item.Options) != domain.QuizOptionCount {
		t.Fatalf("expected %d options, got %q", domain.QuizOptionCount, item.Options)
	}
	seen := make(map[string]struct{})
	for _, opt := range item.Options {
		if _, dup := seen[opt]; dup {
			t.Fatalf("duplicate option %q in %q", opt, item.Options)
		}
		seen[opt] = struct{}{}
	}
	if !slices.Contains(item.Options, item.Answer) {
		t.Fatalf("answer %q missing from %q", item.Answer, item.Options)
	}
}

func TestGenerateAnswerIsFirstCapitalizedWord(t *testing.T) {
	in := "La Universidad Nacional ofrece programas de ingeniería y ciencias sociales para estudiantes."
	quiz := newSeeded().Generate(in, 1)
	if len(quiz.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(quiz.Items))
	}
	item := quiz.Items[0]
	if item.Answer != "Universidad" {
		t.Fatalf("expected answer Universidad, got %q", item.Answer)
	}
	assertItemInvariants(t, item)

	sentenceWords := textproc.Words(in)
	for _, opt := range item.Options {
		if opt == item.Answer {
			continue
		}
		if !slices.Contains(sentenceWords, opt) {
			t.Fatalf("distractor %q should come from the sentence", opt)
		}
	}
	if !strings.HasPrefix(item.Question, textproc.DefaultLexicon().QuestionLeadIn+"\n") {
		t.Fatalf("question missing lead-in: %q", item.Question)
	}
	if !strings.Contains(item.Question, "“"+in+"”") {
		t.Fatalf("question must quote the sentence: %q", item.Question)
	}
}

func TestGeneratePadsFromGenericPool(t *testing.T) {
	quiz := newSeeded().Generate("Roma es una ciudad con mil años de luz y de paz y de sol.", 1)
	if len(quiz.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(quiz.Items))
	}
	item := quiz.Items[0]
	assertItemInvariants(t, item)
	if item.Answer != "Roma" {
		t.Fatalf("expected answer Roma, got %q", item.Answer)
	}
	pool := textproc.DefaultLexicon().GenericOptions
	padded := 0
	for _, opt := range item.Options {
		if slices.Contains(pool, opt) {
			padded++
		}
	}
	if padded != 2 {
		t.Fatalf("expected 2 generic options, got %d in %q", padded, item.Options)
	}
}

func TestGenerateSkipsShortSentences(t *testing.T) {
	quiz := newSeeded().Generate("Universidad Nacional de Ciencias.", 4)
	if len(quiz.Items) != 0 {
		t.Fatalf("sentence under 40 characters must not be used, got %+v", quiz.Items)
	}
}

func TestGenerateSkipsSentencesWithoutKeywords(t *testing.T) {
	quiz := newSeeded().Generate("el gato come pan y la vaca da leche en la casa del rio cada dia.", 4)
	if len(quiz.Items) != 0 {
		t.Fatalf("expected no items, got %+v", quiz.Items)
	}
}

func TestGenerateExaminesAtMostTwiceNumSentences(t *testing.T) {
	filler := "el gato come pan y la vaca da leche en la casa del rio cada dia. "
	in := filler + filler + "La Universidad Nacional ofrece programas de ingeniería y ciencias sociales para estudiantes."
	if got := newSeeded().Generate(in, 1); len(got.Items) != 0 {
		t.Fatalf("third candidate must not be examined for num=1, got %+v", got.Items)
	}
	if got := newSeeded().Generate(in, 2); len(got.Items) != 1 {
		t.Fatalf("expected 1 item for num=2, got %d", len(got.Items))
	}
}

func TestGenerateIgnoresStopwordKeywords(t *testing.T) {
	quiz := newSeeded().Generate("Desde la Universidad Nacional llegan estudiantes de ingeniería cada semestre.", 1)
	if len(quiz.Items) != 1 || quiz.Items[0].Answer != "Universidad" {
		t.Fatalf("expected answer Universidad, got %+v", quiz.Items)
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n"} {
		quiz := newSeeded().Generate(in, 4)
		if quiz.Items == nil || len(quiz.Items) != 0 {
			t.Fatalf("Generate(%q) = %+v, want empty non-nil items", in, quiz.Items)
		}
	}
}

func TestGenerateRespectsItemBound(t *testing.T) {
	g := New(textproc.DefaultLexicon())
	for num := 0; num <= 6; num++ {
		quiz := g.Generate(campusText, num)
		if len(quiz.Items) > num {
			t.Fatalf("num=%d produced %d items", num, len(quiz.Items))
		}
		for _, item := range quiz.Items {
			assertItemInvariants(t, item)
		}
	}
	if got := g.Generate(campusText, -3); len(got.Items) != 0 {
		t.Fatalf("negative num must produce no items, got %d", len(got.Items))
	}
}

func TestGenerateSeededIsReproducible(t *testing.T) {
	first := newSeeded().Generate(campusText, 4)
	second := newSeeded().Generate(campusText, 4)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("seeded quizzes differ:\n%+v\n%+v", first, second)
	}
	if len(first.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(first.Items))
	}
	if !newSeeded().Deterministic() || New(textproc.DefaultLexicon()).Deterministic() {
		t.Fatalf("unexpected Deterministic() values")
	}
}

func TestGenerateNormalizesDecomposedAccents(t *testing.T) {
	in := "La Investigacio\u0301n aplicada transforma muchas comunidades rurales del país."
	quiz := newSeeded().Generate(in, 1)
	if len(quiz.Items) != 1 || quiz.Items[0].Answer != "Investigación" {
		t.Fatalf("expected composed answer, got %+v", quiz.Items)
	}
}

func TestGenerateHandlesHugeNum(t *testing.T) {
	for _, num := range []int{math.MaxInt, math.MaxInt/2 + 1, math.MaxInt / 2} {
		quiz := newSeeded().Generate(campusText, num)
		if len(quiz.Items) != 4 {
			t.Fatalf("num=%d: expected every qualifying sentence, got %d items", num, len(quiz.Items))
		}
		for _, item := range quiz.Items {
			assertItemInvariants(t, item)
		}
	}
}

func TestGenerateConcurrentCallsMatchSerial(t *testing.T) {
	want := newSeeded().Generate(campusText, 4)

	shared := newSeeded()
	const workers = 16
	results := make([]domain.Quiz, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = shared.Generate(campusText, 4)
		}()
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("worker %d diverged from serial run:\n%+v\n%+v", i, got, want)
		}
	}
}

func TestGenerateDistractorsUniqueIgnoringCase(t *testing.T) {
	in := "La Biblioteca guarda libros LIBROS Libros tesis TESIS revistas Revistas BIBLIOTECA."
	for seed := int64(0); seed < 32; seed++ {
		quiz := New(textproc.DefaultLexicon(), WithSeed(seed)).Generate(in, 1)
		if len(quiz.Items) != 1 {
			t.Fatalf("seed %d: expected 1 item, got %d", seed, len(quiz.Items))
		}
		item := quiz.Items[0]
		if item.Answer != "Biblioteca" {
			t.Fatalf("seed %d: unexpected answer %q", seed, item.Answer)
		}
		seen := make(map[string]struct{})
		for _, opt := range item.Options {
			key := strings.ToLower(opt)
			if _, dup := seen[key]; dup {
				t.Fatalf("seed %d: options repeat ignoring case: %q", seed, item.Options)
			}
			seen[key] = struct{}{}
		}
	}
}
