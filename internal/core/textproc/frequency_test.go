package textproc

import "testing"

func TestScorerMeanTokenFrequency(t *testing.T) {
	doc := "plan plan estudios. plan ciencias."
	s := NewScorer(doc, NewStopwordSet())

	if got := s.Frequency("plan"); got != 3 {
		t.Fatalf("expected plan=3, got %d", got)
	}
	// plan(3) + plan(3) + estudios(1) over 3 tokens
	if got := s.Score("plan plan estudios."); got != 7.0/3.0 {
		t.Fatalf("unexpected score %v", got)
	}
	if got := s.Score("desconocido"); got != 0 {
		t.Fatalf("expected 0 for unseen token, got %v", got)
	}
}

func TestScorerEmptySentenceScoresZero(t *testing.T) {
	s := NewScorer("algo de texto", NewStopwordSet())
	for _, in := range []string{"", "a b", "¡¿!?"} {
		if got := s.Score(in); got != 0 {
			t.Fatalf("Score(%q) = %v, want 0", in, got)
		}
	}
}

func TestScorerExcludesStopwordsFromTableAndSentence(t *testing.T) {
	stop := NewStopwordSet("para")
	s := NewScorer("para para para beca", stop)
	if s.Frequency("para") != 0 {
		t.Fatalf("stop-word must not be counted")
	}
	if s.Vocabulary() != 1 {
		t.Fatalf("expected vocabulary of 1, got %d", s.Vocabulary())
	}
	if got := s.Score("para beca"); got != 1 {
		t.Fatalf("expected stop-word excluded from denominator, got %v", got)
	}
}
