package chunking

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitterPacksSentences(t *testing.T) {
	s := NewSplitter(20)
	got := s.Split("Hola mundo. Adiós mundo. Fin.")
	want := []string{"Hola mundo.", "Adiós mundo. Fin."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split() = %q, want %q", got, want)
	}
}

func TestSplitterBreaksLongSentencesOnWords(t *testing.T) {
	s := NewSplitter(10)
	got := s.Split("uno dos tres cuatro cinco")
	want := []string{"uno dos", "tres", "cuatro", "cinco"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split() = %q, want %q", got, want)
	}
}

func TestSplitterCutsOversizedWords(t *testing.T) {
	s := NewSplitter(4)
	got := s.Split("ñandúes")
	want := []string{"ñand", "úes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split() = %q, want %q", got, want)
	}
}

func TestSplitterRespectsLimit(t *testing.T) {
	s := NewSplitter(0)
	text := strings.Repeat("La educación transforma vidas y comunidades enteras. ", 30)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 200 || n == 0 {
			t.Fatalf("chunk of %d runes: %q", n, c)
		}
	}
	if strings.Join(chunks, " ") != strings.TrimSpace(text) {
		t.Fatalf("chunks must reassemble the text")
	}
}

func TestSplitterEmpty(t *testing.T) {
	if got := NewSplitter(10).Split("  \n "); len(got) != 0 {
		t.Fatalf("expected no chunks, got %q", got)
	}
}
