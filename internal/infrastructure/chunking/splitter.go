package chunking

import (
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/eduassist/internal/core/textproc"
)

// Splitter packs text into pieces of at most MaxRunes runes. Sentences are kept whole
// when they fit, then words; a single word longer than the limit is cut.
type Splitter struct {
	MaxRunes int
}

func NewSplitter(maxRunes int) *Splitter {
	if maxRunes <= 0 {
		maxRunes = 200
	}
	return &Splitter{MaxRunes: maxRunes}
}

func (s *Splitter) Split(text string) []string {
	var out []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	add := func(piece string) {
		n := utf8.RuneCountInString(piece)
		if curLen > 0 && curLen+1+n > s.MaxRunes {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(piece)
		curLen += n
	}

	for sent := range textproc.Sentences(text) {
		if utf8.RuneCountInString(sent.Text) <= s.MaxRunes {
			add(sent.Text)
			continue
		}
		for _, word := range strings.Fields(sent.Text) {
			for _, part := range s.cut(word) {
				add(part)
			}
		}
	}
	flush()
	return out
}

func (s *Splitter) cut(word string) []string {
	runes := []rune(word)
	if len(runes) <= s.MaxRunes {
		return []string{word}
	}
	parts := make([]string, 0, len(runes)/s.MaxRunes+1)
	for start := 0; start < len(runes); start += s.MaxRunes {
		end := min(start+s.MaxRunes, len(runes))
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
