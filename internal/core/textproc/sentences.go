package textproc

import (
	"iter"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// A break is sentence punctuation followed by whitespace, or a run of newlines.
// RE2 has no lookbehind, so the punctuation is part of the match and is handed back
// to the preceding sentence.
var sentenceBreak = regexp.MustCompile(`[.!?][\s\v\x{85}\p{Zs}]+|\n+`)

type Sentence struct {
	Index int
	Text  string
}

// Normalize puts text into NFC so composed and decomposed accents tokenize the same way.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Sentences lazily yields the trimmed, non-empty sentences of text in reading order.
// The sequence can be ranged over repeatedly; each pass rescans text.
func Sentences(text string) iter.Seq[Sentence] {
	return func(yield func(Sentence) bool) {
		index := 0
		emit := func(raw string) bool {
			s := strings.TrimSpace(raw)
			if s == "" {
				return true
			}
			ok := yield(Sentence{Index: index, Text: s})
			index++
			return ok
		}

		rest := text
		for rest != "" {
			loc := sentenceBreak.FindStringIndex(rest)
			if loc == nil {
				emit(rest)
				return
			}
			end := loc[0]
			if rest[end] != '\n' {
				end++
			}
			if !emit(rest[:end]) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

func SplitSentences(text string) []Sentence {
	var out []Sentence
	for s := range Sentences(text) {
		out = append(out, s)
	}
	return out
}
