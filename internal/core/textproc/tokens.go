package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTokenRunes is the shortest word that takes part in frequency scoring.
const MinTokenRunes = 3

// Letters, digits and underscore, as in a Unicode \w.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Words returns every maximal run of word characters in text, as written.
func Words(text string) []string {
	return wordRun.FindAllString(text, -1)
}

// Tokens returns the lower-cased words of text that are at least MinTokenRunes long.
func Tokens(text string) []string {
	runs := wordRun.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(runs))
	for _, w := range runs {
		if utf8.RuneCountInString(w) >= MinTokenRunes {
			out = append(out, w)
		}
	}
	return out
}

// QualifyingTokens is Tokens with stop-words removed.
func QualifyingTokens(text string, stopwords StopwordSet) []string {
	tokens := Tokens(text)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !stopwords.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}
