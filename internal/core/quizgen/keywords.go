package quizgen

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/eduassist/internal/core/textproc"
)

const (
	minSentenceRunes   = 40
	maxSentenceRunes   = 240
	minDistractorRunes = 5
)

// Patterns are matched against whole word runs; Go's \b only knows ASCII.
var (
	properNoun = regexp.MustCompile(`^\p{Lu}\p{Ll}{3,}$`)
	longLower  = regexp.MustCompile(`^\p{Ll}{6,}$`)
)

// candidateSentences keeps sentences whose trimmed length falls in the quiz window.
func candidateSentences(text string) []string {
	var out []string
	for s := range textproc.Sentences(text) {
		n := utf8.RuneCountInString(s.Text)
		if n >= minSentenceRunes && n <= maxSentenceRunes {
			out = append(out, s.Text)
		}
	}
	return out
}

// keywords lists capitalized words first, then long lowercase words, deduplicated
// case-insensitively with the first spelling kept.
func keywords(sentence string, stopwords textproc.StopwordSet) []string {
	words := textproc.Words(sentence)
	var proper, long []string
	for _, w := range words {
		if properNoun.MatchString(w) {
			proper = append(proper, w)
		}
	}
	for _, w := range textproc.Words(strings.ToLower(sentence)) {
		if longLower.MatchString(w) {
			long = append(long, w)
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, w := range append(proper, long...) {
		key := strings.ToLower(w)
		if stopwords.Contains(key) {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}

// distractorCandidates returns the sentence words long enough to pass as wrong answers.
func distractorCandidates(sentence, answer string) []string {
	var out []string
	for _, w := range textproc.Words(sentence) {
		if utf8.RuneCountInString(w) < minDistractorRunes {
			continue
		}
		if strings.EqualFold(w, answer) {
			continue
		}
		out = append(out, w)
	}
	return out
}
