package summarize

import (
	"sort"
	"strings"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/textproc"
)

// SummarySentences is how many sentences the summary and auto modes keep.
const SummarySentences = 5

type Summarizer struct {
	stopwords textproc.StopwordSet
}

func New(lexicon textproc.Lexicon) *Summarizer {
	return &Summarizer{stopwords: lexicon.Stopwords}
}

// Summarize returns the highest scoring sentences of text in reading order, terminated by a period.
func (s *Summarizer) Summarize(text string, mode domain.SummaryMode) string {
	return s.SummarizeDetailed(text, mode).Text
}

func (s *Summarizer) SummarizeDetailed(text string, mode domain.SummaryMode) domain.Summary {
	mode = domain.ParseSummaryMode(string(mode))
	out := domain.Summary{Mode: mode, Selected: []domain.ScoredSentence{}}

	text = textproc.Normalize(text)
	if strings.TrimSpace(text) == "" {
		return out
	}
	sentences := textproc.SplitSentences(text)
	if len(sentences) == 0 {
		return out
	}
	out.TotalSentences = len(sentences)

	scorer := textproc.NewScorer(text, s.stopwords)
	scored := make([]domain.ScoredSentence, len(sentences))
	for i, sent := range sentences {
		scored[i] = domain.ScoredSentence{Index: sent.Index, Score: scorer.Score(sent.Text), Text: sent.Text}
	}

	// Stable, so equal scores keep encounter order.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	k := sentenceBudget(mode, len(scored))
	top := scored[:k]
	sort.Slice(top, func(i, j int) bool { return top[i].Index < top[j].Index })

	parts := make([]string, len(top))
	for i, sent := range top {
		parts[i] = sent.Text
	}
	out.Selected = top
	out.Text = terminate(strings.Join(parts, " "))
	return out
}

func sentenceBudget(mode domain.SummaryMode, total int) int {
	k := SummarySentences
	if mode == domain.ModeFull {
		k = total
	}
	if k > total {
		k = total
	}
	return k
}

// terminate guarantees exactly one trailing period on non-empty output.
func terminate(joined string) string {
	if joined == "" {
		return ""
	}
	trimmed := strings.TrimRight(joined, ".")
	if trimmed == "" {
		return "."
	}
	return trimmed + "."
}
