package textproc

// Scorer ranks sentences by the mean document frequency of their tokens.
type Scorer struct {
	stopwords StopwordSet
	table     map[string]int
}

// NewScorer builds the frequency table of document once; stop-words are excluded
// from the table and from every sentence scored against it.
func NewScorer(document string, stopwords StopwordSet) *Scorer {
	table := make(map[string]int)
	for _, t := range QualifyingTokens(document, stopwords) {
		table[t]++
	}
	return &Scorer{stopwords: stopwords, table: table}
}

func (s *Scorer) Frequency(token string) int {
	return s.table[token]
}

func (s *Scorer) Vocabulary() int {
	return len(s.table)
}

// Score is the sum of table counts of the sentence's qualifying tokens divided by their
// number. A sentence without qualifying tokens scores 0.
func (s *Scorer) Score(sentence string) float64 {
	tokens := QualifyingTokens(sentence, s.stopwords)
	total := 0
	for _, t := range tokens {
		total += s.table[t]
	}
	denom := len(tokens)
	if denom == 0 {
		denom = 1
	}
	return float64(total) / float64(denom)
}
