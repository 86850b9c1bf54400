package textproc

import (
	"fmt"
	"strings"
)

// MinGenericOptions is the smallest distractor pool that can always pad a quiz item to four
// unique options, whatever the answer and sentence distractors turn out to be.
const MinGenericOptions = 4

// StopwordSet holds lower-cased function words that never count as tokens.
type StopwordSet map[string]struct{}

func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

func (s StopwordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Lexicon is the language-dependent vocabulary used by the summarizer and quiz generator.
type Lexicon struct {
	Stopwords      StopwordSet
	GenericOptions []string
	QuestionLeadIn string
}

func DefaultLexicon() Lexicon {
	return Lexicon{
		Stopwords: NewStopwordSet(strings.Fields(`
de la los las un una y o a en del al para por con su sus es son fue fueron
como que se lo le les sus este esta estos estas entre sobre desde contra
`)...),
		GenericOptions: []string{
			"Proceso académico",
			"Reglamento",
			"Plan de estudios",
			"Investigación",
			"Calendario",
			"Admisiones",
		},
		QuestionLeadIn: "¿Qué término está más relacionado con esta afirmación?",
	}
}

func (l Lexicon) Validate() error {
	if strings.TrimSpace(l.QuestionLeadIn) == "" {
		return fmt.Errorf("lexicon: question lead-in is empty")
	}
	seen := make(map[string]struct{}, len(l.GenericOptions))
	for _, opt := range l.GenericOptions {
		key := strings.ToLower(strings.TrimSpace(opt))
		if key == "" {
			return fmt.Errorf("lexicon: generic option is blank")
		}
		seen[key] = struct{}{}
	}
	if len(seen) < MinGenericOptions {
		return fmt.Errorf("lexicon: need at least %d distinct generic options, got %d", MinGenericOptions, len(seen))
	}
	return nil
}
