package quizgen

import (
	"math/rand/v2"
	"strings"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/textproc"
)

const DefaultItems = 4

// Generator builds multiple-choice items from the sentences of a text.
// It holds no mutable state; every Generate call owns its random source.
type Generator struct {
	lexicon textproc.Lexicon
	seeded  bool
	seed    uint64
}

type Option func(*Generator)

// WithSeed makes every Generate call reproducible for the same text and item count.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seeded = true
		g.seed = uint64(seed)
	}
}

func New(lexicon textproc.Lexicon, opts ...Option) *Generator {
	g := &Generator{lexicon: lexicon}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Deterministic() bool {
	return g.seeded
}

func (g *Generator) rng() *rand.Rand {
	if g.seeded {
		return rand.New(rand.NewPCG(g.seed, g.seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Generate returns at most num items. Sentences without a usable keyword are skipped and
// no more than num*2 candidate sentences are examined.
func (g *Generator) Generate(text string, num int) domain.Quiz {
	quiz := domain.Quiz{Items: []domain.QuizItem{}}
	if num <= 0 {
		return quiz
	}
	sentences := candidateSentences(textproc.Normalize(text))
	if len(sentences) == 0 {
		return quiz
	}
	// num*2 would overflow for huge num; compare against half the pool instead.
	if num <= len(sentences)/2 {
		sentences = sentences[:num*2]
	}

	r := g.rng()
	for _, sentence := range sentences {
		item, ok := g.item(r, sentence)
		if !ok {
			continue
		}
		quiz.Items = append(quiz.Items, item)
		if len(quiz.Items) >= num {
			break
		}
	}
	return quiz
}

func (g *Generator) item(r *rand.Rand, sentence string) (domain.QuizItem, bool) {
	keys := keywords(sentence, g.lexicon.Stopwords)
	if len(keys) == 0 {
		return domain.QuizItem{}, false
	}
	answer := keys[0]

	distractors, ok := g.distractors(r, sentence, answer)
	if !ok {
		return domain.QuizItem{}, false
	}
	options := append(distractors, answer)
	r.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return domain.QuizItem{
		Question: g.lexicon.QuestionLeadIn + "\n“" + sentence + "”",
		Options:  options,
		Answer:   answer,
	}, true
}

// distractors picks up to three sentence words in shuffled order and pads the rest from the
// generic pool. Pads never repeat an option already on the item.
func (g *Generator) distractors(r *rand.Rand, sentence, answer string) ([]string, bool) {
	want := domain.QuizOptionCount - 1
	candidates := distractorCandidates(sentence, answer)
	r.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	out := make([]string, 0, want)
	taken := map[string]struct{}{strings.ToLower(answer): {}}
	for _, w := range candidates {
		key := strings.ToLower(w)
		if _, dup := taken[key]; dup {
			continue
		}
		taken[key] = struct{}{}
		out = append(out, w)
		if len(out) == want {
			return out, true
		}
	}

	for len(out) < want {
		var eligible []string
		for _, opt := range g.lexicon.GenericOptions {
			if _, dup := taken[strings.ToLower(opt)]; !dup {
				eligible = append(eligible, opt)
			}
		}
		if len(eligible) == 0 {
			return nil, false
		}
		pick := eligible[r.IntN(len(eligible))]
		taken[strings.ToLower(pick)] = struct{}{}
		out = append(out, pick)
	}
	return out, true
}
