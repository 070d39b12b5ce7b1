package diagnosis

import (
	"regexp"
	"strings"

	"github.com/abhisek/drillsergeant/internal/content"
)

// Classifier is a rule-based trap detector. It returns a trap type and a
// confidence (0.0–1.0), or ("", 0) when the rule does not apply. Rule
// results are passed to the model as a suspicion, never as a verdict.
type Classifier interface {
	Name() string
	Classify(q content.Question, submitted string) (TrapType, float64)
}

// DefaultClassifiers returns classifiers in priority order.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&ExtremeLanguageClassifier{},
		&ReversalClassifier{},
	}
}

// RunClassifiers returns the first match, or ("", 0, "") if no rule applies.
func RunClassifiers(classifiers []Classifier, q content.Question, submitted string) (TrapType, float64, string) {
	for _, c := range classifiers {
		trap, conf := c.Classify(q, submitted)
		if trap != "" {
			return trap, conf, c.Name()
		}
	}
	return "", 0, ""
}

var extremeWords = regexp.MustCompile(`(?i)\b(always|never|only|all|none|every|entirely|completely|solely|proves?|impossible|must)\b`)

// ExtremeLanguageClassifier flags a chosen option with absolute wording
// when the correct option has none.
type ExtremeLanguageClassifier struct{}

func (c *ExtremeLanguageClassifier) Name() string { return "extreme-language" }

func (c *ExtremeLanguageClassifier) Classify(q content.Question, submitted string) (TrapType, float64) {
	chosen, ok := q.Options[content.NormalizeLabel(submitted)]
	if !ok || !extremeWords.MatchString(chosen) {
		return "", 0
	}
	if extremeWords.MatchString(q.Options[q.CorrectOption]) {
		return "", 0
	}
	return TrapExtremeLanguage, 0.6
}

var (
	wordPattern = regexp.MustCompile(`[a-z']+`)

	negators = map[string]bool{
		"not": true, "no": true, "never": true, "cannot": true, "neither": true,
		"nor": true, "without": true, "fails": true, "isn't": true, "doesn't": true,
		"don't": true, "didn't": true, "wasn't": true, "aren't": true, "won't": true,
	}

	antonyms = map[string]string{
		"increase": "decrease", "increases": "decreases", "increased": "decreased",
		"more": "less", "higher": "lower", "faster": "slower", "rise": "fall",
		"supports": "undermines", "support": "undermine", "strengthens": "weakens",
		"strengthen": "weaken", "cause": "prevent", "causes": "prevents",
		"accept": "reject", "accepts": "rejects", "confirms": "refutes",
		"before": "after", "first": "last", "agrees": "disagrees",
	}

	stopWords = map[string]bool{
		"a": true, "an": true, "the": true, "of": true, "to": true, "in": true,
		"on": true, "is": true, "are": true, "was": true, "be": true, "and": true,
		"or": true, "that": true, "it": true, "by": true, "for": true, "with": true,
	}
)

// ReversalClassifier flags a chosen option that restates the correct one
// with its polarity flipped, either by negation or by swapping in an
// antonym.
type ReversalClassifier struct{}

func (c *ReversalClassifier) Name() string { return "reversal" }

func (c *ReversalClassifier) Classify(q content.Question, submitted string) (TrapType, float64) {
	chosen, ok := q.Options[content.NormalizeLabel(submitted)]
	if !ok {
		return "", 0
	}
	a := polarityOf(chosen)
	b := polarityOf(q.Options[q.CorrectOption])
	if len(a.words) == 0 || len(b.words) == 0 {
		return "", 0
	}

	flipped := a.negated != b.negated
	shared := 0
	for w := range a.words {
		if b.words[w] {
			shared++
			continue
		}
		if opp, ok := antonymOf(w); ok && b.words[opp] {
			shared++
			flipped = !flipped
		}
	}
	if !flipped {
		return "", 0
	}
	smaller := min(len(a.words), len(b.words))
	if float64(shared)/float64(smaller) < 0.6 {
		return "", 0
	}
	return TrapReversal, 0.5
}

type polarity struct {
	words   map[string]bool
	negated bool
}

// polarityOf splits text into content words and an odd/even negation count.
func polarityOf(text string) polarity {
	p := polarity{words: make(map[string]bool)}
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		switch {
		case negators[w] || strings.HasSuffix(w, "n't"):
			p.negated = !p.negated
		case stopWords[w]:
		default:
			p.words[w] = true
		}
	}
	return p
}

func antonymOf(w string) (string, bool) {
	if opp, ok := antonyms[w]; ok {
		return opp, true
	}
	for k, v := range antonyms {
		if v == w {
			return k, true
		}
	}
	return "", false
}
