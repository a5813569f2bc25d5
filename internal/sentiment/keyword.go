package sentiment

import (
	"context"
	"strings"
	"unicode"
)

var positiveWords = wordSet(
	"good", "great", "excellent", "amazing", "love", "perfect",
	"awesome", "fantastic", "wonderful", "outstanding", "superb", "brilliant",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "hate", "poor", "worst",
	"horrible", "disappointing", "pathetic", "useless", "garbage", "disgusting",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

type keyword struct{}

// NewKeyword returns the lexical fallback model. It counts whole-word hits
// against fixed positive and negative word lists and never fails.
func NewKeyword() Model {
	return keyword{}
}

func (keyword) Name() string { return ModelKeyword }

func (keyword) Classify(_ context.Context, text string) (Result, error) {
	return scoreKeywords(text), nil
}

func scoreKeywords(text string) Result {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var p, n int
	for _, t := range tokens {
		if _, ok := positiveWords[t]; ok {
			p++
		}
		if _, ok := negativeWords[t]; ok {
			n++
		}
	}

	if p == n {
		return Result{Label: Neutral, Confidence: 0.5}
	}

	diff := p - n
	label := Positive
	if diff < 0 {
		label = Negative
		diff = -diff
	}

	return Result{
		Label:      label,
		Confidence: min(1, 0.5+0.2*float64(diff)),
		Polarity:   float64(p-n) / float64(p+n),
	}
}
