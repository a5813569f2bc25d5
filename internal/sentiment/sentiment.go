// Package sentiment classifies feedback text as positive, negative, or neutral.
package sentiment

import "context"

// Label is the sentiment class assigned to a text.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Labels lists every label in display order.
var Labels = []Label{Positive, Negative, Neutral}

// Valid reports whether l is one of the enumerated labels.
func (l Label) Valid() bool {
	switch l {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

// Result is the outcome of classifying a single text.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Polarity   float64 `json:"polarity"`
	Model      string  `json:"model"`
}

// Model is a single classification strategy.
type Model interface {
	Name() string
	Classify(ctx context.Context, text string) (Result, error)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (r Result) sanitize(model string) Result {
	if !r.Label.Valid() {
		r.Label = Neutral
	}
	r.Confidence = clamp(r.Confidence, 0, 1)
	r.Polarity = clamp(r.Polarity, -1, 1)
	r.Model = model
	return r
}

func labelFor(score, positive, negative float64) Label {
	switch {
	case score >= positive:
		return Positive
	case score <= negative:
		return Negative
	default:
		return Neutral
	}
}
