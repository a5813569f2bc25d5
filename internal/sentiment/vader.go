package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

type vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
	positive float64
	negative float64
}

// NewVader returns the lexicon-based VADER model. Confidence is the magnitude
// of the compound score for polar labels and the neutral proportion otherwise.
func NewVader(positive, negative float64) Model {
	return &vader{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		positive: positive,
		negative: negative,
	}
}

func (m *vader) Name() string { return ModelVader }

func (m *vader) Classify(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	scores := m.analyzer.PolarityScores(text)
	label := labelFor(scores.Compound, m.positive, m.negative)

	confidence := scores.Compound
	if confidence < 0 {
		confidence = -confidence
	}
	if label == Neutral {
		confidence = scores.Neutral
	}

	return Result{
		Label:      label,
		Confidence: confidence,
		Polarity:   scores.Compound,
	}, nil
}
