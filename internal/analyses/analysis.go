// Package analyses classifies customer feedback and keeps the append-only
// record of every analysis produced.
package analyses

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/internal/sentiment"
)

// Analysis is a persisted classification of one piece of feedback.
// Records are immutable once appended.
type Analysis struct {
	ID         uuid.UUID       `json:"id"`
	Text       string          `json:"text"`
	Label      sentiment.Label `json:"label"`
	Confidence float64         `json:"confidence"`
	Polarity   float64         `json:"polarity"`
	ModelUsed  string          `json:"model_used"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AnalyzeCommand is the input to a single analysis.
type AnalyzeCommand struct {
	Text     string
	Metadata json.RawMessage
}

// BatchCommand is the input to a batch analysis.
type BatchCommand struct {
	Texts []string
}

// ItemError describes why one batch item was rejected.
type ItemError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// BatchItem is the outcome for the input at Index.
type BatchItem struct {
	Index    int        `json:"index"`
	Success  bool       `json:"success"`
	Analysis *Analysis  `json:"analysis,omitempty"`
	Error    *ItemError `json:"error,omitempty"`
}

// BatchResult holds one BatchItem per input, in input order.
type BatchResult struct {
	Results   []BatchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// LabelAggregate is the per-label portion of an Aggregate.
type LabelAggregate struct {
	Count         int
	ConfidenceSum float64
}

// Aggregate summarizes the stored analyses. Every label is present in Labels.
type Aggregate struct {
	Total       int
	Labels      map[sentiment.Label]LabelAggregate
	LastCreated *time.Time
}

// AverageConfidence returns the mean confidence over all records, or 0 when empty.
func (a *Aggregate) AverageConfidence() float64 {
	if a.Total == 0 {
		return 0
	}
	var sum float64
	for _, l := range a.Labels {
		sum += l.ConfidenceSum
	}
	return sum / float64(a.Total)
}

// Limits bounds the work a single request may ask for.
type Limits struct {
	MaxTextLength    int
	MaxBatchSize     int
	BatchConcurrency int
	MaxBodyBytes     int64
}
