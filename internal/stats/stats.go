// Package stats computes summary statistics over the stored analyses.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/pulse/internal/analyses"
	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/formatting"
)

const precision = 4

// Stats is the summary returned by GET /stats.
type Stats struct {
	Total                int                         `json:"total"`
	ByLabel              map[sentiment.Label]int     `json:"by_label"`
	AvgConfidence        float64                     `json:"avg_confidence"`
	AvgConfidenceByLabel map[sentiment.Label]float64 `json:"avg_confidence_by_label"`
	LastUpdated          *time.Time                  `json:"last_updated"`
	GeneratedAt          time.Time                   `json:"generated_at"`
}

// Source supplies the aggregate that Stats is derived from.
type Source interface {
	Aggregate(ctx context.Context) (*analyses.Aggregate, error)
}

// System defines the public contract for statistics.
type System interface {
	Handler() *Handler
	Compute(ctx context.Context) (*Stats, error)
}

type system struct {
	source Source
	logger *slog.Logger
	now    func() time.Time
}

// New creates a stats System reading from source on every call.
func New(source Source, logger *slog.Logger) System {
	return &system{
		source: source,
		logger: logger.With("system", "stats"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Compute(ctx context.Context) (*Stats, error) {
	agg, err := s.source.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(agg, s.now()), nil
}

func summarize(agg *analyses.Aggregate, now time.Time) *Stats {
	st := &Stats{
		Total:                agg.Total,
		ByLabel:              make(map[sentiment.Label]int, len(sentiment.Labels)),
		AvgConfidence:        formatting.Round(agg.AverageConfidence(), precision),
		AvgConfidenceByLabel: make(map[sentiment.Label]float64, len(sentiment.Labels)),
		LastUpdated:          agg.LastCreated,
		GeneratedAt:          now,
	}

	for _, l := range sentiment.Labels {
		la := agg.Labels[l]
		st.ByLabel[l] = la.Count

		var avg float64
		if la.Count > 0 {
			avg = la.ConfidenceSum / float64(la.Count)
		}
		st.AvgConfidenceByLabel[l] = formatting.Round(avg, precision)
	}

	return st
}
