package analyses

import (
	"encoding/json"
	"net/url"
	"slices"
	"strings"

	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/query"
	"github.com/JaimeStill/pulse/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "analyses", "a").
	Project("id", "ID").
	Project("text", "Text").
	Project("label", "Label").
	Project("confidence", "Confidence").
	Project("polarity", "Polarity").
	Project("model_used", "ModelUsed").
	Project("metadata", "Metadata").
	Project("created_at", "CreatedAt").
	Sortable("seq", "Seq")

var insertionOrder = query.SortField{Field: "Seq"}

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Empty fields are ignored. Text matches case-insensitive substrings.
type Filters struct {
	Labels    []sentiment.Label `json:"labels,omitempty"`
	ModelUsed *string           `json:"model_used,omitempty"`
	Text      *string           `json:"text,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	labels := make([]any, len(f.Labels))
	for i, l := range f.Labels {
		labels[i] = string(l)
	}
	return b.
		WhereIn("Label", labels).
		WhereEquals("ModelUsed", f.ModelUsed).
		WhereContains("Text", f.Text)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// label accepts a comma-separated list; unknown labels are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	for _, raw := range strings.Split(values.Get("label"), ",") {
		l := sentiment.Label(strings.TrimSpace(raw))
		if l.Valid() && !slices.Contains(f.Labels, l) {
			f.Labels = append(f.Labels, l)
		}
	}

	if m := values.Get("model_used"); m != "" {
		f.ModelUsed = &m
	}

	if t := values.Get("text"); t != "" {
		f.Text = &t
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	var label string
	var metadata []byte

	err := s.Scan(
		&a.ID,
		&a.Text,
		&label,
		&a.Confidence,
		&a.Polarity,
		&a.ModelUsed,
		&metadata,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	a.Label = sentiment.Label(label)
	if len(metadata) > 0 {
		a.Metadata = json.RawMessage(metadata)
	}
	a.CreatedAt = a.CreatedAt.UTC()

	return a, nil
}

func metadataArg(m json.RawMessage) any {
	if len(m) == 0 {
		return nil
	}
	return string(m)
}
