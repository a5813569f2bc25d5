package formatting_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/pulse/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "1024", 1024, false},
		{"kilobytes", "64KB", 64 * 1024, false},
		{"megabytes", "1MB", 1024 * 1024, false},
		{"lowercase with space", "2 mb", 2 * 1024 * 1024, false},
		{"fractional", "1.5KB", 1536, false},
		{"short suffix", "1.5K", 1536, false},
		{"binary suffix", "8KiB", 8 * 1024, false},
		{"terabytes", "1TB", 1 << 40, false},
		{"negative", "-1KB", 0, true},
		{"empty string", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"no number", "MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{512, 0, "512 B"},
		{1024 * 1024, 0, "1 MB"},
		{1536, 1, "1.5 KB"},
		{1536, -1, "2 KB"},
		{2048, 0, "2 KB"},
		{1023, 2, "1023 B"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}

type verdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    verdict
		wantErr bool
	}{
		{
			name:  "raw json",
			input: `{"label": "positive", "confidence": 0.9}`,
			want:  verdict{Label: "positive", Confidence: 0.9},
		},
		{
			name:  "fenced json",
			input: "Here you go:\n```json\n{\"label\": \"negative\", \"confidence\": 0.7}\n```",
			want:  verdict{Label: "negative", Confidence: 0.7},
		},
		{
			name:  "fence without language",
			input: "```\n{\"label\": \"neutral\", \"confidence\": 0.5}\n```",
			want:  verdict{Label: "neutral", Confidence: 0.5},
		},
		{
			name:  "object inside prose",
			input: "Sure! {\"label\": \"positive\", \"confidence\": 0.8} Hope that helps.",
			want:  verdict{Label: "positive", Confidence: 0.8},
		},
		{
			name:  "second fence holds the object",
			input: "```text\nthinking\n```\n```json\n{\"label\": \"negative\", \"confidence\": 0.6}\n```",
			want:  verdict{Label: "negative", Confidence: 0.6},
		},
		{
			name:    "prose",
			input:   "I think it is positive.",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			input:   "} positive {",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[verdict](tt.input)
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrParseFailed) {
					t.Errorf("error = %v, want ErrParseFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseErrorTruncatesContent(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, err := formatting.Parse[verdict](long)
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Fatalf("error = %v, want ErrParseFailed", err)
	}
	if len(err.Error()) > 200 {
		t.Errorf("error message length = %d, want content truncated", len(err.Error()))
	}
	if !strings.Contains(err.Error(), "...") {
		t.Errorf("error = %q, want truncation marker", err)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{0.123456, 4, 0.1235},
		{0.66666, 2, 0.67},
		{-0.55555, 3, -0.556},
		{1.5, -2, 2},
		{0, 4, 0},
	}

	for _, tt := range tests {
		if got := formatting.Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}
