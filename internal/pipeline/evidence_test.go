package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/aletheia/internal/model"
)

func TestSynthesizeEvidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		sources    []string
		sourceURL  string
		want       []model.EvidenceItem
	}{
		{
			name:       "decay in source order",
			confidence: 0.6,
			sources:    []string{"a", "b", "c"},
			want: []model.EvidenceItem{
				{Source: "a", Confidence: 0.55},
				{Source: "b", Confidence: 0.6},
				{Source: "c", Confidence: 0.65},
			},
		},
		{
			name:       "source url prefixed above threshold",
			confidence: 0.35,
			sources:    []string{"a"},
			sourceURL:  "https://example.com/story",
			want: []model.EvidenceItem{
				{Source: "https://example.com/story", Confidence: 0.35},
				{Source: "a", Confidence: 0.3},
			},
		},
		{
			name:       "source url omitted at low confidence",
			confidence: 0.2,
			sources:    []string{"a"},
			sourceURL:  "https://example.com/story",
			want: []model.EvidenceItem{
				{Source: "a", Confidence: 0.15},
			},
		},
		{
			name:       "clamped to bounds",
			confidence: 0.98,
			sources:    []string{"a", "b", "c", "d"},
			want: []model.EvidenceItem{
				{Source: "a", Confidence: 0.93},
				{Source: "b", Confidence: 0.98},
				{Source: "c", Confidence: 0.99},
				{Source: "d", Confidence: 0.99},
			},
		},
		{
			name:       "floor at 0.1",
			confidence: 0,
			sources:    []string{"a"},
			want:       []model.EvidenceItem{{Source: "a", Confidence: 0.1}},
		},
		{
			name:       "capped at five items",
			confidence: 0.8,
			sources:    []string{"a", "b", "c", "d", "e", "f"},
			sourceURL:  "https://example.com",
			want: []model.EvidenceItem{
				{Source: "https://example.com", Confidence: 0.8},
				{Source: "a", Confidence: 0.75},
				{Source: "b", Confidence: 0.8},
				{Source: "c", Confidence: 0.85},
				{Source: "d", Confidence: 0.9},
			},
		},
		{
			name:       "half rounds to even",
			confidence: 0.625,
			sources:    []string{},
			sourceURL:  "https://example.com/story",
			want: []model.EvidenceItem{
				{Source: "https://example.com/story", Confidence: 0.62},
			},
		},
		{
			name:       "no sources",
			confidence: 0,
			sources:    []string{},
			want:       []model.EvidenceItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := model.CredibilityAssessment{Confidence: tt.confidence, EvidenceSources: tt.sources}
			assert.Equal(t, tt.want, SynthesizeEvidence(a, tt.sourceURL))
		})
	}
}
