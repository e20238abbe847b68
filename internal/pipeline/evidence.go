package pipeline

import (
	"math"

	"github.com/ppiankov/aletheia/internal/model"
)

const (
	maxSuggestedSources = 4
	maxEvidenceItems    = 5
	sourceURLThreshold  = 0.3
	evidenceStep        = 0.05
	minEvidenceConf     = 0.1
	maxEvidenceConf     = 0.99
)

// SynthesizeEvidence turns suggested sources into evidence items.
// Source i gets confidence c + i*0.05 - 0.05 clamped to [0.1, 0.99]. The
// analyzed URL leads the list with confidence c when c exceeds 0.3.
func SynthesizeEvidence(a model.CredibilityAssessment, sourceURL string) []model.EvidenceItem {
	items := make([]model.EvidenceItem, 0, maxEvidenceItems)

	if sourceURL != "" && a.Confidence > sourceURLThreshold {
		items = append(items, model.EvidenceItem{Source: sourceURL, Confidence: round2(a.Confidence)})
	}

	for i, src := range a.EvidenceSources {
		if i >= maxSuggestedSources {
			break
		}
		c := a.Confidence + float64(i)*evidenceStep - evidenceStep
		items = append(items, model.EvidenceItem{
			Source:     src,
			Confidence: round2(clamp(c, minEvidenceConf, maxEvidenceConf)),
		})
	}

	if len(items) > maxEvidenceItems {
		items = items[:maxEvidenceItems]
	}
	return items
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// round2 rounds half to even, so 0.625 becomes 0.62
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
