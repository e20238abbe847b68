package credibility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/aletheia/internal/model"
)

func TestParseResponse_Structured(t *testing.T) {
	raw := `VERDICT: Likely False
CONFIDENCE: 0.82

SUMMARY: The article claims a miracle cure.
It cites no studies.

REASONING: No peer-reviewed evidence exists.
Health agencies contradict the claim.

EVIDENCE_SOURCES:
- who.int
* cdc.gov
• nih.gov`

	got := ParseResponse(raw)

	assert.Equal(t, model.VerdictLikelyFalse, got.Verdict)
	assert.InDelta(t, 0.82, got.Confidence, 1e-9)
	assert.Equal(t, "The article claims a miracle cure. It cites no studies.", got.Summary)
	assert.Equal(t, "No peer-reviewed evidence exists. Health agencies contradict the claim.", got.Reasoning)
	assert.Equal(t, []string{"who.int", "cdc.gov", "nih.gov"}, got.EvidenceSources)
}

func TestParseResponse_Defaults(t *testing.T) {
	raw := "I cannot comply with the requested format, but the content looks fine."

	got := ParseResponse(raw)

	assert.Equal(t, model.VerdictUncertain, got.Verdict)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, raw, got.Summary)
	assert.Equal(t, "Analysis completed", got.Reasoning)
	assert.Equal(t, DefaultEvidenceSources, got.EvidenceSources)
}

func TestParseResponse_SummaryFallbackTruncates(t *testing.T) {
	raw := strings.Repeat("é", 250)

	got := ParseResponse(raw)

	assert.Equal(t, 200, len([]rune(got.Summary)))
}

func TestParseResponse_Confidence(t *testing.T) {
	tests := []struct {
		line string
		want float64
	}{
		{"CONFIDENCE: 0.3", 0.3},
		{"CONFIDENCE: 1", 1},
		{"CONFIDENCE: high", 0.5},
		{"CONFIDENCE: 1.7", 0.5},
		{"CONFIDENCE: -0.1", 0.5},
		{"CONFIDENCE:", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseResponse(tt.line).Confidence, 1e-9)
		})
	}
}

func TestParseResponse_VerdictNormalization(t *testing.T) {
	tests := []struct {
		line string
		want model.Verdict
	}{
		{`VERDICT: "Misleading"`, model.VerdictMisleading},
		{"VERDICT: [likely true]", model.VerdictLikelyTrue},
		{"VERDICT: SATIRE", model.VerdictSatire},
		{"VERDICT: probably fine", model.VerdictUncertain},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseResponse(tt.line).Verdict)
		})
	}
}

func TestParseResponse_EvidenceCap(t *testing.T) {
	raw := "EVIDENCE_SOURCES:\n- a.org\n- b.org\n- c.org\n- d.org\n- e.org\n- f.org"

	got := ParseResponse(raw)

	assert.Equal(t, []string{"a.org", "b.org", "c.org", "d.org"}, got.EvidenceSources)
}

func TestParseResponse_InlineEvidence(t *testing.T) {
	got := ParseResponse("EVIDENCE_SOURCES: reuters.com\n- apnews.com")

	assert.Equal(t, []string{"reuters.com", "apnews.com"}, got.EvidenceSources)
}

func TestParseResponse_SectionsSwitch(t *testing.T) {
	raw := "REASONING: first\nmore reasoning\nSUMMARY: short\ntail of summary\nVERDICT: Satire"

	got := ParseResponse(raw)

	assert.Equal(t, "first more reasoning", got.Reasoning)
	assert.Equal(t, "short tail of summary", got.Summary)
	assert.Equal(t, model.VerdictSatire, got.Verdict)
}

func TestBuildPrompt(t *testing.T) {
	withSource := BuildPrompt("Claim text", "https://example.com/a")
	assert.Contains(t, withSource, "Content to analyze:\nClaim text\n\nSource URL: https://example.com/a\n")
	assert.Contains(t, withSource, "EVIDENCE_SOURCES:")

	without := BuildPrompt("Claim text", "")
	assert.NotContains(t, without, "Source URL:")
	assert.True(t, strings.HasPrefix(without, "You are an expert misinformation detection AI."))
}
