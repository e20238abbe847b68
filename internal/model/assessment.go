package model

import "strings"

// Verdict is the credibility classification of analyzed content
type Verdict string

const (
	VerdictLikelyTrue  Verdict = "Likely True"
	VerdictLikelyFalse Verdict = "Likely False"
	VerdictMisleading  Verdict = "Misleading"
	VerdictUncertain   Verdict = "Uncertain"
	VerdictSatire      Verdict = "Satire"
	VerdictUnknown     Verdict = "Unknown" // capability unavailable or failed
)

var knownVerdicts = []Verdict{
	VerdictLikelyTrue,
	VerdictLikelyFalse,
	VerdictMisleading,
	VerdictUncertain,
	VerdictSatire,
	VerdictUnknown,
}

// ParseVerdict maps free-form model output onto a Verdict.
// Matching ignores case, surrounding quotes and brackets.
func ParseVerdict(s string) (Verdict, bool) {
	s = strings.Trim(strings.TrimSpace(s), "\"'[]*`.")
	s = strings.Join(strings.Fields(s), " ")
	for _, v := range knownVerdicts {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	return VerdictUncertain, false
}

// CredibilityAssessment is the parsed output of the generative model
type CredibilityAssessment struct {
	Verdict         Verdict  `json:"verdict"`
	Confidence      float64  `json:"confidence"`       // 0.0 - 1.0
	Summary         string   `json:"summary"`
	Reasoning       string   `json:"reasoning"`
	EvidenceSources []string `json:"evidence_sources"` // At most 4 entries
}
