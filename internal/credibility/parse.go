package credibility

import (
	"strconv"
	"strings"

	"github.com/ppiankov/aletheia/internal/model"
)

const (
	labelVerdict    = "VERDICT:"
	labelConfidence = "CONFIDENCE:"
	labelSummary    = "SUMMARY:"
	labelReasoning  = "REASONING:"
	labelEvidence   = "EVIDENCE_SOURCES:"

	defaultConfidence = 0.5
	maxEvidence       = 4
	summaryFallback   = 200
	defaultReasoning  = "Analysis completed"
)

// DefaultEvidenceSources are suggested when the reply lists none
var DefaultEvidenceSources = []string{"factcheck.org", "snopes.com", "politifact.com"}

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionReasoning
	sectionEvidence
)

// ParseResponse extracts an assessment from a free-form model reply.
// It never fails: missing fields fall back to defaults and unrecognised
// lines are attached to the section that is currently open.
func ParseResponse(raw string) model.CredibilityAssessment {
	out := model.CredibilityAssessment{
		Verdict:    model.VerdictUncertain,
		Confidence: defaultConfidence,
	}

	var summary, reasoning []string
	var evidence []string
	current := sectionNone

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, labelVerdict):
			out.Verdict, _ = model.ParseVerdict(strings.TrimPrefix(line, labelVerdict))

		case strings.HasPrefix(line, labelConfidence):
			out.Confidence = parseConfidence(strings.TrimPrefix(line, labelConfidence))

		case strings.HasPrefix(line, labelSummary):
			current = sectionSummary
			summary = appendNonEmpty(summary, strings.TrimPrefix(line, labelSummary))

		case strings.HasPrefix(line, labelReasoning):
			current = sectionReasoning
			reasoning = appendNonEmpty(reasoning, strings.TrimPrefix(line, labelReasoning))

		case strings.HasPrefix(line, labelEvidence):
			current = sectionEvidence
			evidence = appendNonEmpty(evidence, evidenceItem(strings.TrimPrefix(line, labelEvidence)))

		case line == "":

		case current == sectionSummary:
			summary = append(summary, line)

		case current == sectionReasoning:
			reasoning = append(reasoning, line)

		case current == sectionEvidence:
			evidence = appendNonEmpty(evidence, evidenceItem(line))
		}
	}

	out.Summary = strings.Join(summary, " ")
	if out.Summary == "" {
		out.Summary = truncateRunes(raw, summaryFallback)
	}

	out.Reasoning = strings.Join(reasoning, " ")
	if out.Reasoning == "" {
		out.Reasoning = defaultReasoning
	}

	if len(evidence) == 0 {
		out.EvidenceSources = append([]string(nil), DefaultEvidenceSources...)
	} else {
		if len(evidence) > maxEvidence {
			evidence = evidence[:maxEvidence]
		}
		out.EvidenceSources = evidence
	}

	return out
}

// parseConfidence accepts a number in [0,1]; anything else yields the default
func parseConfidence(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 1 {
		return defaultConfidence
	}
	return v
}

func evidenceItem(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "-*• "))
}

func appendNonEmpty(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return list
	}
	return append(list, s)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
