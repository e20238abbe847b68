// Package credibility asks a generative model for a verdict on content and
// turns its labelled reply into a CredibilityAssessment.
package credibility

import (
	"context"
	"fmt"

	"github.com/ppiankov/aletheia/internal/llm"
	"github.com/ppiankov/aletheia/internal/model"
)

const (
	unconfiguredSummary   = "Generative model not configured. Cannot analyze content."
	unconfiguredReasoning = "API key missing"
	failedReasoning       = "Failed to complete analysis"
)

// Analyzer produces credibility assessments through an llm.Provider
type Analyzer struct {
	provider llm.Provider
}

// NewAnalyzer creates an analyzer. A nil provider marks the capability as
// unconfigured and every call returns the skipped default.
func NewAnalyzer(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Configured reports whether a provider is available
func (a *Analyzer) Configured() bool {
	return a != nil && a.provider != nil
}

// Analyze assesses text, mentioning sourceURL in the prompt when set
func (a *Analyzer) Analyze(ctx context.Context, text, sourceURL string) model.Outcome[model.CredibilityAssessment] {
	if !a.Configured() {
		return model.Skipped(Unconfigured())
	}

	resp, err := a.provider.Generate(ctx, llm.GenerateRequest{
		Prompt: BuildPrompt(text, sourceURL),
	})
	if err != nil {
		return model.Failed(Failure(err), fmt.Errorf("generate assessment: %w", err))
	}

	return model.Succeeded(ParseResponse(resp.Text))
}

// Unconfigured is the assessment returned when no provider is set
func Unconfigured() model.CredibilityAssessment {
	return model.CredibilityAssessment{
		Verdict:         model.VerdictUnknown,
		Confidence:      0,
		Summary:         unconfiguredSummary,
		Reasoning:       unconfiguredReasoning,
		EvidenceSources: []string{},
	}
}

// Failure is the assessment returned when the provider call fails
func Failure(err error) model.CredibilityAssessment {
	return model.CredibilityAssessment{
		Verdict:         model.VerdictUnknown,
		Confidence:      0,
		Summary:         fmt.Sprintf("Analysis error: %v", err),
		Reasoning:       failedReasoning,
		EvidenceSources: []string{},
	}
}
