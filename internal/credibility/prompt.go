package credibility

import (
	"fmt"
	"strings"
)

const instructionTemplate = `You are an expert misinformation detection AI. Analyze the following content for credibility, bias, and potential misinformation.

Content to analyze:
%s%s

Provide your analysis in the following format:

VERDICT: [Choose one: "Likely True" / "Likely False" / "Misleading" / "Uncertain" / "Satire"]

CONFIDENCE: [0.0 to 1.0]

SUMMARY: [2-3 sentence summary of the main claims]

REASONING: [Detailed explanation of why you reached this verdict, including:
- Factual accuracy assessment
- Source credibility indicators
- Potential bias or manipulation
- Red flags or supporting evidence
- Cross-verification suggestions]

EVIDENCE_SOURCES: [List 2-4 suggested reputable sources to verify these claims, one per line]

Keep your response factual, objective, and actionable.`

// BuildPrompt renders the analysis instruction for text.
// The source line is omitted when sourceURL is empty.
func BuildPrompt(text, sourceURL string) string {
	source := ""
	if strings.TrimSpace(sourceURL) != "" {
		source = "\n\nSource URL: " + sourceURL
	}
	return fmt.Sprintf(instructionTemplate, text, source)
}
