package model

// StatusCompleted is the only status a finished analysis reports
const StatusCompleted = "completed"

// SentimentScore is one label/score pair from a sentiment classifier
type SentimentScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentResult wraps the classifier response without interpreting it
type SentimentResult struct {
	Raw interface{} `json:"raw"`
}

// NeutralSentiment is returned when classification is unavailable
func NeutralSentiment() SentimentResult {
	return SentimentResult{Raw: []SentimentScore{{Label: "NEUTRAL", Score: 0.5}}}
}

// EvidenceItem is a source surfaced to the user with an attenuated confidence
type EvidenceItem struct {
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the full response for one request
type AnalysisResult struct {
	Status             string          `json:"status"`
	Summary            string          `json:"summary"`
	Verdict            Verdict         `json:"verdict"`
	Confidence         float64         `json:"confidence"`
	Reasoning          string          `json:"reasoning"`
	Evidence           []EvidenceItem  `json:"evidence"`
	Sentiment          SentimentResult `json:"sentiment"`
	InputType          InputKind       `json:"input_type"`
	AnalyzedTextLength int             `json:"analyzed_text_length"` // Characters, not bytes
}
