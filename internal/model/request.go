package model

// InputKind identifies what the payload of an AnalysisRequest describes
type InputKind string

const (
	KindURL   InputKind = "url"   // payload["url"] is fetched and scraped
	KindText  InputKind = "text"  // payload["text"] is analyzed as-is
	KindImage InputKind = "image" // not analyzed yet
	KindVideo InputKind = "video" // not analyzed yet
)

// AnalysisRequest is one piece of content submitted for analysis
type AnalysisRequest struct {
	Kind    InputKind              `json:"type"`    // Input kind
	Payload map[string]interface{} `json:"payload"` // Kind-specific fields
}

// NewURLRequest builds a request for a web page
func NewURLRequest(rawURL string) AnalysisRequest {
	return AnalysisRequest{Kind: KindURL, Payload: map[string]interface{}{"url": rawURL}}
}

// NewTextRequest builds a request for raw text
func NewTextRequest(text string) AnalysisRequest {
	return AnalysisRequest{Kind: KindText, Payload: map[string]interface{}{"text": text}}
}

// PayloadString returns payload[key] as a string. Missing or nil values yield "".
func (r AnalysisRequest) PayloadString(key string) string {
	v, ok := r.Payload[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmtAny(v)
}
