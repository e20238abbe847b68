package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// AnalysisRecord is the persisted copy of a finished analysis
type AnalysisRecord struct {
	ID        string                 `json:"id"`
	InputType InputKind              `json:"input_type"`
	Payload   map[string]interface{} `json:"payload"`
	Result    map[string]interface{} `json:"result"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAnalysisRecord converts a request and its result into the stored layout
func NewAnalysisRecord(req AnalysisRequest, result AnalysisResult, now time.Time) (AnalysisRecord, error) {
	doc, err := ToDocument(result)
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("encode result: %w", err)
	}
	payload := req.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return AnalysisRecord{
		InputType: req.Kind,
		Payload:   payload,
		Result:    doc,
		CreatedAt: now.UTC(),
	}, nil
}

// ToDocument converts a JSON-tagged value into a generic map
func ToDocument(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fmtAny(v interface{}) string {
	return fmt.Sprint(v)
}
