package models

import "encoding/json"

// Message types understood by the background handler.
const (
	MessageAnalyzeChart = "ANALYZE_CHART"
	MessageLogAction    = "LOG_ACTION"
)

// Request is the envelope sent from the widget to the background process.
type Request struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the envelope returned by the background process.
type Response struct {
	Success bool            `json:"success"`
	Result  *AnalysisResult `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Status  string          `json:"status,omitempty"`
}

// NewRequest marshals payload into a Request envelope.
func NewRequest(msgType, id string, payload any) (Request, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Request{}, err
	}
	return Request{Type: msgType, ID: id, Payload: raw}, nil
}
