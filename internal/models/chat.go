package models

import "encoding/json"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Value json.RawMessage `json:"value"`
	UID   string          `json:"uid"`
}

// RequestEnvelope is the wire format published to the chat topic.
type RequestEnvelope struct {
	UID       string `json:"uid"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ResponseEnvelope is the wire format published to the response topic.
// Response holds either a RankedResult or the out-of-scope default payload;
// consumers discriminate on the presence of the "products" key.
type ResponseEnvelope struct {
	UID       string          `json:"uid"`
	Response  json.RawMessage `json:"response"`
	Timestamp string          `json:"timestamp"`
}

// DefaultPayload is returned when the relevance gate rejects a query.
type DefaultPayload struct {
	Default string `json:"default"`
}
