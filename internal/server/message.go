package server

import (
	"encoding/json"
	"time"

	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/poker"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with now
func NewMessage(messageType MessageType, requestID string, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
		RequestID: requestID,
	}, nil
}

// Client → Server Messages

// AnalyzeData asks for one range-versus-range evaluation. Ranges accept
// either notation strings or grid selection maps; an empty villain range
// means any two cards.
type AnalyzeData struct {
	HeroRange    ranges.Range `json:"heroRange"`
	VillainRange ranges.Range `json:"villainRange"`
	Board        []poker.Card `json:"board"`
	Seed         *int64       `json:"seed,omitempty"`
	Trials       int          `json:"trials,omitempty"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CancelledData struct {
	RequestID string `json:"requestId"`
}

// HTTP bodies

type SaveScenarioRequest struct {
	Name         string       `json:"name"`
	HeroRange    ranges.Range `json:"heroRange"`
	VillainRange ranges.Range `json:"villainRange"`
}

type AnalyzeBoardRequest struct {
	Base64Image string `json:"base64Image"`
}

type errorResponse struct {
	Error string `json:"error"`
}
