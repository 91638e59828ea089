package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeAnalyze MessageType = "analyze"

	// Server to client messages
	MessageTypeResult    MessageType = "result"
	MessageTypeCancelled MessageType = "cancelled"
	MessageTypeError     MessageType = "error"
)

// Error codes carried in ErrorData.
const (
	ErrorCodeInvalidMessage           = "invalid_message"
	ErrorCodeUnknownMessageType       = "unknown_message_type"
	ErrorCodeInvalidBoard             = "invalid_board"
	ErrorCodeInsufficientCombinations = "insufficient_combinations"
	ErrorCodeAnalysisFailed           = "analysis_failed"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
