package realtime

import (
	"encoding/json"

	"github.com/bytedance/sonic"

	"github.com/routinnet/routix-platform-ai/internal/cli/types"
)

// Server-to-client event types.
const (
	EventMessage          = "message"
	EventTyping           = "typing"
	EventProcessing       = "processing"
	EventError            = "error"
	EventConnection       = "connection"
	EventPong             = "pong"
	EventUserDisconnected = "user_disconnected"
)

// Client-to-server event types.
const (
	OutboundChat   = "chat"
	OutboundTyping = "typing"
	OutboundPing   = "ping"
)

// Event is the envelope for every frame on a conversation socket. The
// payload stays raw until the type tag is known.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// TypingPayload signals another participant's typing state.
type TypingPayload struct {
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

// ProcessingPayload reflects a generation status change.
type ProcessingPayload struct {
	GenerationID string `json:"generation_id"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	Progress     int    `json:"progress"`
	ResultURL    string `json:"result_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ConnectionPayload acknowledges a successful attach.
type ConnectionPayload struct {
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id"`
}

// ErrorPayload reports a protocol or processing error.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Outbound is a frame sent to the server.
type Outbound struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	IsTyping bool   `json:"is_typing,omitempty"`
}

// Message decodes the payload of a "message" event.
func (e Event) Message() (types.Message, error) {
	var msg types.Message
	err := sonic.Unmarshal(e.Data, &msg)
	return msg, err
}

// Typing decodes the payload of a "typing" event.
func (e Event) Typing() (TypingPayload, error) {
	var p TypingPayload
	err := sonic.Unmarshal(e.Data, &p)
	return p, err
}

// Processing decodes the payload of a "processing" event.
func (e Event) Processing() (ProcessingPayload, error) {
	var p ProcessingPayload
	err := sonic.Unmarshal(e.Data, &p)
	return p, err
}

// ErrorMessage decodes the payload of an "error" event.
func (e Event) ErrorMessage() string {
	var p ErrorPayload
	if err := sonic.Unmarshal(e.Data, &p); err != nil {
		return ""
	}
	return p.Message
}
