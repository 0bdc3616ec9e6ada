package ws

import "github.com/routinnet/routix-platform-ai/internal/domain/entity"

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
	InboundChat   = "chat"
	InboundTyping = "typing"
	InboundPing   = "ping"
)

// Event is the envelope for every frame on a conversation socket.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// MessagePayload carries one stored message.
type MessagePayload struct {
	ID             string              `json:"id"`
	ConversationID string              `json:"conversation_id"`
	Role           string              `json:"role"`
	Content        string              `json:"content"`
	Attachments    []string            `json:"attachments,omitempty"`
	Meta           *entity.MessageMeta `json:"meta,omitempty"`
	CreatedAt      string              `json:"created_at"`
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

// ErrorPayload reports a protocol or processing error to one socket.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Inbound is a frame received from a client socket.
type Inbound struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	IsTyping bool   `json:"is_typing,omitempty"`
}

// NewMessageEvent wraps a stored message for broadcast.
func NewMessageEvent(msg *entity.Message) Event {
	return Event{
		Type: EventMessage,
		Data: &MessagePayload{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			Role:           msg.Role,
			Content:        msg.Content,
			Attachments:    msg.Attachments,
			Meta:           msg.Meta,
			CreatedAt:      msg.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}
}

// NewProcessingEvent wraps a generation state for broadcast.
func NewProcessingEvent(gen *entity.Generation) Event {
	return Event{
		Type: EventProcessing,
		Data: &ProcessingPayload{
			GenerationID: gen.ID,
			Status:       string(gen.Status),
			Message:      processingMessage(gen),
			Progress:     gen.Progress,
			ResultURL:    gen.ResultURL,
			Error:        gen.ErrorMessage,
		},
	}
}

// processingMessage is the human-readable line shown next to the
// progress indicator, keyed to the worker's milestones.
func processingMessage(gen *entity.Generation) string {
	switch gen.Status {
	case entity.StatusQueued:
		return "waiting in queue"
	case entity.StatusProcessing:
		switch {
		case gen.Progress < 30:
			return "analyzing prompt"
		case gen.Progress < 60:
			return "matching template"
		case gen.Progress < 90:
			return "generating image"
		default:
			return "saving result"
		}
	case entity.StatusCompleted:
		return "generation complete"
	case entity.StatusFailed:
		return "generation failed"
	case entity.StatusCancelled:
		return "generation cancelled"
	default:
		return string(gen.Status)
	}
}
