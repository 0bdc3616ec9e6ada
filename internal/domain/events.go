package domain

import "github.com/routinnet/routix-platform-ai/internal/domain/entity"

// EventBroadcaster pushes realtime events to the sockets attached to a
// conversation. Implementations must never block the caller.
type EventBroadcaster interface {
	// BroadcastMessage announces a stored message to a conversation.
	BroadcastMessage(conversationID string, msg *entity.Message)

	// BroadcastProcessing announces a generation status change. The
	// conversation id may be empty for jobs started outside a chat.
	BroadcastProcessing(conversationID string, gen *entity.Generation)

	// BroadcastTyping relays a typing indicator to other participants.
	BroadcastTyping(conversationID, userID string, typing bool)
}

// NopBroadcaster discards all events. Used in tests and by the CLI
// server-less paths.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastMessage(string, *entity.Message)       {}
func (NopBroadcaster) BroadcastProcessing(string, *entity.Generation) {}
func (NopBroadcaster) BroadcastTyping(string, string, bool)           {}
