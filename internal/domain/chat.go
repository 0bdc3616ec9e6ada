package domain

import (
	"context"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// ============ Usecase-internal DTOs ============

// ChatRequest is a user message entering the chat pipeline.
type ChatRequest struct {
	UserID         string
	ConversationID string
	Content        string
	Attachments    []string
}

// ChatResult is everything produced by one chat round trip: the stored
// user message, the assistant reply, and the generation kicked off when
// the message asked for one.
type ChatResult struct {
	Conversation *entity.Conversation
	UserMessage  *entity.Message
	Assistant    *entity.Message
	Generation   *entity.Generation
}

// IntentAnalysis is what the assistant inferred from a user message.
type IntentAnalysis struct {
	WantsGeneration bool
	Prompt          string
	Style           string
	Reply           string
}

// ============ Repository interfaces ============

// ConversationRepository stores conversations and their messages.
type ConversationRepository interface {
	// CreateConversation opens a new thread for the user.
	CreateConversation(ctx context.Context, userID, title string) (*entity.Conversation, error)

	// GetConversation fetches one thread, scoped to its owner.
	GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error)

	// ListConversations returns the user's threads, most recent first.
	ListConversations(ctx context.Context, userID string, includeArchived bool, offset, limit int) ([]*entity.Conversation, int, error)

	// UpdateConversation applies title and archive changes.
	UpdateConversation(ctx context.Context, userID, conversationID string, title *string, archived *bool) (*entity.Conversation, error)

	// DeleteConversation removes the thread and its messages.
	DeleteConversation(ctx context.Context, userID, conversationID string) error

	// AddMessage appends a message and bumps the thread's counters.
	AddMessage(ctx context.Context, msg *entity.Message) (*entity.Message, error)

	// ListMessages returns a thread's messages in creation order.
	ListMessages(ctx context.Context, userID, conversationID string, offset, limit int) ([]*entity.Message, int, error)
}

// AssistantClient talks to the language model behind the chat.
type AssistantClient interface {
	// AnalyzeIntent classifies a user message and drafts the reply.
	AnalyzeIntent(ctx context.Context, content string, history []*entity.Message) (*IntentAnalysis, error)
}

// ============ Usecase interfaces ============

// ChatUsecase implements conversation and message handling.
type ChatUsecase interface {
	// CreateConversation opens a thread with an optional title.
	CreateConversation(ctx context.Context, userID, title string) (*entity.Conversation, error)

	// GetConversation fetches one thread.
	GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error)

	// ListConversations pages through the user's threads.
	ListConversations(ctx context.Context, userID string, includeArchived bool, page, pageSize int) ([]*entity.Conversation, int, error)

	// UpdateConversation renames or archives a thread.
	UpdateConversation(ctx context.Context, userID, conversationID string, title *string, archived *bool) (*entity.Conversation, error)

	// DeleteConversation removes a thread.
	DeleteConversation(ctx context.Context, userID, conversationID string) error

	// ListMessages pages through a thread's history.
	ListMessages(ctx context.Context, userID, conversationID string, page, pageSize int) ([]*entity.Message, int, error)

	// SendMessage runs one chat round trip: stores the user message,
	// consults the assistant, stores the reply, and starts a generation
	// when the message asks for one.
	SendMessage(ctx context.Context, req *ChatRequest) (*ChatResult, error)
}
