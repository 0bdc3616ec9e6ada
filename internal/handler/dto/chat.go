package dto

import (
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// CreateConversationRequest opens a new thread.
type CreateConversationRequest struct {
	Title string `json:"title,omitempty"`
}

// UpdateConversationRequest renames or archives a thread.
type UpdateConversationRequest struct {
	Title    *string `json:"title,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
}

// SendMessageRequest is one user message entering the chat.
type SendMessageRequest struct {
	ConversationID string   `json:"conversation_id,omitempty"`
	Content        string   `json:"content"`
	Attachments    []string `json:"attachments,omitempty"`
}

// ConversationResponse is the public view of a thread.
type ConversationResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	IsArchived    bool   `json:"is_archived"`
	MessageCount  int    `json:"message_count"`
	LastMessageAt string `json:"last_message_at"`
	CreatedAt     string `json:"created_at"`
}

// MessageResponse is the public view of one message.
type MessageResponse struct {
	ID             string              `json:"id"`
	ConversationID string              `json:"conversation_id"`
	Role           string              `json:"role"`
	Content        string              `json:"content"`
	Attachments    []string            `json:"attachments,omitempty"`
	Meta           *entity.MessageMeta `json:"meta,omitempty"`
	CreatedAt      string              `json:"created_at"`
}

// ChatResponse is the result of one chat round trip.
type ChatResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	UserMessage  MessageResponse      `json:"user_message"`
	Assistant    MessageResponse      `json:"assistant_message"`
	Generation   *GenerationResponse  `json:"generation,omitempty"`
}

func ToConversationResponse(c *entity.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		Title:         c.Title,
		IsArchived:    c.IsArchived,
		MessageCount:  c.MessageCount,
		LastMessageAt: c.LastMessageAt.Format(time.RFC3339),
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

func ToConversationListResponse(items []*entity.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, len(items))
	for i, c := range items {
		out[i] = ToConversationResponse(c)
	}
	return out
}

func ToMessageResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		Attachments:    m.Attachments,
		Meta:           m.Meta,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

func ToMessageListResponse(items []*entity.Message) []MessageResponse {
	out := make([]MessageResponse, len(items))
	for i, m := range items {
		out[i] = ToMessageResponse(m)
	}
	return out
}
