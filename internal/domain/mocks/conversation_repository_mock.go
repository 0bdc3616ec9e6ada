package mocks

import (
	"context"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// MockConversationRepository is a mock implementation of domain.ConversationRepository
type MockConversationRepository struct {
	CreateConversationFunc func(ctx context.Context, userID, title string) (*entity.Conversation, error)
	GetConversationFunc    func(ctx context.Context, userID, conversationID string) (*entity.Conversation, error)
	ListConversationsFunc  func(ctx context.Context, userID string, includeArchived bool, offset, limit int) ([]*entity.Conversation, int, error)
	UpdateConversationFunc func(ctx context.Context, userID, conversationID string, title *string, archived *bool) (*entity.Conversation, error)
	DeleteConversationFunc func(ctx context.Context, userID, conversationID string) error
	AddMessageFunc         func(ctx context.Context, msg *entity.Message) (*entity.Message, error)
	ListMessagesFunc       func(ctx context.Context, userID, conversationID string, offset, limit int) ([]*entity.Message, int, error)
}

// CreateConversation mocks the CreateConversation method
func (m *MockConversationRepository) CreateConversation(ctx context.Context, userID, title string) (*entity.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(ctx, userID, title)
	}
	return &entity.Conversation{ID: "conv-1", UserID: userID, Title: title, CreatedAt: time.Now()}, nil
}

// GetConversation mocks the GetConversation method
func (m *MockConversationRepository) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(ctx, userID, conversationID)
	}
	return &entity.Conversation{ID: conversationID, UserID: userID}, nil
}

// ListConversations mocks the ListConversations method
func (m *MockConversationRepository) ListConversations(ctx context.Context, userID string, includeArchived bool, offset, limit int) ([]*entity.Conversation, int, error) {
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(ctx, userID, includeArchived, offset, limit)
	}
	return []*entity.Conversation{}, 0, nil
}

// UpdateConversation mocks the UpdateConversation method
func (m *MockConversationRepository) UpdateConversation(ctx context.Context, userID, conversationID string, title *string, archived *bool) (*entity.Conversation, error) {
	if m.UpdateConversationFunc != nil {
		return m.UpdateConversationFunc(ctx, userID, conversationID, title, archived)
	}
	c := &entity.Conversation{ID: conversationID, UserID: userID}
	if title != nil {
		c.Title = *title
	}
	if archived != nil {
		c.IsArchived = *archived
	}
	return c, nil
}

// DeleteConversation mocks the DeleteConversation method
func (m *MockConversationRepository) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if m.DeleteConversationFunc != nil {
		return m.DeleteConversationFunc(ctx, userID, conversationID)
	}
	return nil
}

// AddMessage mocks the AddMessage method
func (m *MockConversationRepository) AddMessage(ctx context.Context, msg *entity.Message) (*entity.Message, error) {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(ctx, msg)
	}
	out := *msg
	if out.ID == "" {
		out.ID = "msg-1"
	}
	out.CreatedAt = time.Now()
	return &out, nil
}

// ListMessages mocks the ListMessages method
func (m *MockConversationRepository) ListMessages(ctx context.Context, userID, conversationID string, offset, limit int) ([]*entity.Message, int, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, userID, conversationID, offset, limit)
	}
	return []*entity.Message{}, 0, nil
}
