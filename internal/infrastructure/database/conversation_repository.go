package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository returns the GORM-backed domain.ConversationRepository.
func NewConversationRepository(db *gorm.DB) domain.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) CreateConversation(ctx context.Context, userID, title string) (*entity.Conversation, error) {
	now := time.Now()
	m := &conversationModel{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         title,
		LastMessageAt: now,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return toConversationEntity(m), nil
}

func (r *conversationRepository) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	var m conversationModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Conversation", conversationID)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return toConversationEntity(&m), nil
}

func (r *conversationRepository) ListConversations(ctx context.Context, userID string, includeArchived bool, offset, limit int) ([]*entity.Conversation, int, error) {
	q := r.db.WithContext(ctx).Model(&conversationModel{}).Where("user_id = ?", userID)
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	var models []conversationModel
	err := q.Order("last_message_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}

	result := make([]*entity.Conversation, len(models))
	for i := range models {
		result[i] = toConversationEntity(&models[i])
	}
	return result, int(total), nil
}

func (r *conversationRepository) UpdateConversation(ctx context.Context, userID, conversationID string, title *string, archived *bool) (*entity.Conversation, error) {
	updates := map[string]any{}
	if title != nil {
		updates["title"] = *title
	}
	if archived != nil {
		updates["is_archived"] = *archived
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&conversationModel{}).
			Where("id = ? AND user_id = ?", conversationID, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update conversation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, domain.NewNotFoundError("Conversation", conversationID)
		}
	}
	return r.GetConversation(ctx, userID, conversationID)
}

func (r *conversationRepository) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", conversationID, userID).
			Delete(&conversationModel{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete conversation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("Conversation", conversationID)
		}
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&messageModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		return nil
	})
}

// AddMessage appends the message and bumps the thread's counters in one
// transaction.
func (r *conversationRepository) AddMessage(ctx context.Context, msg *entity.Message) (*entity.Message, error) {
	out := *msg
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}

	m, err := toMessageModel(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		res := tx.Model(&conversationModel{}).
			Where("id = ?", out.ConversationID).
			Updates(map[string]any{
				"message_count":   gorm.Expr("message_count + 1"),
				"last_message_at": out.CreatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to bump conversation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("Conversation", out.ConversationID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, userID, conversationID string, offset, limit int) ([]*entity.Message, int, error) {
	// Ownership check before exposing messages.
	if _, err := r.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Model(&messageModel{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var models []messageModel
	err := q.Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	result := make([]*entity.Message, len(models))
	for i := range models {
		result[i] = toMessageEntity(&models[i])
	}
	return result, int(total), nil
}
