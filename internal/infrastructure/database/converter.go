package database

import (
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// Converters between GORM models and domain entities. JSON columns are
// decoded here once so the rest of the code works with typed values.

func toUserEntity(m *userModel) *entity.User {
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Credits:      m.Credits,
		Tier:         entity.SubscriptionTier(m.Tier),
		IsActive:     m.IsActive,
		IsVerified:   m.IsVerified,
		LastLoginAt:  m.LastLoginAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toConversationEntity(m *conversationModel) *entity.Conversation {
	return &entity.Conversation{
		ID:            m.ID,
		UserID:        m.UserID,
		Title:         m.Title,
		IsArchived:    m.IsArchived,
		MessageCount:  m.MessageCount,
		LastMessageAt: m.LastMessageAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toMessageEntity(m *messageModel) *entity.Message {
	msg := &entity.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.Attachments) > 0 {
		_ = sonic.Unmarshal(m.Attachments, &msg.Attachments)
	}
	if len(m.Meta) > 0 {
		var meta entity.MessageMeta
		if err := sonic.Unmarshal(m.Meta, &meta); err == nil {
			msg.Meta = &meta
		}
	}
	return msg
}

func toMessageModel(msg *entity.Message) (*messageModel, error) {
	m := &messageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
	if len(msg.Attachments) > 0 {
		b, err := sonic.Marshal(msg.Attachments)
		if err != nil {
			return nil, err
		}
		m.Attachments = datatypes.JSON(b)
	}
	if msg.Meta != nil {
		b, err := sonic.Marshal(msg.Meta)
		if err != nil {
			return nil, err
		}
		m.Meta = datatypes.JSON(b)
	}
	return m, nil
}

func toGenerationEntity(m *generationModel) *entity.Generation {
	g := &entity.Generation{
		ID:             m.ID,
		UserID:         m.UserID,
		ConversationID: m.ConversationID,
		AlgorithmID:    m.AlgorithmID,
		Prompt:         m.Prompt,
		Status:         entity.GenerationStatus(m.Status),
		Progress:       m.Progress,
		ErrorMessage:   m.ErrorMessage,
		ResultURL:      m.ResultURL,
		CreditsUsed:    m.CreditsUsed,
		CreatedAt:      m.CreatedAt,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
	}
	if len(m.ReferenceImages) > 0 {
		_ = sonic.Unmarshal(m.ReferenceImages, &g.ReferenceImages)
	}
	if len(m.Parameters) > 0 {
		_ = sonic.Unmarshal(m.Parameters, &g.Parameters)
	}
	if len(m.ResultMeta) > 0 {
		_ = sonic.Unmarshal(m.ResultMeta, &g.ResultMeta)
	}
	return g
}

func toGenerationModel(g *entity.Generation) (*generationModel, error) {
	m := &generationModel{
		ID:             g.ID,
		UserID:         g.UserID,
		ConversationID: g.ConversationID,
		AlgorithmID:    g.AlgorithmID,
		Prompt:         g.Prompt,
		Status:         string(g.Status),
		Progress:       g.Progress,
		ErrorMessage:   g.ErrorMessage,
		ResultURL:      g.ResultURL,
		CreditsUsed:    g.CreditsUsed,
		CreatedAt:      g.CreatedAt,
		StartedAt:      g.StartedAt,
		CompletedAt:    g.CompletedAt,
	}
	if len(g.ReferenceImages) > 0 {
		b, err := sonic.Marshal(g.ReferenceImages)
		if err != nil {
			return nil, err
		}
		m.ReferenceImages = datatypes.JSON(b)
	}
	if len(g.Parameters) > 0 {
		b, err := sonic.Marshal(g.Parameters)
		if err != nil {
			return nil, err
		}
		m.Parameters = datatypes.JSON(b)
	}
	if len(g.ResultMeta) > 0 {
		b, err := sonic.Marshal(g.ResultMeta)
		if err != nil {
			return nil, err
		}
		m.ResultMeta = datatypes.JSON(b)
	}
	return m, nil
}

func toAlgorithmEntity(m *algorithmModel) *entity.Algorithm {
	a := &entity.Algorithm{
		ID:          m.ID,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Description: m.Description,
		CostCredits: m.CostCredits,
		IsActive:    m.IsActive,
	}
	if len(m.Parameters) > 0 {
		_ = sonic.Unmarshal(m.Parameters, &a.Parameters)
	}
	return a
}

func toCreditTransactionEntity(m *creditTransactionModel) *entity.CreditTransaction {
	return &entity.CreditTransaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		ReferenceID: m.ReferenceID,
		CreatedAt:   m.CreatedAt,
	}
}
