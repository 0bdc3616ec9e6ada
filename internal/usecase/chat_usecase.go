package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

const (
	defaultTitle    = "New Conversation"
	historyWindow   = 20
	defaultPageSize = 20
	maxPageSize     = 100
)

type chatUsecase struct {
	convRepo    domain.ConversationRepository
	assistant   domain.AssistantClient
	generations domain.GenerationUsecase
	broadcaster domain.EventBroadcaster
	logger      *slog.Logger
}

// NewChatUsecase wires conversation management and the chat pipeline.
func NewChatUsecase(
	convRepo domain.ConversationRepository,
	assistant domain.AssistantClient,
	generations domain.GenerationUsecase,
	broadcaster domain.EventBroadcaster,
	logger *slog.Logger,
) domain.ChatUsecase {
	return &chatUsecase{
		convRepo:    convRepo,
		assistant:   assistant,
		generations: generations,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (u *chatUsecase) CreateConversation(ctx context.Context, userID, title string) (*entity.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	return u.convRepo.CreateConversation(ctx, userID, title)
}

func (u *chatUsecase) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	return u.convRepo.GetConversation(ctx, userID, conversationID)
}

func (u *chatUsecase) ListConversations(ctx context.Context, userID string, includeArchived bool, page, pageSize int) ([]*entity.Conversation, int, error) {
	offset, limit := paginate(page, pageSize)
	return u.convRepo.ListConversations(ctx, userID, includeArchived, offset, limit)
}

func (u *chatUsecase) UpdateConversation(ctx context.Context, userID, conversationID string, title *string, archived *bool) (*entity.Conversation, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, domain.NewInvalidInputError("title must not be empty")
		}
		title = &trimmed
	}
	return u.convRepo.UpdateConversation(ctx, userID, conversationID, title, archived)
}

func (u *chatUsecase) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	return u.convRepo.DeleteConversation(ctx, userID, conversationID)
}

func (u *chatUsecase) ListMessages(ctx context.Context, userID, conversationID string, page, pageSize int) ([]*entity.Message, int, error) {
	offset, limit := paginate(page, pageSize)
	return u.convRepo.ListMessages(ctx, userID, conversationID, offset, limit)
}

// SendMessage runs one chat round trip. The stored user message and the
// assistant reply are both broadcast to the conversation's sockets; a
// generation is started when the assistant detects the intent.
func (u *chatUsecase) SendMessage(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.NewInvalidInputError("message content must not be empty")
	}

	conv, isNew, err := u.resolveConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	userMsg, err := u.convRepo.AddMessage(ctx, &entity.Message{
		ConversationID: conv.ID,
		Role:           entity.RoleUser,
		Content:        content,
		Attachments:    req.Attachments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}
	u.broadcaster.BroadcastMessage(conv.ID, userMsg)

	// First user message names the thread.
	if isNew || conv.Title == defaultTitle {
		title := entity.TitleFromMessage(content)
		if updated, err := u.convRepo.UpdateConversation(ctx, req.UserID, conv.ID, &title, nil); err == nil {
			conv = updated
		}
	}

	history, _, err := u.convRepo.ListMessages(ctx, req.UserID, conv.ID, 0, historyWindow)
	if err != nil {
		u.logger.Warn("failed to load history for intent analysis", "error", err)
		history = nil
	}

	analysis, err := u.assistant.AnalyzeIntent(ctx, content, history)
	if err != nil {
		u.logger.Error("intent analysis failed", "error", err, "conversation_id", conv.ID)
		analysis = &domain.IntentAnalysis{
			Reply: "Sorry, I could not process that right now. Please try again.",
		}
	}

	var gen *entity.Generation
	meta := &entity.MessageMeta{Analysis: true}
	if analysis.WantsGeneration {
		algorithm := analysis.Style
		if algorithm == "" {
			algorithm = "basic"
		}
		gen, err = u.generations.Start(ctx, &domain.GenerationRequest{
			UserID:          req.UserID,
			ConversationID:  conv.ID,
			Algorithm:       algorithm,
			Prompt:          analysis.Prompt,
			ReferenceImages: req.Attachments,
		})
		if err != nil {
			// The reply still goes out; the user learns why the job
			// did not start.
			u.logger.Warn("failed to start generation from chat", "error", err, "conversation_id", conv.ID)
			var de *domain.DomainError
			if errors.As(err, &de) {
				analysis.Reply = de.UserMessage()
			}
		} else {
			meta.RequiresGeneration = true
			meta.GenerationID = gen.ID
		}
	}

	reply := analysis.Reply
	if reply == "" {
		reply = "Done."
	}
	assistantMsg, err := u.convRepo.AddMessage(ctx, &entity.Message{
		ConversationID: conv.ID,
		Role:           entity.RoleAssistant,
		Content:        reply,
		Meta:           meta,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}
	u.broadcaster.BroadcastMessage(conv.ID, assistantMsg)

	return &domain.ChatResult{
		Conversation: conv,
		UserMessage:  userMsg,
		Assistant:    assistantMsg,
		Generation:   gen,
	}, nil
}

func (u *chatUsecase) resolveConversation(ctx context.Context, req *domain.ChatRequest) (*entity.Conversation, bool, error) {
	if req.ConversationID != "" {
		conv, err := u.convRepo.GetConversation(ctx, req.UserID, req.ConversationID)
		return conv, false, err
	}
	conv, err := u.convRepo.CreateConversation(ctx, req.UserID, defaultTitle)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, true, nil
}

func paginate(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return (page - 1) * pageSize, pageSize
}
