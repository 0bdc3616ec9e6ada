package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/handler/dto"
)

// ChatHandler handles conversation and message endpoints.
type ChatHandler struct {
	usecase domain.ChatUsecase
	logger  *slog.Logger
}

func NewChatHandler(usecase domain.ChatUsecase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{usecase: usecase, logger: logger}
}

// CreateConversation handles POST /conversations.
func (h *ChatHandler) CreateConversation(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	var req dto.CreateConversationRequest
	if err := c.BindJSON(&req); err != nil {
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	conv, err := h.usecase.CreateConversation(ctx, userID, req.Title)
	if err != nil {
		h.logger.Error("failed to create conversation", "error", err, "user_id", userID)
		ErrorResponse(c, err)
		return
	}

	CreatedResponse(c, dto.ToConversationResponse(conv))
}

// ListConversations handles GET /conversations.
func (h *ChatHandler) ListConversations(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	page, pageSize := parsePagination(c)
	includeArchived := c.DefaultQuery("include_archived", "false") == "true"

	items, total, err := h.usecase.ListConversations(ctx, userID, includeArchived, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list conversations", "error", err, "user_id", userID)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, ListResponse{
		Items:      dto.ToConversationListResponse(items),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetConversation handles GET /conversations/:id.
func (h *ChatHandler) GetConversation(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	conv, err := h.usecase.GetConversation(ctx, userID, c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToConversationResponse(conv))
}

// UpdateConversation handles PATCH /conversations/:id.
func (h *ChatHandler) UpdateConversation(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	var req dto.UpdateConversationRequest
	if err := c.BindJSON(&req); err != nil {
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	conv, err := h.usecase.UpdateConversation(ctx, userID, c.Param("id"), req.Title, req.Archived)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToConversationResponse(conv))
}

// DeleteConversation handles DELETE /conversations/:id.
func (h *ChatHandler) DeleteConversation(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	if err := h.usecase.DeleteConversation(ctx, userID, c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}

	NoContentResponse(c)
}

// ListMessages handles GET /conversations/:id/messages.
func (h *ChatHandler) ListMessages(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	page, pageSize := parsePagination(c)

	items, total, err := h.usecase.ListMessages(ctx, userID, c.Param("id"), page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, ListResponse{
		Items:      dto.ToMessageListResponse(items),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// SendMessage handles POST /chat. It is the HTTP twin of the websocket
// chat frame and returns both sides of the round trip.
func (h *ChatHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	var req dto.SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	res, err := h.usecase.SendMessage(ctx, &domain.ChatRequest{
		UserID:         userID,
		ConversationID: req.ConversationID,
		Content:        req.Content,
		Attachments:    req.Attachments,
	})
	if err != nil {
		h.logger.Warn("chat message failed", "error", err, "user_id", userID)
		ErrorResponse(c, err)
		return
	}

	resp := dto.ChatResponse{
		Conversation: dto.ToConversationResponse(res.Conversation),
		UserMessage:  dto.ToMessageResponse(res.UserMessage),
		Assistant:    dto.ToMessageResponse(res.Assistant),
	}
	if res.Generation != nil {
		gen := dto.ToGenerationResponse(res.Generation)
		resp.Generation = &gen
	}
	SuccessResponse(c, resp)
}

func parsePagination(c *app.RequestContext) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
