package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
	"github.com/routinnet/routix-platform-ai/internal/handler/dto"
)

// GenerationHandler handles generation and credit endpoints.
type GenerationHandler struct {
	generations domain.GenerationUsecase
	credits     domain.CreditUsecase
	logger      *slog.Logger
}

func NewGenerationHandler(generations domain.GenerationUsecase, credits domain.CreditUsecase, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{generations: generations, credits: credits, logger: logger}
}

// Start handles POST /generations.
func (h *GenerationHandler) Start(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	var req dto.StartGenerationRequest
	if err := c.BindJSON(&req); err != nil {
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	gen, err := h.generations.Start(ctx, &domain.GenerationRequest{
		UserID:          userID,
		ConversationID:  req.ConversationID,
		Algorithm:       req.Algorithm,
		Prompt:          req.Prompt,
		ReferenceImages: req.ReferenceImages,
		Parameters:      req.Parameters,
	})
	if err != nil {
		h.logger.Warn("failed to start generation", "error", err, "user_id", userID)
		ErrorResponse(c, err)
		return
	}

	CreatedResponse(c, dto.ToGenerationResponse(gen))
}

// Get handles GET /generations/:id.
func (h *GenerationHandler) Get(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	gen, err := h.generations.Get(ctx, userID, c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToGenerationResponse(gen))
}

// List handles GET /generations with an optional status filter.
func (h *GenerationHandler) List(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	page, pageSize := parsePagination(c)
	status := entity.GenerationStatus(c.Query("status"))

	items, total, err := h.generations.List(ctx, userID, status, page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, ListResponse{
		Items:      dto.ToGenerationListResponse(items),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Cancel handles POST /generations/:id/cancel.
func (h *GenerationHandler) Cancel(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	gen, err := h.generations.Cancel(ctx, userID, c.Param("id"))
	if err != nil {
		h.logger.Warn("failed to cancel generation", "error", err, "user_id", userID)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToGenerationResponse(gen))
}

// Stats handles GET /generations/stats.
func (h *GenerationHandler) Stats(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	stats, err := h.generations.Stats(ctx, userID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToStatsResponse(stats))
}

// ListAlgorithms handles GET /algorithms.
func (h *GenerationHandler) ListAlgorithms(ctx context.Context, c *app.RequestContext) {
	algos, err := h.generations.ListAlgorithms(ctx)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToAlgorithmListResponse(algos))
}

// Balance handles GET /credits/balance.
func (h *GenerationHandler) Balance(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	credits, err := h.credits.Balance(ctx, userID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.CreditBalanceResponse{Credits: credits})
}

// History handles GET /credits/history.
func (h *GenerationHandler) History(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	page, pageSize := parsePagination(c)

	items, total, err := h.credits.History(ctx, userID, page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, ListResponse{
		Items:      dto.ToCreditTransactionListResponse(items),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Packages handles GET /credits/packages.
func (h *GenerationHandler) Packages(ctx context.Context, c *app.RequestContext) {
	pkgs, err := h.credits.Packages(ctx)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToCreditPackageListResponse(pkgs))
}

// Purchase handles POST /credits/purchase.
func (h *GenerationHandler) Purchase(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	var req dto.PurchaseRequest
	if err := c.BindJSON(&req); err != nil {
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	tx, newBalance, err := h.credits.Purchase(ctx, userID, req.PackageID)
	if err != nil {
		h.logger.Warn("purchase failed", "error", err, "user_id", userID)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.PurchaseResponse{
		Transaction: dto.ToCreditTransactionResponse(tx),
		NewBalance:  newBalance,
	})
}
