package dto

import (
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// StartGenerationRequest starts a thumbnail job outside a chat.
type StartGenerationRequest struct {
	ConversationID  string         `json:"conversation_id,omitempty"`
	Algorithm       string         `json:"algorithm"`
	Prompt          string         `json:"prompt"`
	ReferenceImages []string       `json:"reference_images,omitempty"`
	Parameters      map[string]any `json:"parameters,omitempty"`
}

// GenerationResponse is the public view of a job.
type GenerationResponse struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Prompt         string         `json:"prompt"`
	Status         string         `json:"status"`
	Progress       int            `json:"progress"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	ResultURL      string         `json:"result_url,omitempty"`
	ResultMeta     map[string]any `json:"result_meta,omitempty"`
	CreditsUsed    int            `json:"credits_used"`
	CreatedAt      string         `json:"created_at"`
	StartedAt      string         `json:"started_at,omitempty"`
	CompletedAt    string         `json:"completed_at,omitempty"`
}

// AlgorithmResponse is one selectable generation backend.
type AlgorithmResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	CostCredits int    `json:"cost_credits"`
}

// StatsResponse aggregates a user's generation history.
type StatsResponse struct {
	TotalGenerations      int    `json:"total_generations"`
	SuccessfulGenerations int    `json:"successful_generations"`
	FailedGenerations     int    `json:"failed_generations"`
	TotalCreditsUsed      int    `json:"total_credits_used"`
	MostUsedAlgorithm     string `json:"most_used_algorithm,omitempty"`
}

// CreditBalanceResponse is the current balance.
type CreditBalanceResponse struct {
	Credits int `json:"credits"`
}

// CreditTransactionResponse is one ledger entry.
type CreditTransactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      int    `json:"amount"`
	Description string `json:"description,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// CreditPackageResponse is one purchasable bundle.
type CreditPackageResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Credits      int    `json:"credits"`
	BonusCredits int    `json:"bonus_credits"`
	TotalCredits int    `json:"total_credits"`
	PriceCents   int    `json:"price_cents"`
	Popular      bool   `json:"popular"`
}

// PurchaseRequest buys one credit package.
type PurchaseRequest struct {
	PackageID string `json:"package_id"`
}

// PurchaseResponse confirms a purchase.
type PurchaseResponse struct {
	Transaction CreditTransactionResponse `json:"transaction"`
	NewBalance  int                       `json:"new_balance"`
}

func ToGenerationResponse(g *entity.Generation) GenerationResponse {
	resp := GenerationResponse{
		ID:             g.ID,
		ConversationID: g.ConversationID,
		Prompt:         g.Prompt,
		Status:         string(g.Status),
		Progress:       g.Progress,
		ErrorMessage:   g.ErrorMessage,
		ResultURL:      g.ResultURL,
		ResultMeta:     g.ResultMeta,
		CreditsUsed:    g.CreditsUsed,
		CreatedAt:      g.CreatedAt.Format(time.RFC3339),
	}
	if g.StartedAt != nil {
		resp.StartedAt = g.StartedAt.Format(time.RFC3339)
	}
	if g.CompletedAt != nil {
		resp.CompletedAt = g.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

func ToGenerationListResponse(items []*entity.Generation) []GenerationResponse {
	out := make([]GenerationResponse, len(items))
	for i, g := range items {
		out[i] = ToGenerationResponse(g)
	}
	return out
}

func ToAlgorithmListResponse(items []*entity.Algorithm) []AlgorithmResponse {
	out := make([]AlgorithmResponse, len(items))
	for i, a := range items {
		out[i] = AlgorithmResponse{
			ID:          a.ID,
			Name:        a.Name,
			DisplayName: a.DisplayName,
			Description: a.Description,
			CostCredits: a.CostCredits,
		}
	}
	return out
}

func ToStatsResponse(s *entity.GenerationStats) StatsResponse {
	return StatsResponse{
		TotalGenerations:      s.TotalGenerations,
		SuccessfulGenerations: s.SuccessfulGenerations,
		FailedGenerations:     s.FailedGenerations,
		TotalCreditsUsed:      s.TotalCreditsUsed,
		MostUsedAlgorithm:     s.MostUsedAlgorithm,
	}
}

func ToCreditTransactionResponse(tx *entity.CreditTransaction) CreditTransactionResponse {
	return CreditTransactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		ReferenceID: tx.ReferenceID,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}

func ToCreditTransactionListResponse(items []*entity.CreditTransaction) []CreditTransactionResponse {
	out := make([]CreditTransactionResponse, len(items))
	for i, tx := range items {
		out[i] = ToCreditTransactionResponse(tx)
	}
	return out
}

func ToCreditPackageListResponse(items []*entity.CreditPackage) []CreditPackageResponse {
	out := make([]CreditPackageResponse, len(items))
	for i, p := range items {
		out[i] = CreditPackageResponse{
			ID:           p.ID,
			Name:         p.Name,
			Credits:      p.Credits,
			BonusCredits: p.BonusCredits,
			TotalCredits: p.TotalCredits(),
			PriceCents:   p.PriceCents,
			Popular:      p.Popular,
		}
	}
	return out
}
