package entity

import "time"

// GenerationStatus is the lifecycle state of a thumbnail generation.
// The backend is the only writer; clients hold a read-only projection.
type GenerationStatus string

const (
	StatusQueued     GenerationStatus = "queued"
	StatusProcessing GenerationStatus = "processing"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
	StatusCancelled  GenerationStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s GenerationStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the lifecycle:
//
//	queued -> processing -> completed | failed
//	queued | processing -> cancelled
func (s GenerationStatus) CanTransitionTo(next GenerationStatus) bool {
	switch s {
	case StatusQueued:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed || next == StatusCancelled
	}
	return false
}

// Generation is one tracked request to produce a thumbnail image.
type Generation struct {
	ID              string
	UserID          string
	ConversationID  string // optional, empty when started outside a chat
	AlgorithmID     string
	Prompt          string
	ReferenceImages []string
	Parameters      map[string]any
	Status          GenerationStatus
	Progress        int // 0-100
	ErrorMessage    string
	ResultURL       string
	ResultMeta      map[string]any
	CreditsUsed     int
	CreatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// DurationSeconds is the wall time between start and completion.
func (g *Generation) DurationSeconds() int {
	if g.StartedAt == nil || g.CompletedAt == nil {
		return 0
	}
	return int(g.CompletedAt.Sub(*g.StartedAt).Seconds())
}

// ClampProgress keeps progress inside the 0-100 contract.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Algorithm describes one generation backend offered to users.
type Algorithm struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	CostCredits int
	IsActive    bool
	Parameters  map[string]any
}

// Credit transaction types.
const (
	TxPurchase = "purchase"
	TxUsage    = "usage"
	TxRefund   = "refund"
	TxBonus    = "bonus"
)

// CreditTransaction is one signed movement on a user's credit balance.
// Amount is positive for additions and negative for deductions.
type CreditTransaction struct {
	ID          string
	UserID      string
	Type        string
	Amount      int
	Description string
	ReferenceID string // generation or payment the movement refers to
	CreatedAt   time.Time
}

// CreditPackage is a purchasable credit bundle.
type CreditPackage struct {
	ID           string
	Name         string
	Credits      int
	BonusCredits int
	PriceCents   int
	Popular      bool
}

// TotalCredits is the base amount plus the bonus.
func (p *CreditPackage) TotalCredits() int {
	return p.Credits + p.BonusCredits
}

// GenerationStats aggregates a user's generation history.
type GenerationStats struct {
	TotalGenerations      int
	SuccessfulGenerations int
	FailedGenerations     int
	TotalCreditsUsed      int
	MostUsedAlgorithm     string
}
