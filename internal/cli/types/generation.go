package types

// Generation represents one thumbnail job
type Generation struct {
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

// Algorithm represents one selectable generation backend
type Algorithm struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	CostCredits int    `json:"cost_credits"`
}

// GenerationStats aggregates a user's generation history
type GenerationStats struct {
	TotalGenerations      int    `json:"total_generations"`
	SuccessfulGenerations int    `json:"successful_generations"`
	FailedGenerations     int    `json:"failed_generations"`
	TotalCreditsUsed      int    `json:"total_credits_used"`
	MostUsedAlgorithm     string `json:"most_used_algorithm,omitempty"`
}

// CreditBalance is the current balance
type CreditBalance struct {
	Credits int `json:"credits"`
}

// CreditTransaction is one ledger entry
type CreditTransaction struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      int    `json:"amount"`
	Description string `json:"description,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// CreditPackage is one purchasable bundle
type CreditPackage struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Credits      int    `json:"credits"`
	BonusCredits int    `json:"bonus_credits"`
	TotalCredits int    `json:"total_credits"`
	PriceCents   int    `json:"price_cents"`
	Popular      bool   `json:"popular"`
}

// PurchaseData confirms a purchase
type PurchaseData struct {
	Transaction CreditTransaction `json:"transaction"`
	NewBalance  int               `json:"new_balance"`
}

// APIResponse represents a generic API response with typed data
type APIResponse[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ListData represents a generic list data structure
type ListData[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
}
