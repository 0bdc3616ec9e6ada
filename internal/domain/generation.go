package domain

import (
	"context"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// ============ Usecase-internal DTOs ============

// GenerationRequest describes one thumbnail job to start.
type GenerationRequest struct {
	UserID          string
	ConversationID  string
	Algorithm       string
	Prompt          string
	ReferenceImages []string
	Parameters      map[string]any
}

// GenerationUpdate is a partial status change applied by the worker.
type GenerationUpdate struct {
	Status       *entity.GenerationStatus
	Progress     *int
	ErrorMessage *string
	ResultURL    *string
	ResultMeta   map[string]any
}

// ============ Repository interfaces ============

// GenerationRepository stores generation jobs.
type GenerationRepository interface {
	// Create persists a new job in the queued state.
	Create(ctx context.Context, gen *entity.Generation) (*entity.Generation, error)

	// GetByID fetches one job scoped to its owner.
	GetByID(ctx context.Context, userID, generationID string) (*entity.Generation, error)

	// List pages through the user's jobs, newest first. An empty status
	// matches all states.
	List(ctx context.Context, userID string, status entity.GenerationStatus, offset, limit int) ([]*entity.Generation, int, error)

	// Update applies a partial status change.
	Update(ctx context.Context, generationID string, upd *GenerationUpdate) (*entity.Generation, error)

	// Stats aggregates the user's generation history.
	Stats(ctx context.Context, userID string) (*entity.GenerationStats, error)
}

// AlgorithmRepository stores the catalog of generation backends.
type AlgorithmRepository interface {
	// ListActive returns the algorithms users may choose from.
	ListActive(ctx context.Context) ([]*entity.Algorithm, error)

	// GetByName resolves an algorithm by its machine name.
	GetByName(ctx context.Context, name string) (*entity.Algorithm, error)

	// GetByID resolves an algorithm by primary key.
	GetByID(ctx context.Context, algorithmID string) (*entity.Algorithm, error)
}

// CreditRepository stores the credit ledger.
type CreditRepository interface {
	// Record appends one ledger entry.
	Record(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error)

	// ListByUser pages through a user's ledger, newest first.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.CreditTransaction, int, error)
}

// ThumbnailGenerator produces the actual image for a job.
type ThumbnailGenerator interface {
	// Generate runs the job and returns the result URL plus metadata.
	// It must honor ctx cancellation.
	Generate(ctx context.Context, gen *entity.Generation, algo *entity.Algorithm) (string, map[string]any, error)
}

// GenerationQueue hands queued jobs to the background workers.
type GenerationQueue interface {
	// Enqueue offers a job to the pool. It reports false when the
	// queue is full.
	Enqueue(gen *entity.Generation) bool

	// Cancel interrupts the job if it is currently running.
	Cancel(generationID string)
}

// ============ Usecase interfaces ============

// GenerationUsecase implements the job lifecycle and credit billing.
type GenerationUsecase interface {
	// Start validates the request, charges the user and enqueues a job.
	Start(ctx context.Context, req *GenerationRequest) (*entity.Generation, error)

	// Get fetches one job.
	Get(ctx context.Context, userID, generationID string) (*entity.Generation, error)

	// List pages through the user's jobs with an optional status filter.
	List(ctx context.Context, userID string, status entity.GenerationStatus, page, pageSize int) ([]*entity.Generation, int, error)

	// Cancel stops a non-terminal job and refunds its credits.
	Cancel(ctx context.Context, userID, generationID string) (*entity.Generation, error)

	// Stats aggregates the user's generation history.
	Stats(ctx context.Context, userID string) (*entity.GenerationStats, error)

	// ListAlgorithms returns the selectable backends.
	ListAlgorithms(ctx context.Context) ([]*entity.Algorithm, error)
}

// CreditUsecase implements balance queries and purchases.
type CreditUsecase interface {
	// Balance returns the user's current credit balance.
	Balance(ctx context.Context, userID string) (int, error)

	// History pages through the user's ledger.
	History(ctx context.Context, userID string, page, pageSize int) ([]*entity.CreditTransaction, int, error)

	// Packages lists the purchasable credit bundles.
	Packages(ctx context.Context) ([]*entity.CreditPackage, error)

	// Purchase credits the user with a package's total and records it.
	Purchase(ctx context.Context, userID, packageID string) (*entity.CreditTransaction, int, error)
}
