package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

type generationUsecase struct {
	genRepo     domain.GenerationRepository
	algoRepo    domain.AlgorithmRepository
	userRepo    domain.UserRepository
	creditRepo  domain.CreditRepository
	queue       domain.GenerationQueue
	broadcaster domain.EventBroadcaster
	logger      *slog.Logger
}

// NewGenerationUsecase wires the job lifecycle and credit billing.
func NewGenerationUsecase(
	genRepo domain.GenerationRepository,
	algoRepo domain.AlgorithmRepository,
	userRepo domain.UserRepository,
	creditRepo domain.CreditRepository,
	queue domain.GenerationQueue,
	broadcaster domain.EventBroadcaster,
	logger *slog.Logger,
) domain.GenerationUsecase {
	return &generationUsecase{
		genRepo:     genRepo,
		algoRepo:    algoRepo,
		userRepo:    userRepo,
		creditRepo:  creditRepo,
		queue:       queue,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Start validates the request, debits the algorithm cost up front and
// enqueues the job. The debit is refunded if the job later fails or is
// cancelled.
func (u *generationUsecase) Start(ctx context.Context, req *domain.GenerationRequest) (*entity.Generation, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, domain.NewInvalidInputError("prompt must not be empty")
	}

	algo, err := u.algoRepo.GetByName(ctx, req.Algorithm)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewInvalidInputError(
				fmt.Sprintf("unknown algorithm: %s", req.Algorithm))
		}
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.CanAfford(algo.CostCredits) {
		return nil, domain.NewInsufficientCreditsError(algo.CostCredits, user.Credits)
	}

	if err := u.userRepo.UpdateCredits(ctx, user.ID, user.Credits-algo.CostCredits); err != nil {
		return nil, fmt.Errorf("failed to debit credits: %w", err)
	}

	gen, err := u.genRepo.Create(ctx, &entity.Generation{
		UserID:          req.UserID,
		ConversationID:  req.ConversationID,
		AlgorithmID:     algo.ID,
		Prompt:          prompt,
		ReferenceImages: req.ReferenceImages,
		Parameters:      req.Parameters,
		Status:          entity.StatusQueued,
		CreditsUsed:     algo.CostCredits,
	})
	if err != nil {
		// Put the credits back, the job never existed.
		if rbErr := u.userRepo.UpdateCredits(ctx, user.ID, user.Credits); rbErr != nil {
			u.logger.Error("failed to roll back debit", "error", rbErr, "user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to create generation: %w", err)
	}

	if _, err := u.creditRepo.Record(ctx, &entity.CreditTransaction{
		UserID:      user.ID,
		Type:        entity.TxUsage,
		Amount:      -algo.CostCredits,
		Description: fmt.Sprintf("generation with %s algorithm", algo.Name),
		ReferenceID: gen.ID,
	}); err != nil {
		u.logger.Error("failed to record usage", "error", err, "generation_id", gen.ID)
	}

	if !u.queue.Enqueue(gen) {
		failed := entity.StatusFailed
		msg := "generation queue is full, please retry later"
		if _, err := u.genRepo.Update(ctx, gen.ID, &domain.GenerationUpdate{
			Status:       &failed,
			ErrorMessage: &msg,
		}); err != nil {
			u.logger.Error("failed to mark overflow job failed", "error", err, "generation_id", gen.ID)
		}
		u.refund(ctx, gen, "refund for queue overflow")
		return nil, domain.NewConflictError(msg)
	}

	u.broadcaster.BroadcastProcessing(gen.ConversationID, gen)
	u.logger.Info("generation queued",
		"generation_id", gen.ID,
		"user_id", gen.UserID,
		"algorithm", algo.Name,
		"cost", algo.CostCredits,
	)
	return gen, nil
}

func (u *generationUsecase) Get(ctx context.Context, userID, generationID string) (*entity.Generation, error) {
	return u.genRepo.GetByID(ctx, userID, generationID)
}

func (u *generationUsecase) List(ctx context.Context, userID string, status entity.GenerationStatus, page, pageSize int) ([]*entity.Generation, int, error) {
	offset, limit := paginate(page, pageSize)
	return u.genRepo.List(ctx, userID, status, offset, limit)
}

// Cancel stops a job that has not finished and refunds its credits.
// Finished jobs cannot be cancelled.
func (u *generationUsecase) Cancel(ctx context.Context, userID, generationID string) (*entity.Generation, error) {
	gen, err := u.genRepo.GetByID(ctx, userID, generationID)
	if err != nil {
		return nil, err
	}
	if gen.Status.IsTerminal() {
		return nil, domain.NewConflictError(
			fmt.Sprintf("generation is already %s", gen.Status))
	}

	cancelled := entity.StatusCancelled
	updated, err := u.genRepo.Update(ctx, generationID, &domain.GenerationUpdate{
		Status: &cancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel generation: %w", err)
	}

	u.queue.Cancel(generationID)
	u.refund(ctx, updated, "refund for cancelled generation")
	u.broadcaster.BroadcastProcessing(updated.ConversationID, updated)
	u.logger.Info("generation cancelled", "generation_id", generationID, "user_id", userID)
	return updated, nil
}

func (u *generationUsecase) Stats(ctx context.Context, userID string) (*entity.GenerationStats, error) {
	return u.genRepo.Stats(ctx, userID)
}

func (u *generationUsecase) ListAlgorithms(ctx context.Context) ([]*entity.Algorithm, error) {
	return u.algoRepo.ListActive(ctx)
}

func (u *generationUsecase) refund(ctx context.Context, gen *entity.Generation, reason string) {
	if gen.CreditsUsed <= 0 {
		return
	}

	user, err := u.userRepo.GetByID(ctx, gen.UserID)
	if err != nil {
		u.logger.Error("refund failed: user lookup", "error", err, "generation_id", gen.ID)
		return
	}
	if err := u.userRepo.UpdateCredits(ctx, user.ID, user.Credits+gen.CreditsUsed); err != nil {
		u.logger.Error("refund failed: credit update", "error", err, "generation_id", gen.ID)
		return
	}
	if _, err := u.creditRepo.Record(ctx, &entity.CreditTransaction{
		UserID:      gen.UserID,
		Type:        entity.TxRefund,
		Amount:      gen.CreditsUsed,
		Description: reason,
		ReferenceID: gen.ID,
	}); err != nil {
		u.logger.Error("refund failed: ledger entry", "error", err, "generation_id", gen.ID)
	}
}
