package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// Progress milestones reported while a job runs.
var milestones = []int{10, 30, 60, 90}

// Pool runs queued generation jobs on a fixed set of workers. It
// implements domain.GenerationQueue.
type Pool struct {
	genRepo     domain.GenerationRepository
	algoRepo    domain.AlgorithmRepository
	userRepo    domain.UserRepository
	creditRepo  domain.CreditRepository
	generator   domain.ThumbnailGenerator
	broadcaster domain.EventBroadcaster
	logger      *slog.Logger

	jobs    chan *entity.Generation
	workers int

	mu      sync.Mutex
	cancels map[string]context.CancelFunc

	wg   sync.WaitGroup
	stop context.CancelFunc
}

// NewPool builds the worker pool. Start must be called before jobs are
// enqueued.
func NewPool(
	genRepo domain.GenerationRepository,
	algoRepo domain.AlgorithmRepository,
	userRepo domain.UserRepository,
	creditRepo domain.CreditRepository,
	generator domain.ThumbnailGenerator,
	broadcaster domain.EventBroadcaster,
	workers, queueSize int,
	logger *slog.Logger,
) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}
	return &Pool{
		genRepo:     genRepo,
		algoRepo:    algoRepo,
		userRepo:    userRepo,
		creditRepo:  creditRepo,
		generator:   generator,
		broadcaster: broadcaster,
		logger:      logger,
		jobs:        make(chan *entity.Generation, queueSize),
		workers:     workers,
		cancels:     map[string]context.CancelFunc{},
	}
}

// Start launches the workers. They run until the context is cancelled.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.stop = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	p.logger.Info("generation workers started", "workers", p.workers)
}

// Shutdown stops accepting work and waits for in-flight jobs. Jobs
// still waiting in the queue are failed and refunded; leaving them
// queued would strand the row in a non-terminal state with the debit
// kept.
func (p *Pool) Shutdown() {
	if p.stop != nil {
		p.stop()
	}
	p.wg.Wait()

	for {
		select {
		case gen := <-p.jobs:
			p.finishInterrupted(gen)
		default:
			return
		}
	}
}

// Enqueue implements domain.GenerationQueue.
func (p *Pool) Enqueue(gen *entity.Generation) bool {
	select {
	case p.jobs <- gen:
		return true
	default:
		return false
	}
}

// Cancel interrupts a running job, if this pool is executing it.
func (p *Pool) Cancel(generationID string) {
	p.mu.Lock()
	cancel, ok := p.cancels[generationID]
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case gen := <-p.jobs:
			p.process(ctx, gen)
		}
	}
}

// process drives one job from queued to a terminal state, reporting
// progress milestones over the conversation's sockets.
func (p *Pool) process(ctx context.Context, gen *entity.Generation) {
	// The job may have been cancelled while waiting in the queue.
	current, err := p.genRepo.GetByID(ctx, "", gen.ID)
	if err != nil {
		p.logger.Error("job vanished before processing", "error", err, "generation_id", gen.ID)
		return
	}
	if current.Status != entity.StatusQueued {
		return
	}

	jobCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancels[gen.ID] = cancel
	p.mu.Unlock()
	defer func() {
		cancel()
		p.mu.Lock()
		delete(p.cancels, gen.ID)
		p.mu.Unlock()
	}()

	processing := entity.StatusProcessing
	progress := milestones[0]
	current, err = p.genRepo.Update(ctx, gen.ID, &domain.GenerationUpdate{
		Status:   &processing,
		Progress: &progress,
	})
	if err != nil {
		p.logger.Error("failed to mark job processing", "error", err, "generation_id", gen.ID)
		return
	}
	p.broadcaster.BroadcastProcessing(current.ConversationID, current)

	algo, err := p.algoRepo.GetByID(ctx, current.AlgorithmID)
	if err != nil {
		p.fail(ctx, current, fmt.Sprintf("algorithm unavailable: %v", err))
		return
	}

	// Milestone updates while the generator works.
	done := make(chan struct{})
	go p.reportMilestones(jobCtx, current, done)

	url, meta, err := p.generator.Generate(jobCtx, current, algo)
	close(done)

	if err != nil {
		if jobCtx.Err() != nil {
			p.finishInterrupted(current)
			return
		}
		p.fail(ctx, current, err.Error())
		return
	}

	// A cancel may have landed between the last check and completion;
	// cancelled is terminal and wins.
	latest, err := p.genRepo.GetByID(ctx, "", gen.ID)
	if err == nil && latest.Status == entity.StatusCancelled {
		return
	}

	completed := entity.StatusCompleted
	full := 100
	final, err := p.genRepo.Update(ctx, gen.ID, &domain.GenerationUpdate{
		Status:     &completed,
		Progress:   &full,
		ResultURL:  &url,
		ResultMeta: meta,
	})
	if err != nil {
		p.logger.Error("failed to complete job", "error", err, "generation_id", gen.ID)
		return
	}
	p.broadcaster.BroadcastProcessing(final.ConversationID, final)
	p.logger.Info("generation completed", "generation_id", gen.ID, "duration_s", final.DurationSeconds())
}

const milestoneInterval = 400 * time.Millisecond

func (p *Pool) reportMilestones(ctx context.Context, gen *entity.Generation, done <-chan struct{}) {
	ticker := time.NewTicker(milestoneInterval)
	defer ticker.Stop()

	for _, m := range milestones[1:] {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
		}

		progress := m
		updated, err := p.genRepo.Update(ctx, gen.ID, &domain.GenerationUpdate{Progress: &progress})
		if err != nil {
			return
		}
		p.broadcaster.BroadcastProcessing(updated.ConversationID, updated)
	}
}

// finishInterrupted handles a job whose context was cancelled mid-run.
// That is either an API cancel, where the usecase already marked the
// row cancelled and refunded, or pool shutdown, where the row would
// otherwise stay processing forever with the debit kept. The pool
// context is gone by then, so the terminal write uses a fresh one.
func (p *Pool) finishInterrupted(gen *entity.Generation) {
	ctx := context.Background()

	latest, err := p.genRepo.GetByID(ctx, "", gen.ID)
	if err == nil && latest.Status == entity.StatusCancelled {
		p.logger.Info("job cancelled", "generation_id", gen.ID)
		return
	}

	p.fail(ctx, gen, "interrupted by server shutdown")
}

// fail marks the job failed and refunds the debit.
func (p *Pool) fail(ctx context.Context, gen *entity.Generation, message string) {
	failed := entity.StatusFailed
	updated, err := p.genRepo.Update(ctx, gen.ID, &domain.GenerationUpdate{
		Status:       &failed,
		ErrorMessage: &message,
	})
	if err != nil {
		p.logger.Error("failed to mark job failed", "error", err, "generation_id", gen.ID)
		return
	}
	p.broadcaster.BroadcastProcessing(updated.ConversationID, updated)

	if gen.CreditsUsed > 0 {
		user, err := p.userRepo.GetByID(ctx, gen.UserID)
		if err != nil {
			p.logger.Error("refund failed: user lookup", "error", err, "generation_id", gen.ID)
			return
		}
		if err := p.userRepo.UpdateCredits(ctx, user.ID, user.Credits+gen.CreditsUsed); err != nil {
			p.logger.Error("refund failed: credit update", "error", err, "generation_id", gen.ID)
			return
		}
		if _, err := p.creditRepo.Record(ctx, &entity.CreditTransaction{
			UserID:      gen.UserID,
			Type:        entity.TxRefund,
			Amount:      gen.CreditsUsed,
			Description: "refund for failed generation",
			ReferenceID: gen.ID,
		}); err != nil {
			p.logger.Error("refund failed: ledger entry", "error", err, "generation_id", gen.ID)
		}
	}

	p.logger.Warn("generation failed", "generation_id", gen.ID, "reason", message)
}
