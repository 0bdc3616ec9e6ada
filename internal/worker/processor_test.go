package worker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
	"github.com/routinnet/routix-platform-ai/internal/domain/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// memGenRepo is a minimal stateful generation store for pool tests.
type memGenRepo struct {
	mu  sync.Mutex
	gen *entity.Generation
}

func (r *memGenRepo) get() *entity.Generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *r.gen
	return &out
}

func (r *memGenRepo) repo() *mocks.MockGenerationRepository {
	return &mocks.MockGenerationRepository{
		GetByIDFunc: func(ctx context.Context, userID, generationID string) (*entity.Generation, error) {
			return r.get(), nil
		},
		UpdateFunc: func(ctx context.Context, generationID string, upd *domain.GenerationUpdate) (*entity.Generation, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if upd.Status != nil {
				r.gen.Status = *upd.Status
			}
			if upd.Progress != nil {
				r.gen.Progress = *upd.Progress
			}
			if upd.ErrorMessage != nil {
				r.gen.ErrorMessage = *upd.ErrorMessage
			}
			if upd.ResultURL != nil {
				r.gen.ResultURL = *upd.ResultURL
			}
			out := *r.gen
			return &out, nil
		},
	}
}

type recordingBroadcaster struct {
	mu         sync.Mutex
	processing []*entity.Generation
}

func (b *recordingBroadcaster) BroadcastMessage(conversationID string, msg *entity.Message) {}
func (b *recordingBroadcaster) BroadcastTyping(conversationID, userID string, typing bool)  {}

func (b *recordingBroadcaster) BroadcastProcessing(conversationID string, gen *entity.Generation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := *gen
	b.processing = append(b.processing, &out)
}

func (b *recordingBroadcaster) statuses() []entity.GenerationStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.GenerationStatus, len(b.processing))
	for i, g := range b.processing {
		out[i] = g.Status
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func newTestJob() *entity.Generation {
	return &entity.Generation{
		ID:             "gen-1",
		UserID:         "user-1",
		ConversationID: "conv-1",
		AlgorithmID:    "algo-1",
		Prompt:         "test",
		Status:         entity.StatusQueued,
		CreditsUsed:    3,
	}
}

func TestPoolCompletesJob(t *testing.T) {
	repo := &memGenRepo{gen: newTestJob()}
	bc := &recordingBroadcaster{}

	pool := NewPool(
		repo.repo(),
		&mocks.MockAlgorithmRepository{},
		&mocks.MockUserRepository{},
		&mocks.MockCreditRepository{},
		&mocks.MockThumbnailGenerator{},
		bc, 1, 4, testLogger(),
	)
	pool.Start(context.Background())
	defer pool.Shutdown()

	if !pool.Enqueue(repo.get()) {
		t.Fatal("enqueue failed")
	}

	waitFor(t, func() bool { return repo.get().Status == entity.StatusCompleted })

	final := repo.get()
	if final.Progress != 100 {
		t.Fatalf("expected progress 100, got %d", final.Progress)
	}
	if final.ResultURL == "" {
		t.Fatal("completed job has no result url")
	}

	statuses := bc.statuses()
	if len(statuses) < 2 {
		t.Fatalf("expected processing and completed broadcasts, got %v", statuses)
	}
	if statuses[0] != entity.StatusProcessing {
		t.Fatalf("first broadcast should be processing, got %s", statuses[0])
	}
	if statuses[len(statuses)-1] != entity.StatusCompleted {
		t.Fatalf("last broadcast should be completed, got %s", statuses[len(statuses)-1])
	}
}

func TestPoolFailureRefundsCredits(t *testing.T) {
	repo := &memGenRepo{gen: newTestJob()}
	bc := &recordingBroadcaster{}

	balance := 2
	userRepo := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*entity.User, error) {
			return &entity.User{ID: userID, Credits: balance}, nil
		},
		UpdateCreditsFunc: func(ctx context.Context, userID string, credits int) error {
			balance = credits
			return nil
		},
	}
	var ledger []*entity.CreditTransaction
	creditRepo := &mocks.MockCreditRepository{
		RecordFunc: func(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
			ledger = append(ledger, tx)
			return tx, nil
		},
	}
	generator := &mocks.MockThumbnailGenerator{
		GenerateFunc: func(ctx context.Context, gen *entity.Generation, algo *entity.Algorithm) (string, map[string]any, error) {
			return "", nil, errors.New("render farm unavailable")
		},
	}

	pool := NewPool(
		repo.repo(),
		&mocks.MockAlgorithmRepository{},
		userRepo, creditRepo, generator,
		bc, 1, 4, testLogger(),
	)
	pool.Start(context.Background())
	defer pool.Shutdown()

	pool.Enqueue(repo.get())

	waitFor(t, func() bool { return repo.get().Status == entity.StatusFailed })

	final := repo.get()
	if final.ErrorMessage == "" {
		t.Fatal("failed job has no error message")
	}

	waitFor(t, func() bool { return balance == 5 })
	if len(ledger) != 1 || ledger[0].Type != entity.TxRefund || ledger[0].Amount != 3 {
		t.Fatalf("unexpected refund ledger: %+v", ledger)
	}
}

func TestPoolSkipsJobCancelledWhileQueued(t *testing.T) {
	job := newTestJob()
	job.Status = entity.StatusCancelled
	repo := &memGenRepo{gen: job}
	bc := &recordingBroadcaster{}

	pool := NewPool(
		repo.repo(),
		&mocks.MockAlgorithmRepository{},
		&mocks.MockUserRepository{},
		&mocks.MockCreditRepository{},
		&mocks.MockThumbnailGenerator{},
		bc, 1, 4, testLogger(),
	)
	pool.Start(context.Background())
	defer pool.Shutdown()

	queued := newTestJob()
	pool.Enqueue(queued)

	// Give the worker a moment; the job must stay cancelled.
	time.Sleep(200 * time.Millisecond)
	if got := repo.get().Status; got != entity.StatusCancelled {
		t.Fatalf("cancelled job was processed, status %s", got)
	}
	if len(bc.statuses()) != 0 {
		t.Fatalf("no broadcasts expected, got %v", bc.statuses())
	}
}

func TestPoolShutdownFailsInFlightJob(t *testing.T) {
	repo := &memGenRepo{gen: newTestJob()}
	bc := &recordingBroadcaster{}

	started := make(chan struct{})
	generator := &mocks.MockThumbnailGenerator{
		GenerateFunc: func(ctx context.Context, gen *entity.Generation, algo *entity.Algorithm) (string, map[string]any, error) {
			close(started)
			<-ctx.Done()
			return "", nil, ctx.Err()
		},
	}

	balance := 2
	userRepo := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*entity.User, error) {
			return &entity.User{ID: userID, Credits: balance}, nil
		},
		UpdateCreditsFunc: func(ctx context.Context, userID string, credits int) error {
			balance = credits
			return nil
		},
	}
	var ledger []*entity.CreditTransaction
	creditRepo := &mocks.MockCreditRepository{
		RecordFunc: func(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
			ledger = append(ledger, tx)
			return tx, nil
		},
	}

	pool := NewPool(
		repo.repo(),
		&mocks.MockAlgorithmRepository{},
		userRepo, creditRepo, generator,
		bc, 1, 4, testLogger(),
	)
	pool.Start(context.Background())

	pool.Enqueue(repo.get())
	<-started
	pool.Shutdown()

	// Shutdown must not strand the job in processing: it reaches a
	// terminal state and the debit comes back.
	final := repo.get()
	if final.Status != entity.StatusFailed {
		t.Fatalf("expected failed after shutdown, got %s", final.Status)
	}
	if final.ErrorMessage == "" {
		t.Fatal("interrupted job has no error message")
	}
	if balance != 5 {
		t.Fatalf("expected refunded balance 5, got %d", balance)
	}
	if len(ledger) != 1 || ledger[0].Type != entity.TxRefund || ledger[0].Amount != 3 {
		t.Fatalf("unexpected refund ledger: %+v", ledger)
	}
}

func TestPoolShutdownSkipsJobAlreadyCancelled(t *testing.T) {
	repo := &memGenRepo{gen: newTestJob()}
	bc := &recordingBroadcaster{}

	started := make(chan struct{})
	generator := &mocks.MockThumbnailGenerator{
		GenerateFunc: func(ctx context.Context, gen *entity.Generation, algo *entity.Algorithm) (string, map[string]any, error) {
			close(started)
			<-ctx.Done()
			return "", nil, ctx.Err()
		},
	}

	var refunds int
	creditRepo := &mocks.MockCreditRepository{
		RecordFunc: func(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
			refunds++
			return tx, nil
		},
	}

	pool := NewPool(
		repo.repo(),
		&mocks.MockAlgorithmRepository{},
		&mocks.MockUserRepository{},
		creditRepo, generator,
		bc, 1, 4, testLogger(),
	)
	pool.Start(context.Background())

	pool.Enqueue(repo.get())
	<-started

	// An API cancel updates the row and refunds before interrupting
	// the job; the pool must not refund a second time.
	cancelled := entity.StatusCancelled
	repo.repo().UpdateFunc(context.Background(), "gen-1", &domain.GenerationUpdate{Status: &cancelled})
	pool.Cancel("gen-1")
	pool.Shutdown()

	if got := repo.get().Status; got != entity.StatusCancelled {
		t.Fatalf("cancelled job was overwritten, status %s", got)
	}
	if refunds != 0 {
		t.Fatalf("expected no pool-side refund, got %d", refunds)
	}
}

func TestPoolShutdownDrainsQueuedJobs(t *testing.T) {
	repo := &memGenRepo{gen: newTestJob()}

	balance := 2
	userRepo := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*entity.User, error) {
			return &entity.User{ID: userID, Credits: balance}, nil
		},
		UpdateCreditsFunc: func(ctx context.Context, userID string, credits int) error {
			balance = credits
			return nil
		},
	}

	pool := NewPool(
		repo.repo(),
		&mocks.MockAlgorithmRepository{},
		userRepo,
		&mocks.MockCreditRepository{},
		&mocks.MockThumbnailGenerator{},
		&recordingBroadcaster{}, 1, 4, testLogger(),
	)
	// Never started: the job sits in the queue until shutdown.
	pool.Enqueue(repo.get())
	pool.Shutdown()

	if got := repo.get().Status; got != entity.StatusFailed {
		t.Fatalf("expected queued job failed on shutdown, got %s", got)
	}
	if balance != 5 {
		t.Fatalf("expected refunded balance 5, got %d", balance)
	}
}

func TestPoolQueueOverflow(t *testing.T) {
	repo := &memGenRepo{gen: newTestJob()}

	pool := NewPool(
		repo.repo(),
		&mocks.MockAlgorithmRepository{},
		&mocks.MockUserRepository{},
		&mocks.MockCreditRepository{},
		&mocks.MockThumbnailGenerator{},
		&recordingBroadcaster{}, 1, 1, testLogger(),
	)
	// Not started: nothing drains the queue.

	if !pool.Enqueue(newTestJob()) {
		t.Fatal("first enqueue should fit")
	}
	if pool.Enqueue(newTestJob()) {
		t.Fatal("second enqueue should overflow")
	}
}
