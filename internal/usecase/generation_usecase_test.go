package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
	"github.com/routinnet/routix-platform-ai/internal/domain/mocks"
)

type fakeQueue struct {
	mu        sync.Mutex
	enqueued  []*entity.Generation
	cancelled []string
	full      bool
}

func (q *fakeQueue) Enqueue(gen *entity.Generation) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.enqueued = append(q.enqueued, gen)
	return true
}

func (q *fakeQueue) Cancel(generationID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancelled = append(q.cancelled, generationID)
}

type recordingBroadcaster struct {
	mu         sync.Mutex
	messages   []*entity.Message
	processing []*entity.Generation
}

func (b *recordingBroadcaster) BroadcastMessage(conversationID string, msg *entity.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

func (b *recordingBroadcaster) BroadcastProcessing(conversationID string, gen *entity.Generation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.processing = append(b.processing, gen)
}

func (b *recordingBroadcaster) BroadcastTyping(conversationID, userID string, typing bool) {}

func TestStartGeneration(t *testing.T) {
	algo := &entity.Algorithm{ID: "algo-premium", Name: "premium", CostCredits: 3, IsActive: true}

	tests := []struct {
		name        string
		credits     int
		prompt      string
		algorithm   string
		queueFull   bool
		wantErr     bool
		errContains string
	}{
		{
			name:      "debits credits and enqueues",
			credits:   5,
			prompt:    "a bold gaming thumbnail",
			algorithm: "premium",
		},
		{
			name:        "insufficient credits",
			credits:     2,
			prompt:      "a bold gaming thumbnail",
			algorithm:   "premium",
			wantErr:     true,
			errContains: "insufficient credits",
		},
		{
			name:        "empty prompt",
			credits:     5,
			prompt:      "   ",
			algorithm:   "premium",
			wantErr:     true,
			errContains: "prompt",
		},
		{
			name:        "queue full fails and refunds",
			credits:     5,
			prompt:      "a bold gaming thumbnail",
			algorithm:   "premium",
			queueFull:   true,
			wantErr:     true,
			errContains: "queue is full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance := tt.credits
			userRepo := &mocks.MockUserRepository{
				GetByIDFunc: func(ctx context.Context, userID string) (*entity.User, error) {
					return &entity.User{ID: userID, Credits: balance, IsActive: true}, nil
				},
				UpdateCreditsFunc: func(ctx context.Context, userID string, credits int) error {
					balance = credits
					return nil
				},
			}
			algoRepo := &mocks.MockAlgorithmRepository{
				GetByNameFunc: func(ctx context.Context, name string) (*entity.Algorithm, error) {
					if name == algo.Name {
						return algo, nil
					}
					return nil, domain.NewNotFoundError("Algorithm", name)
				},
			}
			var ledger []*entity.CreditTransaction
			creditRepo := &mocks.MockCreditRepository{
				RecordFunc: func(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
					ledger = append(ledger, tx)
					return tx, nil
				},
			}
			queue := &fakeQueue{full: tt.queueFull}
			bc := &recordingBroadcaster{}

			uc := NewGenerationUsecase(
				&mocks.MockGenerationRepository{}, algoRepo, userRepo, creditRepo,
				queue, bc, testLogger(),
			)

			gen, err := uc.Start(context.Background(), &domain.GenerationRequest{
				UserID:         "user-1",
				ConversationID: "conv-1",
				Algorithm:      tt.algorithm,
				Prompt:         tt.prompt,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err, tt.errContains)
				}
				if tt.queueFull && balance != tt.credits {
					t.Fatalf("expected refund to restore balance %d, got %d", tt.credits, balance)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if gen.Status != entity.StatusQueued {
				t.Fatalf("expected queued status, got %s", gen.Status)
			}
			if gen.CreditsUsed != algo.CostCredits {
				t.Fatalf("expected credits used %d, got %d", algo.CostCredits, gen.CreditsUsed)
			}
			if balance != tt.credits-algo.CostCredits {
				t.Fatalf("expected balance %d after debit, got %d", tt.credits-algo.CostCredits, balance)
			}
			if len(queue.enqueued) != 1 {
				t.Fatalf("expected 1 enqueued job, got %d", len(queue.enqueued))
			}
			if len(ledger) != 1 || ledger[0].Type != entity.TxUsage || ledger[0].Amount != -algo.CostCredits {
				t.Fatalf("unexpected ledger: %+v", ledger)
			}
			if len(bc.processing) != 1 {
				t.Fatalf("expected 1 processing broadcast, got %d", len(bc.processing))
			}
		})
	}
}

func TestCancelGeneration(t *testing.T) {
	tests := []struct {
		name        string
		status      entity.GenerationStatus
		wantErr     bool
		errContains string
	}{
		{name: "queued job can be cancelled", status: entity.StatusQueued},
		{name: "processing job can be cancelled", status: entity.StatusProcessing},
		{name: "completed job cannot", status: entity.StatusCompleted, wantErr: true, errContains: "already completed"},
		{name: "failed job cannot", status: entity.StatusFailed, wantErr: true, errContains: "already failed"},
		{name: "cancelled job cannot", status: entity.StatusCancelled, wantErr: true, errContains: "already cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := &entity.Generation{
				ID:             "gen-1",
				UserID:         "user-1",
				ConversationID: "conv-1",
				Status:         tt.status,
				CreditsUsed:    3,
			}
			genRepo := &mocks.MockGenerationRepository{
				GetByIDFunc: func(ctx context.Context, userID, generationID string) (*entity.Generation, error) {
					return stored, nil
				},
				UpdateFunc: func(ctx context.Context, generationID string, upd *domain.GenerationUpdate) (*entity.Generation, error) {
					out := *stored
					if upd.Status != nil {
						out.Status = *upd.Status
					}
					return &out, nil
				},
			}

			balance := 0
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
			queue := &fakeQueue{}
			bc := &recordingBroadcaster{}

			uc := NewGenerationUsecase(
				genRepo, &mocks.MockAlgorithmRepository{}, userRepo, creditRepo,
				queue, bc, testLogger(),
			)

			got, err := uc.Cancel(context.Background(), "user-1", "gen-1")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err, tt.errContains)
				}
				if len(ledger) != 0 {
					t.Fatal("terminal job must not be refunded")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Status != entity.StatusCancelled {
				t.Fatalf("expected cancelled, got %s", got.Status)
			}
			if balance != 3 {
				t.Fatalf("expected refund of 3 credits, got balance %d", balance)
			}
			if len(ledger) != 1 || ledger[0].Type != entity.TxRefund || ledger[0].Amount != 3 {
				t.Fatalf("unexpected ledger: %+v", ledger)
			}
			if len(queue.cancelled) != 1 || queue.cancelled[0] != "gen-1" {
				t.Fatalf("running job was not interrupted: %+v", queue.cancelled)
			}
			if len(bc.processing) != 1 || bc.processing[0].Status != entity.StatusCancelled {
				t.Fatal("cancellation was not broadcast")
			}
		})
	}
}
