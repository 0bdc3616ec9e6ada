package usecase

import (
	"context"
	"testing"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
	"github.com/routinnet/routix-platform-ai/internal/domain/mocks"
)

func TestPurchaseCreditsBalanceAndLedger(t *testing.T) {
	balance := 5
	userRepo := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*entity.User, error) {
			return &entity.User{ID: userID, Credits: balance}, nil
		},
		UpdateCreditsFunc: func(ctx context.Context, userID string, credits int) error {
			balance = credits
			return nil
		},
	}
	var recorded *entity.CreditTransaction
	creditRepo := &mocks.MockCreditRepository{
		RecordFunc: func(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
			recorded = tx
			return tx, nil
		},
	}

	uc := NewCreditUsecase(userRepo, creditRepo, testLogger())

	tx, newBalance, err := uc.Purchase(context.Background(), "user-1", "popular")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// popular = 50 credits + 10 bonus
	if newBalance != 65 {
		t.Fatalf("expected balance 65, got %d", newBalance)
	}
	if balance != 65 {
		t.Fatalf("repository balance not updated, got %d", balance)
	}
	if tx.Type != entity.TxPurchase || tx.Amount != 60 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if recorded == nil || recorded.ReferenceID != "popular" {
		t.Fatalf("ledger entry missing package reference: %+v", recorded)
	}
}

func TestPurchaseUnknownPackage(t *testing.T) {
	uc := NewCreditUsecase(&mocks.MockUserRepository{}, &mocks.MockCreditRepository{}, testLogger())

	_, _, err := uc.Purchase(context.Background(), "user-1", "mega")
	if err == nil || !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPackagesCatalog(t *testing.T) {
	uc := NewCreditUsecase(&mocks.MockUserRepository{}, &mocks.MockCreditRepository{}, testLogger())

	pkgs, err := uc.Packages(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pkgs) != 3 {
		t.Fatalf("expected 3 packages, got %d", len(pkgs))
	}

	var popular *entity.CreditPackage
	for _, p := range pkgs {
		if p.Popular {
			popular = p
		}
	}
	if popular == nil || popular.ID != "popular" {
		t.Fatalf("popular package not flagged: %+v", pkgs)
	}
	if popular.TotalCredits() != 60 {
		t.Fatalf("expected 60 total credits, got %d", popular.TotalCredits())
	}
}

func TestBalanceReflectsUser(t *testing.T) {
	userRepo := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*entity.User, error) {
			return &entity.User{ID: userID, Credits: 42}, nil
		},
	}
	uc := NewCreditUsecase(userRepo, &mocks.MockCreditRepository{}, testLogger())

	got, err := uc.Balance(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}
