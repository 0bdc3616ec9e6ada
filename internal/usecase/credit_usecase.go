package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// creditPackages is the purchasable catalog. Payment capture happens
// outside this service; a purchase here credits the balance and records
// the ledger entry.
var creditPackages = []*entity.CreditPackage{
	{ID: "starter", Name: "Starter", Credits: 10, BonusCredits: 0, PriceCents: 499},
	{ID: "popular", Name: "Popular", Credits: 50, BonusCredits: 10, PriceCents: 1999, Popular: true},
	{ID: "pro", Name: "Pro", Credits: 150, BonusCredits: 50, PriceCents: 4999},
}

type creditUsecase struct {
	userRepo   domain.UserRepository
	creditRepo domain.CreditRepository
	logger     *slog.Logger
}

// NewCreditUsecase wires balance queries and purchases.
func NewCreditUsecase(
	userRepo domain.UserRepository,
	creditRepo domain.CreditRepository,
	logger *slog.Logger,
) domain.CreditUsecase {
	return &creditUsecase{
		userRepo:   userRepo,
		creditRepo: creditRepo,
		logger:     logger,
	}
}

func (u *creditUsecase) Balance(ctx context.Context, userID string) (int, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}

func (u *creditUsecase) History(ctx context.Context, userID string, page, pageSize int) ([]*entity.CreditTransaction, int, error) {
	offset, limit := paginate(page, pageSize)
	return u.creditRepo.ListByUser(ctx, userID, offset, limit)
}

func (u *creditUsecase) Packages(ctx context.Context) ([]*entity.CreditPackage, error) {
	return creditPackages, nil
}

func (u *creditUsecase) Purchase(ctx context.Context, userID, packageID string) (*entity.CreditTransaction, int, error) {
	var pkg *entity.CreditPackage
	for _, p := range creditPackages {
		if p.ID == packageID {
			pkg = p
			break
		}
	}
	if pkg == nil {
		return nil, 0, domain.NewNotFoundError("CreditPackage", packageID)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	newBalance := user.Credits + pkg.TotalCredits()
	if err := u.userRepo.UpdateCredits(ctx, userID, newBalance); err != nil {
		return nil, 0, fmt.Errorf("failed to credit purchase: %w", err)
	}

	tx, err := u.creditRepo.Record(ctx, &entity.CreditTransaction{
		UserID:      userID,
		Type:        entity.TxPurchase,
		Amount:      pkg.TotalCredits(),
		Description: fmt.Sprintf("%s package purchase", pkg.Name),
		ReferenceID: pkg.ID,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to record purchase: %w", err)
	}

	u.logger.Info("credits purchased",
		"user_id", userID,
		"package", pkg.ID,
		"credits", pkg.TotalCredits(),
	)
	return tx, newBalance, nil
}
