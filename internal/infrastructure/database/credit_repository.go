package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository returns the GORM-backed domain.CreditRepository.
func NewCreditRepository(db *gorm.DB) domain.CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Record(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
	out := *tx
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}

	m := &creditTransactionModel{
		ID:          out.ID,
		UserID:      out.UserID,
		Type:        out.Type,
		Amount:      out.Amount,
		Description: out.Description,
		ReferenceID: out.ReferenceID,
		CreatedAt:   out.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to record credit transaction: %w", err)
	}
	return &out, nil
}

func (r *creditRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.CreditTransaction, int, error) {
	q := r.db.WithContext(ctx).Model(&creditTransactionModel{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count credit transactions: %w", err)
	}

	var models []creditTransactionModel
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list credit transactions: %w", err)
	}

	result := make([]*entity.CreditTransaction, len(models))
	for i := range models {
		result[i] = toCreditTransactionEntity(&models[i])
	}
	return result, int(total), nil
}

type algorithmRepository struct {
	db *gorm.DB
}

// NewAlgorithmRepository returns the GORM-backed domain.AlgorithmRepository.
func NewAlgorithmRepository(db *gorm.DB) domain.AlgorithmRepository {
	return &algorithmRepository{db: db}
}

func (r *algorithmRepository) ListActive(ctx context.Context) ([]*entity.Algorithm, error) {
	var models []algorithmModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("cost_credits ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list algorithms: %w", err)
	}

	result := make([]*entity.Algorithm, len(models))
	for i := range models {
		result[i] = toAlgorithmEntity(&models[i])
	}
	return result, nil
}

func (r *algorithmRepository) GetByName(ctx context.Context, name string) (*entity.Algorithm, error) {
	var m algorithmModel
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Algorithm", name)
		}
		return nil, fmt.Errorf("failed to get algorithm: %w", err)
	}
	return toAlgorithmEntity(&m), nil
}

func (r *algorithmRepository) GetByID(ctx context.Context, algorithmID string) (*entity.Algorithm, error) {
	var m algorithmModel
	err := r.db.WithContext(ctx).
		Where("id = ?", algorithmID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Algorithm", algorithmID)
		}
		return nil, fmt.Errorf("failed to get algorithm: %w", err)
	}
	return toAlgorithmEntity(&m), nil
}
