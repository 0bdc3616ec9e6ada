package mocks

import (
	"context"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// MockGenerationRepository is a mock implementation of domain.GenerationRepository
type MockGenerationRepository struct {
	CreateFunc  func(ctx context.Context, gen *entity.Generation) (*entity.Generation, error)
	GetByIDFunc func(ctx context.Context, userID, generationID string) (*entity.Generation, error)
	ListFunc    func(ctx context.Context, userID string, status entity.GenerationStatus, offset, limit int) ([]*entity.Generation, int, error)
	UpdateFunc  func(ctx context.Context, generationID string, upd *domain.GenerationUpdate) (*entity.Generation, error)
	StatsFunc   func(ctx context.Context, userID string) (*entity.GenerationStats, error)
}

// Create mocks the Create method
func (m *MockGenerationRepository) Create(ctx context.Context, gen *entity.Generation) (*entity.Generation, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, gen)
	}
	out := *gen
	if out.ID == "" {
		out.ID = "gen-1"
	}
	out.CreatedAt = time.Now()
	return &out, nil
}

// GetByID mocks the GetByID method
func (m *MockGenerationRepository) GetByID(ctx context.Context, userID, generationID string) (*entity.Generation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, generationID)
	}
	return &entity.Generation{ID: generationID, UserID: userID, Status: entity.StatusQueued}, nil
}

// List mocks the List method
func (m *MockGenerationRepository) List(ctx context.Context, userID string, status entity.GenerationStatus, offset, limit int) ([]*entity.Generation, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, status, offset, limit)
	}
	return []*entity.Generation{}, 0, nil
}

// Update mocks the Update method
func (m *MockGenerationRepository) Update(ctx context.Context, generationID string, upd *domain.GenerationUpdate) (*entity.Generation, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, generationID, upd)
	}
	g := &entity.Generation{ID: generationID, Status: entity.StatusQueued}
	if upd.Status != nil {
		g.Status = *upd.Status
	}
	if upd.Progress != nil {
		g.Progress = *upd.Progress
	}
	return g, nil
}

// Stats mocks the Stats method
func (m *MockGenerationRepository) Stats(ctx context.Context, userID string) (*entity.GenerationStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, userID)
	}
	return &entity.GenerationStats{}, nil
}

// MockAlgorithmRepository is a mock implementation of domain.AlgorithmRepository
type MockAlgorithmRepository struct {
	ListActiveFunc func(ctx context.Context) ([]*entity.Algorithm, error)
	GetByNameFunc  func(ctx context.Context, name string) (*entity.Algorithm, error)
	GetByIDFunc    func(ctx context.Context, algorithmID string) (*entity.Algorithm, error)
}

// ListActive mocks the ListActive method
func (m *MockAlgorithmRepository) ListActive(ctx context.Context) ([]*entity.Algorithm, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return []*entity.Algorithm{
		{ID: "algo-1", Name: "basic", CostCredits: 1, IsActive: true},
	}, nil
}

// GetByName mocks the GetByName method
func (m *MockAlgorithmRepository) GetByName(ctx context.Context, name string) (*entity.Algorithm, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return &entity.Algorithm{ID: "algo-1", Name: name, CostCredits: 1, IsActive: true}, nil
}

// GetByID mocks the GetByID method
func (m *MockAlgorithmRepository) GetByID(ctx context.Context, algorithmID string) (*entity.Algorithm, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, algorithmID)
	}
	return &entity.Algorithm{ID: algorithmID, Name: "basic", CostCredits: 1, IsActive: true}, nil
}

// MockCreditRepository is a mock implementation of domain.CreditRepository
type MockCreditRepository struct {
	RecordFunc     func(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error)
	ListByUserFunc func(ctx context.Context, userID string, offset, limit int) ([]*entity.CreditTransaction, int, error)
}

// Record mocks the Record method
func (m *MockCreditRepository) Record(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, tx)
	}
	out := *tx
	if out.ID == "" {
		out.ID = "tx-1"
	}
	out.CreatedAt = time.Now()
	return &out, nil
}

// ListByUser mocks the ListByUser method
func (m *MockCreditRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.CreditTransaction, int, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, offset, limit)
	}
	return []*entity.CreditTransaction{}, 0, nil
}
