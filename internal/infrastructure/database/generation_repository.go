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

type generationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository returns the GORM-backed domain.GenerationRepository.
func NewGenerationRepository(db *gorm.DB) domain.GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Create(ctx context.Context, gen *entity.Generation) (*entity.Generation, error) {
	out := *gen
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}
	if out.Status == "" {
		out.Status = entity.StatusQueued
	}

	m, err := toGenerationModel(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create generation: %w", err)
	}
	return &out, nil
}

func (r *generationRepository) GetByID(ctx context.Context, userID, generationID string) (*entity.Generation, error) {
	var m generationModel
	q := r.db.WithContext(ctx).Where("id = ?", generationID)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Generation", generationID)
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return toGenerationEntity(&m), nil
}

func (r *generationRepository) List(ctx context.Context, userID string, status entity.GenerationStatus, offset, limit int) ([]*entity.Generation, int, error) {
	q := r.db.WithContext(ctx).Model(&generationModel{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count generations: %w", err)
	}

	var models []generationModel
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list generations: %w", err)
	}

	result := make([]*entity.Generation, len(models))
	for i := range models {
		result[i] = toGenerationEntity(&models[i])
	}
	return result, int(total), nil
}

func (r *generationRepository) Update(ctx context.Context, generationID string, upd *domain.GenerationUpdate) (*entity.Generation, error) {
	updates := map[string]any{}
	now := time.Now()
	if upd.Status != nil {
		updates["status"] = string(*upd.Status)
		switch *upd.Status {
		case entity.StatusProcessing:
			updates["started_at"] = now
		case entity.StatusCompleted, entity.StatusFailed, entity.StatusCancelled:
			updates["completed_at"] = now
		}
	}
	if upd.Progress != nil {
		updates["progress"] = entity.ClampProgress(*upd.Progress)
	}
	if upd.ErrorMessage != nil {
		updates["error_message"] = *upd.ErrorMessage
	}
	if upd.ResultURL != nil {
		updates["result_url"] = *upd.ResultURL
	}
	if upd.ResultMeta != nil {
		m := &generationModel{}
		tmp := &entity.Generation{ResultMeta: upd.ResultMeta}
		enc, err := toGenerationModel(tmp)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result meta: %w", err)
		}
		m.ResultMeta = enc.ResultMeta
		updates["result_meta"] = m.ResultMeta
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&generationModel{}).
			Where("id = ?", generationID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update generation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, domain.NewNotFoundError("Generation", generationID)
		}
	}
	return r.GetByID(ctx, "", generationID)
}

func (r *generationRepository) Stats(ctx context.Context, userID string) (*entity.GenerationStats, error) {
	stats := &entity.GenerationStats{}

	type row struct {
		Status string
		N      int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&generationModel{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate generations: %w", err)
	}
	for _, r := range rows {
		stats.TotalGenerations += r.N
		switch entity.GenerationStatus(r.Status) {
		case entity.StatusCompleted:
			stats.SuccessfulGenerations = r.N
		case entity.StatusFailed:
			stats.FailedGenerations = r.N
		}
	}

	var used *int
	err = r.db.WithContext(ctx).Model(&generationModel{}).
		Select("SUM(credits_used)").
		Where("user_id = ? AND status NOT IN ?", userID,
			[]string{string(entity.StatusCancelled)}).
		Scan(&used).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum credits: %w", err)
	}
	if used != nil {
		stats.TotalCreditsUsed = *used
	}

	type algoRow struct {
		Name string
		N    int
	}
	var top algoRow
	err = r.db.WithContext(ctx).
		Table("generations").
		Select("algorithms.name AS name, COUNT(*) AS n").
		Joins("JOIN algorithms ON algorithms.id = generations.algorithm_id").
		Where("generations.user_id = ?", userID).
		Group("algorithms.name").
		Order("n DESC").
		Limit(1).
		Scan(&top).Error
	if err == nil && top.Name != "" {
		stats.MostUsedAlgorithm = top.Name
	}

	return stats, nil
}
