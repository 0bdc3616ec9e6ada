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

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the GORM-backed domain.UserRepository.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, email, username, passwordHash string, credits int) (*entity.User, error) {
	m := &userModel{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Credits:      credits,
		Tier:         string(entity.TierFree),
		IsActive:     true,
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewAlreadyExistsError("User", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserEntity(m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toUserEntity(&m), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("username = ? AND deleted_at IS NULL", username).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", username)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return toUserEntity(&m), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", userID)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return toUserEntity(&m), nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, username *string) (*entity.User, error) {
	updates := map[string]any{}
	if username != nil {
		updates["username"] = *username
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&userModel{}).
			Where("id = ? AND deleted_at IS NULL", userID).
			Updates(updates)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return nil, domain.NewAlreadyExistsError("User", *username)
			}
			return nil, fmt.Errorf("failed to update profile: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, domain.NewNotFoundError("User", userID)
		}
	}
	return r.GetByID(ctx, userID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}

func (r *userRepository) UpdateCredits(ctx context.Context, userID string, credits int) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update("credits", credits)
	if res.Error != nil {
		return fmt.Errorf("failed to update credits: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update("last_login_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to update last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}

// Delete soft-deletes the account.
func (r *userRepository) Delete(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}
