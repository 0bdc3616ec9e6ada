package mocks

import (
	"context"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	CreateFunc          func(ctx context.Context, email, username, passwordHash string, credits int) (*entity.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*entity.User, error)
	GetByUsernameFunc   func(ctx context.Context, username string) (*entity.User, error)
	GetByIDFunc         func(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfileFunc   func(ctx context.Context, userID string, username *string) (*entity.User, error)
	UpdatePasswordFunc  func(ctx context.Context, userID, passwordHash string) error
	UpdateCreditsFunc   func(ctx context.Context, userID string, credits int) error
	UpdateLastLoginFunc func(ctx context.Context, userID string) error
	DeleteFunc          func(ctx context.Context, userID string) error
}

// Create mocks the Create method
func (m *MockUserRepository) Create(ctx context.Context, email, username, passwordHash string, credits int) (*entity.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, email, username, passwordHash, credits)
	}
	return &entity.User{
		ID:           "user-1",
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Credits:      credits,
		Tier:         entity.TierFree,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}, nil
}

// GetByEmail mocks the GetByEmail method
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return &entity.User{ID: "user-1", Email: email, IsActive: true}, nil
}

// GetByUsername mocks the GetByUsername method
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return &entity.User{ID: "user-1", Username: username, IsActive: true}, nil
}

// GetByID mocks the GetByID method
func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return &entity.User{ID: userID, IsActive: true}, nil
}

// UpdateProfile mocks the UpdateProfile method
func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID string, username *string) (*entity.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, username)
	}
	u := &entity.User{ID: userID, IsActive: true}
	if username != nil {
		u.Username = *username
	}
	return u, nil
}

// UpdatePassword mocks the UpdatePassword method
func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, passwordHash)
	}
	return nil
}

// UpdateCredits mocks the UpdateCredits method
func (m *MockUserRepository) UpdateCredits(ctx context.Context, userID string, credits int) error {
	if m.UpdateCreditsFunc != nil {
		return m.UpdateCreditsFunc(ctx, userID, credits)
	}
	return nil
}

// UpdateLastLogin mocks the UpdateLastLogin method
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, userID)
	}
	return nil
}

// Delete mocks the Delete method
func (m *MockUserRepository) Delete(ctx context.Context, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	return nil
}
