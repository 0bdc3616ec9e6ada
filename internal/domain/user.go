package domain

import (
	"context"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// ============ Repository interfaces ============

// UserRepository is the data-access boundary for accounts.
type UserRepository interface {
	// Create persists a new user with the given starting balance.
	Create(ctx context.Context, email, username, passwordHash string, credits int) (*entity.User, error)

	// GetByEmail looks a user up by email, used during login.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByUsername looks a user up by username.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// GetByID looks a user up by primary key.
	GetByID(ctx context.Context, userID string) (*entity.User, error)

	// UpdateProfile applies the non-credential profile fields.
	UpdateProfile(ctx context.Context, userID string, username *string) (*entity.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// UpdateCredits sets the user's balance to the given value.
	UpdateCredits(ctx context.Context, userID string, credits int) error

	// UpdateLastLogin stamps the last successful login time.
	UpdateLastLogin(ctx context.Context, userID string) error

	// Delete removes the account.
	Delete(ctx context.Context, userID string) error
}

// ============ Usecase interfaces ============

// UserUsecase implements account registration, login and profile logic.
type UserUsecase interface {
	// Register validates input, hashes the password and creates the
	// account with the signup credit grant.
	Register(ctx context.Context, email, username, password string) (*entity.User, error)

	// Login verifies credentials and returns the account.
	Login(ctx context.Context, email, password string) (*entity.User, error)

	// GetUser fetches the account for the authenticated subject.
	GetUser(ctx context.Context, userID string) (*entity.User, error)

	// UpdateProfile changes mutable profile fields.
	UpdateProfile(ctx context.Context, userID string, username *string) (*entity.User, error)

	// ChangePassword verifies the old password and stores a new hash.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error

	// DeleteUser removes the account and everything it owns.
	DeleteUser(ctx context.Context, userID string) error
}
