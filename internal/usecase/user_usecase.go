package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

type userUsecase struct {
	userRepo      domain.UserRepository
	creditRepo    domain.CreditRepository
	signupCredits int
	logger        *slog.Logger
}

// NewUserUsecase wires account registration, login and profile logic.
func NewUserUsecase(
	userRepo domain.UserRepository,
	creditRepo domain.CreditRepository,
	signupCredits int,
	logger *slog.Logger,
) domain.UserUsecase {
	return &userUsecase{
		userRepo:      userRepo,
		creditRepo:    creditRepo,
		signupCredits: signupCredits,
		logger:        logger,
	}
}

// Register validates input, hashes the password and creates the account
// with the signup credit grant recorded in the ledger.
func (u *userUsecase) Register(ctx context.Context, email, username, password string) (*entity.User, error) {
	if err := u.validateRegisterRequest(email, username, password); err != nil {
		return nil, err
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.NewAlreadyExistsError("User", email)
	}
	if err != nil && !domain.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	existing, err = u.userRepo.GetByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, domain.NewAlreadyExistsError("User", username)
	}
	if err != nil && !domain.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := u.userRepo.Create(ctx, email, username, passwordHash, u.signupCredits)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if u.signupCredits > 0 {
		_, err := u.creditRepo.Record(ctx, &entity.CreditTransaction{
			UserID:      user.ID,
			Type:        entity.TxBonus,
			Amount:      u.signupCredits,
			Description: "welcome credits",
		})
		if err != nil {
			u.logger.Error("failed to record signup bonus", "error", err, "user_id", user.ID)
		}
	}

	u.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials against the stored hash. Both unknown
// email and wrong password report the same error.
func (u *userUsecase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, domain.NewForbiddenError("account is disabled")
	}

	if err := verifyPassword(user.PasswordHash, password); err != nil {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}

	// Stamp the login time off the request path.
	go func() {
		if err := u.userRepo.UpdateLastLogin(context.Background(), user.ID); err != nil {
			u.logger.Error("failed to update last login", "error", err, "user_id", user.ID)
		}
	}()

	u.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

func (u *userUsecase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID string, username *string) (*entity.User, error) {
	if username != nil {
		if !usernameRegex.MatchString(*username) {
			return nil, domain.NewInvalidInputError("username must be 3-50 characters and contain only letters, numbers, and underscores")
		}
	}
	return u.userRepo.UpdateProfile(ctx, userID, username)
}

// ChangePassword re-verifies the current password before storing the
// new hash, so a stolen token alone cannot rotate credentials.
func (u *userUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return domain.NewInvalidInputError("password must be at least 6 characters")
	}
	if len(newPassword) > 72 {
		return domain.NewInvalidInputError("password too long (max 72 characters)")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := verifyPassword(user.PasswordHash, oldPassword); err != nil {
		return domain.NewUnauthorizedError("current password is incorrect")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	u.logger.Info("password changed", "user_id", userID)
	return nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, userID string) error {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := u.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	u.logger.Info("user deleted", "user_id", userID)
	return nil
}

// ============ helpers ============

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func (u *userUsecase) validateRegisterRequest(email, username, password string) error {
	if !emailRegex.MatchString(email) {
		return domain.NewInvalidInputError("invalid email address")
	}
	if !usernameRegex.MatchString(username) {
		return domain.NewInvalidInputError("username must be 3-50 characters and contain only letters, numbers, and underscores")
	}
	if len(password) < 6 {
		return domain.NewInvalidInputError("password must be at least 6 characters")
	}
	if len(password) > 72 {
		return domain.NewInvalidInputError("password too long (max 72 characters)")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
