package usecase

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
	"github.com/routinnet/routix-platform-ai/internal/domain/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func notFoundUserRepo() *mocks.MockUserRepository {
	return &mocks.MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			return nil, domain.NewNotFoundError("User", email)
		},
		GetByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
			return nil, domain.NewNotFoundError("User", username)
		},
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		username    string
		password    string
		setupRepo   func() *mocks.MockUserRepository
		wantErr     bool
		errContains string
	}{
		{
			name:      "valid registration",
			email:     "alice@example.com",
			username:  "alice",
			password:  "password123",
			setupRepo: notFoundUserRepo,
		},
		{
			name:     "email already taken",
			email:    "taken@example.com",
			username: "alice",
			password: "password123",
			setupRepo: func() *mocks.MockUserRepository {
				repo := notFoundUserRepo()
				repo.GetByEmailFunc = func(ctx context.Context, email string) (*entity.User, error) {
					return &entity.User{ID: "existing", Email: email}, nil
				}
				return repo
			},
			wantErr:     true,
			errContains: "already exists",
		},
		{
			name:     "username already taken",
			email:    "alice@example.com",
			username: "taken",
			password: "password123",
			setupRepo: func() *mocks.MockUserRepository {
				repo := notFoundUserRepo()
				repo.GetByUsernameFunc = func(ctx context.Context, username string) (*entity.User, error) {
					return &entity.User{ID: "existing", Username: username}, nil
				}
				return repo
			},
			wantErr:     true,
			errContains: "already exists",
		},
		{
			name:        "invalid email",
			email:       "not-an-email",
			username:    "alice",
			password:    "password123",
			setupRepo:   notFoundUserRepo,
			wantErr:     true,
			errContains: "invalid email",
		},
		{
			name:        "username too short",
			email:       "alice@example.com",
			username:    "ab",
			password:    "password123",
			setupRepo:   notFoundUserRepo,
			wantErr:     true,
			errContains: "3-50 characters",
		},
		{
			name:        "username with illegal characters",
			email:       "alice@example.com",
			username:    "alice!",
			password:    "password123",
			setupRepo:   notFoundUserRepo,
			wantErr:     true,
			errContains: "letters, numbers, and underscores",
		},
		{
			name:        "password too short",
			email:       "alice@example.com",
			username:    "alice",
			password:    "12345",
			setupRepo:   notFoundUserRepo,
			wantErr:     true,
			errContains: "at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUserUsecase(tt.setupRepo(), &mocks.MockCreditRepository{}, 10, testLogger())

			user, err := uc.Register(context.Background(), tt.email, tt.username, tt.password)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != tt.username {
				t.Fatalf("expected username %q, got %q", tt.username, user.Username)
			}
			if user.PasswordHash == tt.password {
				t.Fatal("password stored in plain text")
			}
			if user.Credits != 10 {
				t.Fatalf("expected signup credits 10, got %d", user.Credits)
			}
		})
	}
}

func TestRegisterRecordsSignupBonus(t *testing.T) {
	var recorded *entity.CreditTransaction
	creditRepo := &mocks.MockCreditRepository{
		RecordFunc: func(ctx context.Context, tx *entity.CreditTransaction) (*entity.CreditTransaction, error) {
			recorded = tx
			return tx, nil
		},
	}

	uc := NewUserUsecase(notFoundUserRepo(), creditRepo, 10, testLogger())
	if _, err := uc.Register(context.Background(), "alice@example.com", "alice", "password123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorded == nil {
		t.Fatal("no ledger entry recorded for signup bonus")
	}
	if recorded.Type != entity.TxBonus || recorded.Amount != 10 {
		t.Fatalf("unexpected ledger entry: %+v", recorded)
	}
}

func TestChangePassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	stored := &entity.User{ID: "user-1", PasswordHash: string(hash), IsActive: true}

	tests := []struct {
		name        string
		oldPassword string
		newPassword string
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid rotation",
			oldPassword: "oldpassword",
			newPassword: "newpassword",
		},
		{
			name:        "wrong current password",
			oldPassword: "wrong",
			newPassword: "newpassword",
			wantErr:     true,
			errContains: "current password is incorrect",
		},
		{
			name:        "new password too short",
			oldPassword: "oldpassword",
			newPassword: "short",
			wantErr:     true,
			errContains: "at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var storedHash string
			repo := &mocks.MockUserRepository{
				GetByIDFunc: func(ctx context.Context, userID string) (*entity.User, error) {
					return stored, nil
				},
				UpdatePasswordFunc: func(ctx context.Context, userID, passwordHash string) error {
					storedHash = passwordHash
					return nil
				},
			}
			uc := NewUserUsecase(repo, &mocks.MockCreditRepository{}, 0, testLogger())

			err := uc.ChangePassword(context.Background(), "user-1", tt.oldPassword, tt.newPassword)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err, tt.errContains)
				}
				if storedHash != "" {
					t.Fatal("password updated despite failed validation")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if storedHash == "" {
				t.Fatal("new password hash not stored")
			}
			if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(tt.newPassword)) != nil {
				t.Fatal("stored hash does not match the new password")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &entity.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	tests := []struct {
		name        string
		email       string
		password    string
		setupRepo   func() *mocks.MockUserRepository
		wantErr     bool
		errContains string
	}{
		{
			name:     "valid credentials",
			email:    "alice@example.com",
			password: "password123",
			setupRepo: func() *mocks.MockUserRepository {
				return &mocks.MockUserRepository{
					GetByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
						return stored, nil
					},
				}
			},
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "wrong",
			setupRepo: func() *mocks.MockUserRepository {
				return &mocks.MockUserRepository{
					GetByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
						return stored, nil
					},
				}
			},
			wantErr:     true,
			errContains: "invalid email or password",
		},
		{
			name:     "unknown email reports the same error as wrong password",
			email:    "nobody@example.com",
			password: "password123",
			setupRepo: func() *mocks.MockUserRepository {
				return notFoundUserRepo()
			},
			wantErr:     true,
			errContains: "invalid email or password",
		},
		{
			name:     "disabled account",
			email:    "alice@example.com",
			password: "password123",
			setupRepo: func() *mocks.MockUserRepository {
				return &mocks.MockUserRepository{
					GetByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
						disabled := *stored
						disabled.IsActive = false
						return &disabled, nil
					},
				}
			},
			wantErr:     true,
			errContains: "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUserUsecase(tt.setupRepo(), &mocks.MockCreditRepository{}, 0, testLogger())

			user, err := uc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != "user-1" {
				t.Fatalf("unexpected user: %+v", user)
			}
		})
	}
}
