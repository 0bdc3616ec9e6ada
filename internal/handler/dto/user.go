package dto

import (
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the account.
type LoginResponse struct {
	Token  string       `json:"token"`
	Expire string       `json:"expire"`
	User   UserResponse `json:"user"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
}

// ChangePasswordRequest carries a credential rotation.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UserResponse is the public view of an account. The password hash
// never leaves the server.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Credits     int    `json:"credits"`
	Tier        string `json:"tier"`
	IsVerified  bool   `json:"is_verified"`
	LastLoginAt string `json:"last_login_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ToUserResponse converts a user entity into its public view.
func ToUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Credits:    u.Credits,
		Tier:       string(u.Tier),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		resp.LastLoginAt = u.LastLoginAt.Format(time.RFC3339)
	}
	return resp
}
