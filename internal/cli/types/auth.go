package types

// RegisterRequest represents the signup request payload
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User represents user information
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Credits     int    `json:"credits"`
	Tier        string `json:"tier"`
	LastLoginAt string `json:"last_login_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// LoginData represents the data returned after successful login
type LoginData struct {
	Token  string `json:"token"`
	Expire string `json:"expire"`
	User   *User  `json:"user"`
}
