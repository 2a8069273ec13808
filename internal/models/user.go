package models

import "time"

type Role int

// UserRole constants. The source system only ever defines two roles;
// any role below RoleAdmin is non-privileged.
const (
	RoleUser  Role = 1
	RoleAdmin Role = 99
)

// UserState constants
const (
	StateEnabled  = 1
	StateDisabled = 0
)

// User represents a user in the system
type User struct {
	ID           int       `json:"id"`
	Account      string    `json:"account"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Token        string    `json:"-"` // Last issued access token, never serialized
	Name         string    `json:"name"`
	Role         Role      `json:"role"` // 1=User, 99=Admin
	State        int       `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthPayload represents a login request
type AuthPayload struct {
	Account  string `json:"account" validate:"required,min=4,max=30"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

// AuthBody represents a successful login response
type AuthBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewAuthBody wraps an access token in a bearer response body
func NewAuthBody(accessToken string) *AuthBody {
	return &AuthBody{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
}

// CreateUserRequest represents an admin user creation request
type CreateUserRequest struct {
	Account  string `json:"account" validate:"required,min=4,max=30"`
	Password string `json:"password" validate:"required,min=6,max=50"`
	Name     string `json:"name" validate:"required,min=1,max=30"`
	Role     Role   `json:"role" validate:"required,min=1,max=99"`
}

// UserInfo is the public projection of a User. It never carries the
// password hash or the stored token.
type UserInfo struct {
	Account   string    `json:"account"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	State     int       `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserInfo projects a User to its public shape
func NewUserInfo(user *User) *UserInfo {
	return &UserInfo{
		Account:   user.Account,
		Name:      user.Name,
		Role:      user.Role,
		State:     user.State,
		CreatedAt: user.CreatedAt,
	}
}
