package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account in the database. Accounts are never
// physically deleted; IsActive=false is a soft disable.
type User struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	TimeZone     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// UserPreferences holds per-user UI defaults, created alongside the account.
type UserPreferences struct {
	PreferenceID         uuid.UUID
	UserID               uuid.UUID
	Theme                string
	Language             string
	NotificationsEnabled bool
	EmailNotifications   bool
	TasksPerPage         int
	DefaultTaskView      string
	UpdatedAt            time.Time
}

// DefaultPreferences returns the preferences row created at registration.
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		PreferenceID:         uuid.New(),
		UserID:               userID,
		Theme:                "light",
		Language:             "en-US",
		NotificationsEnabled: true,
		EmailNotifications:   true,
		TasksPerPage:         10,
		DefaultTaskView:      "list",
	}
}

// Identity is the authenticated subject attached to a request context.
// It does not outlive the request.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse represents an authentication response with a bearer token and
// user summary.
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidateResponse is the body of GET /api/auth/validate. Always 200; the
// boolean is the only signal.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Summary converts a User to its API-safe representation.
func (u *User) Summary() UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}
