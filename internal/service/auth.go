package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/crypto"
	"github.com/taskforge/taskforge-api/internal/model"
	"github.com/taskforge/taskforge-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email format is invalid")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrFirstNameRequired  = errors.New("first name is required")
	ErrLastNameRequired   = errors.New("last name is required")
	ErrEmailTaken         = errors.New("email already registered")
)

// UserStore is the persistence surface AuthService needs for user records.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetActiveByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, phoneNumber string) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	CreatePreferences(ctx context.Context, prefs *model.UserPreferences) error
}

// SessionStore is the persistence surface AuthService needs for the session
// ledger.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	FindActiveByHash(ctx context.Context, tokenHash string) (*model.Session, error)
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
	Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// AuthService orchestrates registration, login, logout, and token validation.
// Tokens are self-validating JWTs, but every issued token also gets a row in
// the session ledger so it can be revoked server-side before its expiry. A
// token is accepted only when BOTH checks pass.
type AuthService struct {
	users     UserStore
	sessions  SessionStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions SessionStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new active user with a default preferences row, then
// issues a token and its session. The email must not already be registered.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, meta model.SessionMeta) (model.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return model.AuthResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		UserID:       uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		TimeZone:     "UTC",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	if err := s.users.CreatePreferences(ctx, model.DefaultPreferences(user.UserID)); err != nil {
		return model.AuthResponse{}, fmt.Errorf("creating preferences: %w", err)
	}

	return s.mintSession(ctx, user, meta)
}

// Login verifies credentials and issues a fresh token and session. Prior
// sessions stay active; concurrent logins coexist. Unknown email, disabled
// account, and wrong password all collapse into ErrInvalidCredentials so the
// response cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, meta model.SessionMeta) (model.AuthResponse, error) {
	user, err := s.users.GetActiveByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		return model.AuthResponse{}, fmt.Errorf("updating last login: %w", err)
	}
	user.LastLoginAt = &now

	return s.mintSession(ctx, user, meta)
}

// Logout invalidates the session behind a token. Unknown, malformed, or
// already-invalidated tokens are a silent no-op: logout is idempotent and
// never fails for lack of a target.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	session, err := s.sessions.FindActiveByHash(ctx, crypto.TokenFingerprint(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return s.sessions.Invalidate(ctx, session.SessionID)
}

// Authenticate resolves a token to an identity. It requires all of: a valid
// signature, a known active user matching the subject, an unexpired token,
// and an active unexpired session row. Either the token's own expiry or a
// revoked ledger row is sufficient to reject.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	email, err := crypto.ExtractSubject(token, s.jwtSecret)
	if err != nil {
		return nil, crypto.ErrInvalidToken
	}

	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, crypto.ErrInvalidToken
	}

	if !crypto.IsTokenValid(token, user.Email, s.jwtSecret) {
		return nil, crypto.ErrInvalidToken
	}

	now := time.Now()
	session, err := s.sessions.FindActiveByHash(ctx, crypto.TokenFingerprint(token))
	if err != nil || now.After(session.ExpiresAt) {
		return nil, crypto.ErrInvalidToken
	}

	// Best effort; a failed stamp must not reject the request.
	_ = s.sessions.Touch(ctx, session.SessionID, now)

	return &model.Identity{UserID: user.UserID, Email: user.Email}, nil
}

// Validate reports whether a token would be accepted. It is a pure predicate:
// false for every negative outcome, with no hint of which check failed.
func (s *AuthService) Validate(ctx context.Context, token string) bool {
	_, err := s.Authenticate(ctx, token)
	return err == nil
}

// GetUser returns the API-safe summary for a user ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return user.Summary(), nil
}

// ActiveSessionCount returns how many sessions the user currently holds.
func (s *AuthService) ActiveSessionCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.sessions.CountActiveByUser(ctx, userID)
}

// UpdateProfile persists the user's profile fields and returns the updated summary.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (model.UserResponse, error) {
	if req.FirstName == "" {
		return model.UserResponse{}, ErrFirstNameRequired
	}
	if req.LastName == "" {
		return model.UserResponse{}, ErrLastNameRequired
	}

	if err := s.users.UpdateProfile(ctx, userID, req.FirstName, req.LastName, req.PhoneNumber); err != nil {
		return model.UserResponse{}, err
	}
	return s.GetUser(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return ErrPasswordRequired
	}
	if len(req.NewPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := crypto.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !match {
		return ErrInvalidCredentials
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

// SweepExpiredSessions removes every session whose expiry has passed.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.SweepExpired(ctx, time.Now())
}

// mintSession issues a token for the user and records its ledger row. Always
// a fresh row: sessions accumulate rather than replace each other.
func (s *AuthService) mintSession(ctx context.Context, user *model.User, meta model.SessionMeta) (model.AuthResponse, error) {
	token, err := crypto.GenerateToken(user.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("generating token: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		SessionID:  uuid.New(),
		UserID:     user.UserID,
		TokenHash:  crypto.TokenFingerprint(token),
		DeviceInfo: meta.DeviceInfo,
		IPAddress:  meta.IPAddress,
		IsActive:   true,
		ExpiresAt:  now.Add(s.jwtExpiry),
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return model.AuthResponse{}, fmt.Errorf("creating session: %w", err)
	}

	return model.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.jwtExpiry.Seconds()),
		User:      user.Summary(),
	}, nil
}

func validateRegistration(req model.RegisterRequest) error {
	if req.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return ErrEmailInvalid
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}
	if len(req.Password) < 8 {
		return ErrPasswordTooShort
	}
	if req.FirstName == "" {
		return ErrFirstNameRequired
	}
	if req.LastName == "" {
		return ErrLastNameRequired
	}
	return nil
}
