package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository handles user and preferences persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new active user. Uniqueness of email is enforced by the
// unique index; a collision surfaces as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (user_id, email, password_hash, first_name, last_name, phone_number, time_zone, is_active)
	          VALUES (?, ?, ?, ?, ?, ?, ?, 1)`

	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.PhoneNumber, user.TimeZone,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

const userColumns = `user_id, email, password_hash, first_name, last_name, phone_number, time_zone, is_active, created_at, updated_at, last_login_at`

// GetActiveByEmail retrieves an active user by exact email match.
func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? AND is_active = 1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by their ID, active or not.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateLastLogin stamps the user's last successful login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login_at = ? WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

// UpdateProfile persists the mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, phoneNumber string) error {
	query := `UPDATE users SET first_name = ?, last_name = ?, phone_number = ? WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, firstName, lastName, phoneNumber, id)
	return err
}

// UpdatePasswordHash replaces the user's stored password hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password_hash = ? WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, hash, id)
	return err
}

// CreatePreferences inserts the companion preferences row for a new user.
func (r *UserRepository) CreatePreferences(ctx context.Context, prefs *model.UserPreferences) error {
	query := `INSERT INTO user_preferences (preference_id, user_id, theme, language, notifications_enabled, email_notifications, tasks_per_page, default_task_view)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		prefs.PreferenceID, prefs.UserID, prefs.Theme, prefs.Language,
		prefs.NotificationsEnabled, prefs.EmailNotifications,
		prefs.TasksPerPage, prefs.DefaultTaskView,
	)
	return err
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.UserID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.PhoneNumber, &user.TimeZone,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
