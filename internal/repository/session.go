package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository is the persisted ledger of issued tokens. Rows are only
// ever inserted or flagged inactive; nothing here deletes except the sweep.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row. Every login and registration mints a
// fresh row; concurrent sessions for one user are expected.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO user_sessions (session_id, user_id, token_hash, device_info, ip_address, is_active, expires_at, last_used_at)
	          VALUES (?, ?, ?, ?, ?, 1, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		session.SessionID, session.UserID, session.TokenHash,
		session.DeviceInfo, session.IPAddress,
		session.ExpiresAt, session.LastUsedAt,
	)
	return err
}

// FindActiveByHash looks up the active session for a token fingerprint.
// Expiry is intentionally not filtered here; callers re-check it so a
// lapsed sweep never extends a session's life.
func (r *SessionRepository) FindActiveByHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	query := `SELECT session_id, user_id, token_hash, device_info, ip_address, is_active, expires_at, created_at, last_used_at
	          FROM user_sessions WHERE token_hash = ? AND is_active = 1`

	session := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.SessionID, &session.UserID, &session.TokenHash,
		&session.DeviceInfo, &session.IPAddress, &session.IsActive,
		&session.ExpiresAt, &session.CreatedAt, &session.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// Invalidate flips a session inactive. Invalidating an already-inactive or
// missing session is a no-op.
func (r *SessionRepository) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	query := `UPDATE user_sessions SET is_active = 0 WHERE session_id = ?`
	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}

// Touch stamps the session's last_used_at.
func (r *SessionRepository) Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	query := `UPDATE user_sessions SET last_used_at = ? WHERE session_id = ?`
	_, err := r.db.ExecContext(ctx, query, at, sessionID)
	return err
}

// SweepExpired removes all sessions whose expiry has passed and returns the
// number of rows removed.
func (r *SessionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM user_sessions WHERE expires_at < ?`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountActiveByUser returns the number of active sessions held by a user.
func (r *SessionRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM user_sessions WHERE user_id = ? AND is_active = 1`
	var n int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&n)
	return n, err
}
