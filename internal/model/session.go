package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is one issued token in the ledger. The raw token is never stored;
// TokenHash is its one-way fingerprint. A user may hold many concurrent
// active sessions (multi-device); logout flips IsActive off.
type Session struct {
	SessionID  uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	DeviceInfo string
	IPAddress  string
	IsActive   bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// SessionMeta carries optional per-session request metadata.
type SessionMeta struct {
	DeviceInfo string
	IPAddress  string
}
