package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenFingerprint returns a one-way storage key for a bearer token.
// The session ledger stores this instead of the raw token, so a leaked
// ledger cannot be replayed. SHA-256 rather than a slow password hash:
// the lookup happens on every authenticated request.
func TokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
