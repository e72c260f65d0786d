package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty string")
	}
}

func TestExtractSubject(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	subject, err := ExtractSubject(token, "test-secret")
	if err != nil {
		t.Fatalf("ExtractSubject() unexpected error: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("ExtractSubject() = %q, want %q", subject, "alice@example.com")
	}
}

func TestExtractSubjectMalformed(t *testing.T) {
	if _, err := ExtractSubject("not-a-valid-token", "test-secret"); err == nil {
		t.Error("ExtractSubject() expected error for malformed token")
	}
}

func TestExtractSubjectWrongSecret(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "correct-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if _, err := ExtractSubject(token, "wrong-secret"); err == nil {
		t.Error("ExtractSubject() expected error for wrong secret")
	}
}

func TestExtractSubjectIgnoresExpiry(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "test-secret", -time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	subject, err := ExtractSubject(token, "test-secret")
	if err != nil {
		t.Fatalf("ExtractSubject() unexpected error for expired token: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("ExtractSubject() = %q, want %q", subject, "alice@example.com")
	}
}

func TestIsTokenValid(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if !IsTokenValid(token, "alice@example.com", "test-secret") {
		t.Error("IsTokenValid() = false for a freshly issued token")
	}
}

func TestIsTokenValidSubjectMismatch(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if IsTokenValid(token, "bob@example.com", "test-secret") {
		t.Error("IsTokenValid() = true for a different subject")
	}
}

func TestIsTokenValidExpired(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if IsTokenValid(token, "alice@example.com", "test-secret") {
		t.Error("IsTokenValid() = true for an expired token")
	}
}

func TestIsTokenValidWrongSecret(t *testing.T) {
	token, err := GenerateToken("alice@example.com", "correct-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if IsTokenValid(token, "alice@example.com", "wrong-secret") {
		t.Error("IsTokenValid() = true for wrong secret")
	}
}

func TestIsTokenValidWrongIssuer(t *testing.T) {
	secret := "test-secret"

	claims := jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Audience:  jwt.ClaimStrings{tokenAudience},
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if IsTokenValid(tokenString, "alice@example.com", secret) {
		t.Error("IsTokenValid() = true for wrong issuer")
	}
}
