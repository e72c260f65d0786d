package crypto

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("HashPassword() = %q, want PHC argon2id format", hash)
	}
}

func TestHashPasswordEncodesDefaultParams(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if !strings.Contains(hash, "$m=131072,t=2,p=4$") {
		t.Errorf("HashPassword() = %q, want default params m=131072,t=2,p=4 encoded", hash)
	}

	params, _, _, err := decodeHash(hash)
	if err != nil {
		t.Fatalf("decodeHash() unexpected error: %v", err)
	}
	if params != DefaultHashParams() {
		t.Errorf("decoded params = %+v, want %+v", params, DefaultHashParams())
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	match, err := VerifyPassword("Str0ng!Pass", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() unexpected error: %v", err)
	}
	if !match {
		t.Error("VerifyPassword() = false for correct password")
	}

	match, err = VerifyPassword("wrongpass", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() unexpected error: %v", err)
	}
	if match {
		t.Error("VerifyPassword() = true for wrong password")
	}
}

func TestVerifyPasswordBadFormat(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-phc-hash"); err == nil {
		t.Error("VerifyPassword() expected error for malformed hash")
	}

	if _, err := VerifyPassword("anything", "$bcrypt$v=19$m=1,t=1,p=1$abc$def"); err == nil {
		t.Error("VerifyPassword() expected error for non-argon2id hash")
	}
}

func TestTokenFingerprint(t *testing.T) {
	fp := TokenFingerprint("some.bearer.token")
	if len(fp) != 64 {
		t.Errorf("TokenFingerprint() length = %d, want 64 hex chars", len(fp))
	}
	if fp != TokenFingerprint("some.bearer.token") {
		t.Error("TokenFingerprint() should be deterministic")
	}
	if fp == TokenFingerprint("other.bearer.token") {
		t.Error("TokenFingerprint() should differ for different tokens")
	}
}
