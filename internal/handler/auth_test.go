package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/middleware"
	"github.com/taskforge/taskforge-api/internal/model"
	"github.com/taskforge/taskforge-api/internal/repository"
	"github.com/taskforge/taskforge-api/internal/service"
)

func withTestIdentity(ctx context.Context, userID uuid.UUID, email string) context.Context {
	return middleware.WithIdentity(ctx, &model.Identity{UserID: userID, Email: email})
}

type memUserStore struct {
	users map[string]*model.User
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	if _, ok := s.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	cp := *user
	s.users[user.Email] = &cp
	return nil
}

func (s *memUserStore) GetActiveByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := s.users[email]
	if !ok || !user.IsActive {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, user := range s.users {
		if user.UserID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) UpdateLastLogin(context.Context, uuid.UUID, time.Time) error { return nil }
func (s *memUserStore) UpdateProfile(context.Context, uuid.UUID, string, string, string) error {
	return nil
}
func (s *memUserStore) UpdatePasswordHash(context.Context, uuid.UUID, string) error { return nil }
func (s *memUserStore) CreatePreferences(context.Context, *model.UserPreferences) error {
	return nil
}

type memSessionStore struct {
	sessions map[string]*model.Session
}

func (s *memSessionStore) Create(_ context.Context, session *model.Session) error {
	cp := *session
	s.sessions[session.TokenHash] = &cp
	return nil
}

func (s *memSessionStore) FindActiveByHash(_ context.Context, tokenHash string) (*model.Session, error) {
	session, ok := s.sessions[tokenHash]
	if !ok || !session.IsActive {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *memSessionStore) Invalidate(_ context.Context, sessionID uuid.UUID) error {
	for _, session := range s.sessions {
		if session.SessionID == sessionID {
			session.IsActive = false
		}
	}
	return nil
}

func (s *memSessionStore) Touch(context.Context, uuid.UUID, time.Time) error { return nil }
func (s *memSessionStore) SweepExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
func (s *memSessionStore) CountActiveByUser(context.Context, uuid.UUID) (int64, error) {
	return 1, nil
}

func newTestHandler() *AuthHandler {
	auth := service.NewAuthService(
		&memUserStore{users: make(map[string]*model.User)},
		&memSessionStore{sessions: make(map[string]*model.Session)},
		"handler-test-secret", time.Hour,
	)
	return NewAuthHandler(auth)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

const registerBody = `{"email":"ada@example.com","password":"correct-horse","first_name":"Ada","last_name":"Lovelace"}`

func TestHandleRegister(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}

	var resp model.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("email = %q", resp.User.Email)
	}
}

func TestHandleRegisterDuplicate(t *testing.T) {
	h := newTestHandler()

	postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)
	rec := postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandleRegisterValidation(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.HandleRegister, "/api/auth/register", `{"email":"ada@example.com","password":"short","first_name":"Ada","last_name":"Lovelace"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = postJSON(t, h.HandleRegister, "/api/auth/register", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestHandleRegisterOversizedBody(t *testing.T) {
	h := newTestHandler()

	huge := `{"email":"ada@example.com","password":"correct-horse","first_name":"` +
		strings.Repeat("A", 2<<20) + `","last_name":"Lovelace"}`
	rec := postJSON(t, h.HandleRegister, "/api/auth/register", huge)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandleLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newTestHandler()
	postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)

	unknown := postJSON(t, h.HandleLogin, "/api/auth/login", `{"email":"nobody@example.com","password":"correct-horse"}`)
	wrongPass := postJSON(t, h.HandleLogin, "/api/auth/login", `{"email":"ada@example.com","password":"wrong-password"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401 for both", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", unknown.Body, wrongPass.Body)
	}
}

func TestHandleLoginSuccess(t *testing.T) {
	h := newTestHandler()
	postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)

	rec := postJSON(t, h.HandleLogin, "/api/auth/login", `{"email":"ada@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}

	var resp model.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", resp.TokenType)
	}
}

func TestHandleLogoutAlways200(t *testing.T) {
	h := newTestHandler()

	reg := postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)
	var resp model.AuthResponse
	if err := json.Unmarshal(reg.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	headers := []string{
		"Bearer " + resp.Token, // real token
		"Bearer " + resp.Token, // second logout of the same token
		"Bearer garbage",
		"", // no header at all
	}
	for i, header := range headers {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.HandleLogout(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("logout #%d: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestHandleValidateAlways200(t *testing.T) {
	h := newTestHandler()

	reg := postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)
	var resp model.AuthResponse
	if err := json.Unmarshal(reg.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	validate := func(header string) model.ValidateResponse {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.HandleValidate(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var vr model.ValidateResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &vr); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		return vr
	}

	if vr := validate("Bearer " + resp.Token); !vr.Valid {
		t.Error("fresh token should be valid")
	}
	if vr := validate("Bearer garbage"); vr.Valid {
		t.Error("garbage token should be invalid")
	}
	if vr := validate(""); vr.Valid {
		t.Error("missing token should be invalid")
	}

	// Revoke, then the same token must flip to invalid.
	logoutReq := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	logoutReq.Header.Set("Authorization", "Bearer "+resp.Token)
	h.HandleLogout(httptest.NewRecorder(), logoutReq)

	if vr := validate("Bearer " + resp.Token); vr.Valid {
		t.Error("revoked token should be invalid")
	}
}

func TestHandleMe(t *testing.T) {
	h := newTestHandler()

	reg := postJSON(t, h.HandleRegister, "/api/auth/register", registerBody)
	var resp model.AuthResponse
	if err := json.Unmarshal(reg.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	h.HandleMe(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(withTestIdentity(req.Context(), resp.User.UserID, resp.User.Email))
	rec = httptest.NewRecorder()
	h.HandleMe(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}

	var body struct {
		User           model.UserResponse `json:"user"`
		ActiveSessions int64              `json:"active_sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.User.Email != "ada@example.com" {
		t.Errorf("email = %q", body.User.Email)
	}
	if body.ActiveSessions != 1 {
		t.Errorf("active_sessions = %d, want 1", body.ActiveSessions)
	}
}
