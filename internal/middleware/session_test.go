package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/cakery/internal/model"
)

// mockSessionFinder はSessionFinderのテスト用モック。
type mockSessionFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.findByIDFunc(ctx, id)
}

// --- NewSessionResolver のテスト ---

func TestSessionResolver_InjectsUserIDForValidSession(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			if id != "valid-session-id" {
				t.Errorf("session ID = %q, want %q", id, "valid-session-id")
			}
			return &model.Session{
				ID:        id,
				UserID:    "user-123",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}

	var gotUserID string
	handler := NewSessionResolver(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cakes", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "valid-session-id"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if gotUserID != "user-123" {
		t.Errorf("user ID in context = %q, want %q", gotUserID, "user-123")
	}
}

func TestSessionResolver_NoCookiePassesThroughAnonymous(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			t.Error("FindByID should not be called without a cookie")
			return nil, nil
		},
	}

	handlerCalled := false
	handler := NewSessionResolver(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if _, err := UserIDFromContext(r.Context()); err == nil {
			t.Error("user ID should not be present for anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cakes", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("next handler should be called for anonymous request")
	}
}

func TestSessionResolver_UnknownSessionPassesThroughAnonymous(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil // 未知または期限切れ
		},
	}

	handlerCalled := false
	handler := NewSessionResolver(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cakes", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "expired-or-unknown"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("next handler should be called when session is unknown")
	}
}

func TestSessionResolver_StoreErrorReturns500(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, errors.New("connection refused")
		},
	}

	handler := NewSessionResolver(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called on store error")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cakes", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "any-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	// ストア由来のメッセージがそのまま返る
	if body.Message != "connection refused" {
		t.Errorf("message = %q, want %q", body.Message, "connection refused")
	}
}

// --- NewRequireAuth のテスト ---

func TestRequireAuth_AllowsAuthenticatedRequest(t *testing.T) {
	handlerCalled := false
	handler := NewRequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cakes", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-123"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("next handler should be called for authenticated request")
	}
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRequireAuth_Returns401ForAnonymousRequest(t *testing.T) {
	handler := NewRequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for anonymous request")
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/cakes/abc", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Code != model.ErrCodeUnauthorized {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
	}
}

// --- コンテキストヘルパーのテスト ---

func TestUserIDFromContext(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-xyz")

	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-xyz" {
		t.Errorf("user ID = %q, want %q", userID, "user-xyz")
	}

	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for context without user ID")
	}
}
