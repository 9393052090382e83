package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/contactman/internal/auth"
)

// --- モック ---

// mockVerifier はTokenVerifierのモック実装。
type mockVerifier struct {
	authorizeFn func(authHeader string) auth.Decision
}

func (m *mockVerifier) Authorize(authHeader string) auth.Decision {
	return m.authorizeFn(authHeader)
}

// --- テスト ---

// Allow判定でユーザーIDがコンテキストに注入されることを検証
func TestAuthMiddleware_Allow(t *testing.T) {
	verifier := &mockVerifier{
		authorizeFn: func(authHeader string) auth.Decision {
			if authHeader != "Bearer token-abc" {
				t.Errorf("authHeader = %q, want %q", authHeader, "Bearer token-abc")
			}
			return auth.Decision{Effect: auth.EffectAllow, UserID: "user-123"}
		},
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("UserIDFromContext returned error: %v", err)
		}
		gotUserID = userID
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	w := httptest.NewRecorder()

	NewAuthMiddleware(verifier)(next).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotUserID != "user-123" {
		t.Errorf("userID = %q, want %q", gotUserID, "user-123")
	}
}

// Deny判定で401が返り、後続ハンドラーが実行されないことを検証
func TestAuthMiddleware_Deny(t *testing.T) {
	verifier := &mockVerifier{
		authorizeFn: func(authHeader string) auth.Decision {
			return auth.Decision{Effect: auth.EffectDeny}
		},
	}

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	w := httptest.NewRecorder()

	NewAuthMiddleware(verifier)(next).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if nextCalled {
		t.Error("next handler was called for denied request")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want %q", body.Code, "UNAUTHORIZED")
	}
}

// コンテキストにユーザーIDがない場合にエラーになることを検証
func TestUserIDFromContext_Missing(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}
