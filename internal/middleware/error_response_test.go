package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/contactman/internal/model"
)

// エラーレスポンスが統一フォーマットで書き込まれることを検証
func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusNotFound, model.NewContactNotFoundError("c-1"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeContactNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeContactNotFound)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
}

// 内部エラーレスポンスが詳細を含まないことを検証
func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want %q", body.Code, "INTERNAL_ERROR")
	}
}
