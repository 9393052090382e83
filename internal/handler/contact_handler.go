// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/contactman/internal/middleware"
	"github.com/hitoshi/contactman/internal/model"
)

// ContactServiceInterface は連絡先ハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	// Create は連絡先を新規作成し、識別子を含む完全なレコードを返す。
	Create(ctx context.Context, userID, name, phone string) (*model.Contact, error)
	// List はユーザーが所有する連絡先の一覧を返す。
	List(ctx context.Context, userID string) ([]*model.Contact, error)
	// Update は連絡先の名前と電話番号を上書きする。
	Update(ctx context.Context, userID, contactID, name, phone string) error
	// Delete は連絡先を削除する。
	Delete(ctx context.Context, userID, contactID string) error
	// GenerateUploadURL は添付画像のアップロードURLを発行する。
	GenerateUploadURL(ctx context.Context, userID, contactID string) (string, error)
}

// ContactHandler は連絡先管理のHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{
		service: service,
	}
}

// contactRequest は連絡先の作成・更新リクエストのボディ。
type contactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// itemResponse は単一レコードのAPIレスポンス。
type itemResponse struct {
	Item *model.Contact `json:"item"`
}

// itemsResponse はレコード一覧のAPIレスポンス。
type itemsResponse struct {
	Items []*model.Contact `json:"items"`
}

// uploadURLResponse はアップロードURL発行のAPIレスポンス。
type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// apiErrorResponse は統一エラーフォーマットのAPIレスポンス。
type apiErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Category string `json:"category"`
	Action   string `json:"action,omitempty"`
}

// CreateContact は連絡先を作成する。
// POST /api/contacts
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	contact, err := h.service.Create(r.Context(), userID, req.Name, req.Phone)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(itemResponse{Item: contact})
}

// ListContacts はユーザーの連絡先一覧を取得する。
// GET /api/contacts
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contacts, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itemsResponse{Items: contacts})
}

// UpdateContact は連絡先の名前と電話番号を更新する。
// PUT /api/contacts/:id
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contactID := chi.URLParam(r, "id")

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.service.Update(r.Context(), userID, contactID, req.Name, req.Phone); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct{}{})
}

// DeleteContact は連絡先を削除する。
// DELETE /api/contacts/:id
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contactID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, contactID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(struct{}{})
}

// GenerateUploadURL は添付画像のアップロードURLを発行する。
// POST /api/contacts/:id/upload-url
func (h *ContactHandler) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contactID := chi.URLParam(r, "id")

	uploadURL, err := h.service.GenerateUploadURL(r.Context(), userID, contactID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(uploadURLResponse{UploadURL: uploadURL})
}

// SetupContactRoutes は連絡先管理関連のルーティングを設定したchi.Routerを返す。
func SetupContactRoutes(service ContactServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewContactHandler(service)

	r.Route("/api/contacts", func(r chi.Router) {
		r.Get("/", h.ListContacts)
		r.Post("/", h.CreateContact)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateContact)
			r.Delete("/", h.DeleteContact)
			r.Post("/upload-url", h.GenerateUploadURL)
		})
	})

	return r
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Error:    apiErr.Message,
		Code:     apiErr.Code,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeContactNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
