package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/contactman/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// errorフィールドにユーザー向けメッセージ、codeに機械可読なエラーコードを含む。
type ErrorResponseBody struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Category string `json:"category"`
	Action   string `json:"action,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Error:    apiErr.Message,
		Code:     apiErr.Code,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
