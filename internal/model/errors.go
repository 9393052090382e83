// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, contact, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeContactNotFound  = "CONTACT_NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
)

// NewContactNotFoundError は連絡先未検出エラーを生成する。
// 他ユーザーの連絡先への操作も、存在の確認を許さないため同一のエラーになる。
func NewContactNotFoundError(contactID string) *APIError {
	return &APIError{
		Code:     ErrCodeContactNotFound,
		Message:  fmt.Sprintf("指定された連絡先が見つかりません: %s", contactID),
		Category: "contact",
		Action:   "連絡先IDを確認してください。",
	}
}

// NewValidationError は必須項目が未入力の場合のエラーを生成する。
func NewValidationError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("必須項目が入力されていません: %s", field),
		Category: "validation",
		Action:   "名前と電話番号を入力してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析に失敗した場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewUnauthorizedError は認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "有効なトークンでログインし直してください。",
	}
}
