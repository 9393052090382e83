// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/contactman/internal/model"
)

// ContactRepository は連絡先データの永続化インターフェース。
// 所有者の検査はこの層では行わない。呼び出し側（サービス層）が
// 変更系操作の前に存在確認を行う。
type ContactRepository interface {
	// FindByID は(contactID, userID)の複合キーで連絡先を取得する。
	// 見つからない場合はエラーではなくnilを返す。
	FindByID(ctx context.Context, contactID, userID string) (*model.Contact, error)

	// ListByUserID はセカンダリインデックスで指定ユーザーの連絡先一覧を返す。
	// 順序は保証しない。
	ListByUserID(ctx context.Context, userID string) ([]*model.Contact, error)

	// Create は連絡先を保存する。同一キーが既に存在する場合は全体を上書きする。
	Create(ctx context.Context, contact *model.Contact) error

	// UpdateNamePhone は名前と電話番号のみを部分更新する。他の属性は変更しない。
	UpdateNamePhone(ctx context.Context, contactID, userID, name, phone string) error

	// UpdateAttachmentURL は添付URLのみを部分更新する。
	UpdateAttachmentURL(ctx context.Context, contactID, userID, attachmentURL string) error

	// Delete は連絡先を削除する。存在しないキーの削除はこの層ではエラーにしない。
	Delete(ctx context.Context, contactID, userID string) error
}
