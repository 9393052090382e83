// Package contact は連絡先管理のドメインロジックを提供する。
package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/contactman/internal/model"
	"github.com/hitoshi/contactman/internal/repository"
)

// AttachmentStorage は添付画像ストレージに必要なインターフェース。
// storage.AttachmentStorageの部分集合として定義する。
type AttachmentStorage interface {
	// PublicURL は連絡先IDから決定的に導出される公開URLを返す。
	PublicURL(contactID string) string
	// GenerateUploadURL は時間制限付きアップロードURLを発行する。
	GenerateUploadURL(ctx context.Context, contactID string) (string, error)
}

// MetricsRecorder はサービス層のメトリクス記録に必要なインターフェース。
type MetricsRecorder interface {
	RecordContactCreated()
	RecordUploadURLIssued()
}

// Service は連絡先管理のサービス層。
// 入力のバリデーション、識別子とタイムスタンプの割り当て、所有者の検査、
// 2つのゲートウェイへの呼び出しの調停を行う。呼び出し間で共有する
// インメモリ状態は持たない。
type Service struct {
	repo    repository.ContactRepository
	storage AttachmentStorage
	metrics MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnilでもよい。
func NewService(repo repository.ContactRepository, storage AttachmentStorage, metrics MetricsRecorder) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		metrics: metrics,
	}
}

// Create は連絡先を新規作成して保存し、識別子を含む完全なレコードを返す。
// 名前または電話番号が空の場合はValidationErrorを返す。
func (s *Service) Create(ctx context.Context, userID, name, phone string) (*model.Contact, error) {
	if name == "" {
		return nil, model.NewValidationError("name")
	}
	if phone == "" {
		return nil, model.NewValidationError("phone")
	}

	contact := &model.Contact{
		UserID:    userID,
		ContactID: uuid.New().String(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Done:      false,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("連絡先の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordContactCreated()
	}

	return contact, nil
}

// Get は呼び出し元が所有する連絡先を1件返す。
// 存在しない場合、または別の所有者のレコードの場合はNotFoundを返す。
func (s *Service) Get(ctx context.Context, userID, contactID string) (*model.Contact, error) {
	return s.findOwned(ctx, userID, contactID)
}

// List は呼び出し元が所有する連絡先の一覧を返す。順序は保証しない。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Contact, error) {
	contacts, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("連絡先一覧の取得に失敗しました: %w", err)
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	return contacts, nil
}

// Update は連絡先の名前と電話番号を上書きする。
// 識別子、タイムスタンプ、所有者、添付URLは変更しない。
func (s *Service) Update(ctx context.Context, userID, contactID, name, phone string) error {
	if _, err := s.findOwned(ctx, userID, contactID); err != nil {
		return err
	}

	if err := s.repo.UpdateNamePhone(ctx, contactID, userID, name, phone); err != nil {
		return fmt.Errorf("連絡先の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は連絡先を削除する。呼び出し元が所有するレコードが存在しない場合は
// NotFoundを返す。
func (s *Service) Delete(ctx context.Context, userID, contactID string) error {
	if _, err := s.findOwned(ctx, userID, contactID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, contactID, userID); err != nil {
		return fmt.Errorf("連絡先の削除に失敗しました: %w", err)
	}
	return nil
}

// GenerateUploadURL は添付画像の時間制限付きアップロードURLを発行する。
// 同一オブジェクトキーの決定的な公開URLをレコードの添付URLとして永続化し、
// 署名付きアップロードURL（永続化しない）を返す。
func (s *Service) GenerateUploadURL(ctx context.Context, userID, contactID string) (string, error) {
	if _, err := s.findOwned(ctx, userID, contactID); err != nil {
		return "", err
	}

	uploadURL, err := s.storage.GenerateUploadURL(ctx, contactID)
	if err != nil {
		return "", fmt.Errorf("アップロードURLの発行に失敗しました: %w", err)
	}

	attachmentURL := s.storage.PublicURL(contactID)
	if err := s.repo.UpdateAttachmentURL(ctx, contactID, userID, attachmentURL); err != nil {
		return "", fmt.Errorf("添付URLの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordUploadURLIssued()
	}

	return uploadURL, nil
}

// findOwned は変更系操作の前に呼ぶ認可ガード。
// (contactID, userID)のレコードが存在しない場合はNotFoundを返す。
// 所有者不一致は存在しない場合と区別できない。
func (s *Service) findOwned(ctx context.Context, userID, contactID string) (*model.Contact, error) {
	contact, err := s.repo.FindByID(ctx, contactID, userID)
	if err != nil {
		return nil, fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}
	if contact == nil {
		return nil, model.NewContactNotFoundError(contactID)
	}
	return contact, nil
}
