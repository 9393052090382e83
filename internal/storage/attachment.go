// Package storage は添付画像のオブジェクトストレージゲートウェイを提供する。
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner は署名付きアップロードURLの生成に必要なインターフェース。
// *s3.PresignClientの部分集合として定義する。署名はローカル計算のみで、
// ネットワーク呼び出しを伴わない。
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// SDKクライアントがインターフェースを満たすことをコンパイル時に確認する
var _ Presigner = (*s3.PresignClient)(nil)

// AttachmentStorage は連絡先の添付画像を保管するオブジェクトストレージの
// ゲートウェイ。公開URLの組み立てと、時間制限付きアップロードURLの発行を行う。
type AttachmentStorage struct {
	presigner     Presigner
	bucketName    string
	urlExpiration time.Duration
}

// NewAttachmentStorage はAttachmentStorageを生成する。
func NewAttachmentStorage(presigner Presigner, bucketName string, urlExpiration time.Duration) *AttachmentStorage {
	return &AttachmentStorage{
		presigner:     presigner,
		bucketName:    bucketName,
		urlExpiration: urlExpiration,
	}
}

// BucketName は添付画像を保管するバケット名を返す。
func (s *AttachmentStorage) BucketName() string {
	return s.bucketName
}

// ObjectKey は連絡先IDに対応するオブジェクトキーを返す。
// 公開URLとアップロードURLは必ず同一のキーを指す。
func (s *AttachmentStorage) ObjectKey(contactID string) string {
	return fmt.Sprintf("images/%s.png", contactID)
}

// PublicURL は連絡先IDから決定的に導出される添付画像の公開URLを返す。
func (s *AttachmentStorage) PublicURL(contactID string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucketName, s.ObjectKey(contactID))
}

// GenerateUploadURL は連絡先IDに対応するオブジェクトキーへの書き込みを許可する
// 時間制限付き署名URLを発行する。URLは追加の認証なしでPUTに使用できる。
func (s *AttachmentStorage) GenerateUploadURL(ctx context.Context, contactID string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.ObjectKey(contactID)),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.urlExpiration
	})
	if err != nil {
		return "", fmt.Errorf("署名付きURLの生成に失敗しました: %w", err)
	}
	return req.URL, nil
}
