// Package model はドメインモデルを定義する。
package model

// Contact は連絡先レコードを表す。
// ストア上は1レコード=1アイテムで、(ContactID, UserID)の複合キーで一意に識別される。
// UserIDは作成時に検証済みトークンのsubjectクレームから割り当てられ、以後変更されない。
type Contact struct {
	UserID    string `json:"userId" dynamodbav:"userId"`
	ContactID string `json:"contactId" dynamodbav:"contactId"`
	Name      string `json:"name" dynamodbav:"name"`
	Phone     string `json:"phone" dynamodbav:"phone"`
	// CreatedAt は作成時に割り当てるISO-8601（RFC3339）形式のタイムスタンプ。不変。
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	// Done は作成時falseで初期化される完了フラグ。APIからは変更されない。
	Done bool `json:"done" dynamodbav:"done"`
	// AttachmentURL はアップロードURL発行済みの場合のみ設定される添付画像の公開URL。
	AttachmentURL string `json:"attachmentUrl,omitempty" dynamodbav:"attachmentUrl,omitempty"`
}
