package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hitoshi/contactman/internal/model"
)

// DynamoDBClient は連絡先リポジトリが必要とするDynamoDB操作のインターフェース。
// *dynamodb.Clientの部分集合として定義し、テストではインメモリ実装に差し替える。
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// SDKクライアントがインターフェースを満たすことをコンパイル時に確認する
var _ DynamoDBClient = (*dynamodb.Client)(nil)

// DynamoContactRepo はContactRepositoryのDynamoDB実装。
// テーブルは(contactId, userId)の複合キー、セカンダリインデックスは
// userIdをキーとする。各操作は1リクエストで完結し、単一アイテム粒度で
// アトミックに適用される。
type DynamoContactRepo struct {
	client    DynamoDBClient
	tableName string
	indexName string
}

// NewDynamoContactRepo はDynamoContactRepoを生成する。
func NewDynamoContactRepo(client DynamoDBClient, tableName, indexName string) *DynamoContactRepo {
	return &DynamoContactRepo{
		client:    client,
		tableName: tableName,
		indexName: indexName,
	}
}

// contactKey は複合主キーの属性マップを組み立てる。
func contactKey(contactID, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"contactId": &types.AttributeValueMemberS{Value: contactID},
		"userId":    &types.AttributeValueMemberS{Value: userID},
	}
}

// FindByID は複合キーで連絡先を1件取得する。見つからない場合はnilを返す。
func (r *DynamoContactRepo) FindByID(ctx context.Context, contactID, userID string) (*model.Contact, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       contactKey(contactID, userID),
	})
	if err != nil {
		return nil, fmt.Errorf("連絡先の取得に失敗しました: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var contact model.Contact
	if err := attributevalue.UnmarshalMap(out.Item, &contact); err != nil {
		return nil, fmt.Errorf("連絡先のデコードに失敗しました: %w", err)
	}
	return &contact, nil
}

// ListByUserID はセカンダリインデックスで指定ユーザーの連絡先を全件取得する。
func (r *DynamoContactRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Contact, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("連絡先一覧の取得に失敗しました: %w", err)
	}

	contacts := make([]*model.Contact, 0, len(out.Items))
	for _, item := range out.Items {
		var contact model.Contact
		if err := attributevalue.UnmarshalMap(item, &contact); err != nil {
			return nil, fmt.Errorf("連絡先のデコードに失敗しました: %w", err)
		}
		contacts = append(contacts, &contact)
	}
	return contacts, nil
}

// Create は連絡先を1アイテムとして保存する。
func (r *DynamoContactRepo) Create(ctx context.Context, contact *model.Contact) error {
	item, err := attributevalue.MarshalMap(contact)
	if err != nil {
		return fmt.Errorf("連絡先のエンコードに失敗しました: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("連絡先の保存に失敗しました: %w", err)
	}
	return nil
}

// UpdateNamePhone は名前と電話番号のみを更新する。
func (r *DynamoContactRepo) UpdateNamePhone(ctx context.Context, contactID, userID, name, phone string) error {
	if _, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              contactKey(contactID, userID),
		UpdateExpression: aws.String("set #name = :n, #phone = :p"),
		ExpressionAttributeNames: map[string]string{
			"#name":  "name",
			"#phone": "phone",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberS{Value: name},
			":p": &types.AttributeValueMemberS{Value: phone},
		},
	}); err != nil {
		return fmt.Errorf("連絡先の更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateAttachmentURL は添付URLのみを更新する。
func (r *DynamoContactRepo) UpdateAttachmentURL(ctx context.Context, contactID, userID, attachmentURL string) error {
	if _, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              contactKey(contactID, userID),
		UpdateExpression: aws.String("set #attachmentUrl = :a"),
		ExpressionAttributeNames: map[string]string{
			"#attachmentUrl": "attachmentUrl",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a": &types.AttributeValueMemberS{Value: attachmentURL},
		},
	}); err != nil {
		return fmt.Errorf("添付URLの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は連絡先を削除する。キーが存在しない場合も正常終了する（冪等）。
func (r *DynamoContactRepo) Delete(ctx context.Context, contactID, userID string) error {
	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       contactKey(contactID, userID),
	}); err != nil {
		return fmt.Errorf("連絡先の削除に失敗しました: %w", err)
	}
	return nil
}
