// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// 連絡先テーブル
	TableName string
	IndexName string

	// 添付画像ストレージ
	BucketName          string
	SignedURLExpiration time.Duration

	// トークン検証用のPEM証明書（RS256公開鍵を含む）
	AuthCert string

	// AWS
	AWSRegion string

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
// 証明書はAUTH_CERTに直接、またはAUTH_CERT_FILEでファイルパスとして指定する。
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.TableName = os.Getenv("CONTACTS_TABLE")
	if cfg.TableName == "" {
		missing = append(missing, "CONTACTS_TABLE")
	}

	cfg.IndexName = os.Getenv("CONTACTS_INDEX_NAME")
	if cfg.IndexName == "" {
		missing = append(missing, "CONTACTS_INDEX_NAME")
	}

	cfg.BucketName = os.Getenv("ATTACHMENTS_BUCKET")
	if cfg.BucketName == "" {
		missing = append(missing, "ATTACHMENTS_BUCKET")
	}

	cfg.AuthCert = os.Getenv("AUTH_CERT")
	if cfg.AuthCert == "" {
		if path := os.Getenv("AUTH_CERT_FILE"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read AUTH_CERT_FILE: %w", err)
			}
			cfg.AuthCert = string(data)
		}
	}
	if cfg.AuthCert == "" {
		missing = append(missing, "AUTH_CERT")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.SignedURLExpiration = time.Duration(getEnvInt("SIGNED_URL_EXPIRATION", 300)) * time.Second
	cfg.AWSRegion = getEnvString("AWS_REGION", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
