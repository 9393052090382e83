package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setRequiredEnv は必須環境変数を一括で設定するテストヘルパー。
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONTACTS_TABLE", "contacts")
	t.Setenv("CONTACTS_INDEX_NAME", "userIdIndex")
	t.Setenv("ATTACHMENTS_BUCKET", "contacts-attachments")
	t.Setenv("AUTH_CERT", "-----BEGIN CERTIFICATE-----\n...\n-----END CERTIFICATE-----")
}

// 必須環境変数がすべて設定されている場合に読み込みが成功することを検証
func TestLoad_Success(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.TableName != "contacts" {
		t.Errorf("TableName = %q, want %q", cfg.TableName, "contacts")
	}
	if cfg.IndexName != "userIdIndex" {
		t.Errorf("IndexName = %q, want %q", cfg.IndexName, "userIdIndex")
	}
	if cfg.BucketName != "contacts-attachments" {
		t.Errorf("BucketName = %q, want %q", cfg.BucketName, "contacts-attachments")
	}
}

// 必須環境変数が未設定の場合にエラーになることを検証
func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONTACTS_TABLE", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "CONTACTS_TABLE") {
		t.Errorf("error = %q, want to contain CONTACTS_TABLE", err.Error())
	}
}

// オプション項目のデフォルト値を検証
func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SIGNED_URL_EXPIRATION", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGIN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.SignedURLExpiration != 300*time.Second {
		t.Errorf("SignedURLExpiration = %v, want %v", cfg.SignedURLExpiration, 300*time.Second)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "*")
	}
}

// SIGNED_URL_EXPIRATIONが秒数として解釈されることを検証
func TestLoad_SignedURLExpiration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SIGNED_URL_EXPIRATION", "900")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SignedURLExpiration != 900*time.Second {
		t.Errorf("SignedURLExpiration = %v, want %v", cfg.SignedURLExpiration, 900*time.Second)
	}
}

// AUTH_CERT_FILEから証明書が読み込まれることを検証
func TestLoad_AuthCertFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_CERT", "")

	certPath := filepath.Join(t.TempDir(), "cert.pem")
	content := "-----BEGIN CERTIFICATE-----\nfromfile\n-----END CERTIFICATE-----"
	if err := os.WriteFile(certPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write cert file: %v", err)
	}
	t.Setenv("AUTH_CERT_FILE", certPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AuthCert != content {
		t.Errorf("AuthCert = %q, want %q", cfg.AuthCert, content)
	}
}
