// Package auth はベアラートークンの検証を提供する。
package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Effect は認可判定の結果を表す。
type Effect string

const (
	// EffectAllow はリクエストの実行を許可することを示す。
	EffectAllow Effect = "Allow"
	// EffectDeny はリクエストの実行を拒否することを示す。
	EffectDeny Effect = "Deny"
)

// Decision は認可判定の結果を表す。
// 許可の場合はトークンのsubjectクレームから取り出したユーザーIDを持つ。
type Decision struct {
	Effect Effect
	UserID string
}

// トークン検証の失敗理由。境界でのログ出力にのみ使用し、レスポンスには含めない。
var (
	ErrNoAuthHeader      = errors.New("authentication header is missing")
	ErrInvalidAuthHeader = errors.New("authentication header is malformed")
	ErrNoSubjectClaim    = errors.New("token has no subject claim")
)

// Verifier はRS256署名付きJWTをPEM証明書の公開鍵で検証するトークン検証器。
type Verifier struct {
	publicKey *rsa.PublicKey
}

// NewVerifier はPEM形式の証明書（または公開鍵）からVerifierを生成する。
func NewVerifier(pemData []byte) (*Verifier, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	var key any
	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		key = cert.PublicKey
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		key = pub
	default:
		return nil, fmt.Errorf("unsupported PEM block type: %s", block.Type)
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}

	return &Verifier{publicKey: rsaKey}, nil
}

// VerifyToken はAuthorizationヘッダー文字列を検証し、subjectクレームを返す。
// ヘッダーの存在、大文字小文字を区別しない"bearer "プレフィックス、
// RS256署名の検証のみを行う。その他のクレームは検査しない。
func (v *Verifier) VerifyToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrNoAuthHeader
	}
	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return "", ErrInvalidAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	tokenString := strings.TrimSpace(parts[1])

	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return v.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrNoSubjectClaim
	}

	return sub, nil
}

// Authorize はAuthorizationヘッダーを検証して認可判定を返す。
// 検証に成功した場合はAllowとユーザーID、失敗した場合はDenyを返す。
func (v *Verifier) Authorize(authHeader string) Decision {
	userID, err := v.VerifyToken(authHeader)
	if err != nil {
		return Decision{Effect: EffectDeny}
	}
	return Decision{Effect: EffectAllow, UserID: userID}
}
