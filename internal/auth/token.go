package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/todoman/internal/model"
)

// bearerPrefix は発行トークンに付与するスキーム接頭辞。
const bearerPrefix = "Bearer "

// TokenIssuer は署名付きトークンの発行インターフェース。
type TokenIssuer interface {
	// CreateToken はユーザーの識別情報を含む署名付きトークンを発行する。
	// 戻り値は "Bearer " 接頭辞付き。
	CreateToken(userID int64, email string, role model.UserRole) (string, error)
}

// TokenVerifier はトークンの検証インターフェース。認証ミドルウェアが使用する。
type TokenVerifier interface {
	// VerifyToken は署名と有効期限を検証し、トークンに含まれる
	// 認証済みプリンシパルを返す。"Bearer " 接頭辞は剥がして渡すこと。
	VerifyToken(token string) (*model.AuthUser, error)
}

// claims はJWTに格納するクレーム。Subjectにユーザーidを保持する。
type claims struct {
	Email string `json:"email"`
	Role  string `json:"userRole"`
	jwt.RegisteredClaims
}

// JWTManager はHMAC署名によるTokenIssuer/TokenVerifier実装。
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time // テスト用に現在時刻を差し替え可能
}

var _ TokenVerifier = (*JWTManager)(nil)

// NewJWTManager はJWTManagerを生成する。
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// CreateToken はユーザーの識別情報を含むHS256署名トークンを発行する。
func (m *JWTManager) CreateToken(userID int64, email string, role model.UserRole) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return bearerPrefix + signed, nil
}

// VerifyToken は署名と有効期限を検証し、認証済みプリンシパルを返す。
func (m *JWTManager) VerifyToken(tokenString string) (*model.AuthUser, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}

	role, err := model.ParseUserRole(c.Role)
	if err != nil {
		return nil, fmt.Errorf("invalid role in token: %s", c.Role)
	}

	return &model.AuthUser{
		ID:    userID,
		Email: c.Email,
		Role:  role,
	}, nil
}

// StripBearerPrefix はAuthorizationヘッダー値から "Bearer " 接頭辞を取り除く。
// 接頭辞が無い場合は入力をそのまま返す。
func StripBearerPrefix(header string) string {
	return strings.TrimPrefix(header, bearerPrefix)
}

// compile-time interface checks
var (
	_ TokenIssuer   = (*JWTManager)(nil)
	_ TokenVerifier = (*JWTManager)(nil)
)
