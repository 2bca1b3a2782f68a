package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const csrfPurpose = "csrf"

// ErrInvalidCSRFToken はCSRFトークンが無効な場合のエラーです。
var ErrInvalidCSRFToken = errors.New("invalid csrf token")

// csrfClaims はフォームに埋め込むトークンのクレームです。
type csrfClaims struct {
	Nonce   string `json:"nonce"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// CSRFService はフォーム用CSRFトークンの生成と検証を扱います。
// トークンは HS256 で署名され、nonce クレームが Cookie の値と一致する必要があります。
type CSRFService struct {
	secret []byte
	ttl    time.Duration
}

// NewCSRFService は新しいCSRFServiceを作成します。secret が空ならプロセスごとの乱数を使います。
func NewCSRFService(secret string, ttl time.Duration) *CSRFService {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("Fatal: could not generate CSRF secret: %v", err)
		}
		log.Println("CSRF_SECRET not set; using a random per-process secret")
	}
	return &CSRFService{secret: key, ttl: ttl}
}

// NewNonce は Cookie に保存する nonce を生成します。
func (s *CSRFService) NewNonce() string {
	return uuid.NewString()
}

// GenerateToken は nonce に紐づいたトークンを生成します。
func (s *CSRFService) GenerateToken(nonce string) (string, error) {
	claims := &csrfClaims{
		Nonce:   nonce,
		Purpose: csrfPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign csrf token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はトークンを検証し、nonce が一致するかを確認します。
func (s *CSRFService) ValidateToken(tokenString, nonce string) error {
	if tokenString == "" || nonce == "" {
		return ErrInvalidCSRFToken
	}
	var claims csrfClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCSRFToken, err)
	}
	if !token.Valid || claims.Purpose != csrfPurpose || claims.Nonce != nonce {
		return ErrInvalidCSRFToken
	}
	return nil
}
