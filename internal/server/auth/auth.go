// Package auth проверяет bearer-токены запросов к протоколу синхронизации.
// Без секрета проверяется только наличие токена; с секретом токен должен
// быть JWT (HS256), а его subject становится подтвержденным userId.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer значение iss выпускаемых токенов
const Issuer = "famsync"

var (
	// ErrMissingToken токен не передан
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken токен не прошел проверку
	ErrInvalidToken = errors.New("invalid token")
)

// Claims представляет JWT claims токена клиента синхронизации
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Identity результат проверки токена
type Identity struct {
	UserID   string // пусто, если токен не проверялся криптографически
	Verified bool
}

// Verifier проверяет bearer-токены
type Verifier struct {
	secret []byte
}

// NewVerifier создает проверку токенов. Пустой secret - режим проверки наличия.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifiesSignature сообщает, проверяется ли подпись
func (v *Verifier) VerifiesSignature() bool {
	return len(v.secret) > 0
}

// Verify проверяет токен
func (v *Verifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}
	if !v.VerifiesSignature() {
		return Identity{}, nil
	}

	claims, err := ParseToken(v.secret, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.UserID, Verified: true}, nil
}

// IssueToken создает JWT для пользователя (dev-инструмент сервера)
func IssueToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("secret is required")
	}
	now := time.Now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken валидирует и парсит JWT
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}

	return claims, nil
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity сохраняет результат проверки токена в контексте
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext извлекает результат проверки токена
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Authorize проверяет, что подтвержденная личность совпадает с userId запроса.
// Непроверенный токен (режим наличия) допускает любой userId.
func Authorize(ctx context.Context, userID string) bool {
	id, ok := FromContext(ctx)
	if !ok || !id.Verified {
		return true
	}
	return id.UserID == userID
}
