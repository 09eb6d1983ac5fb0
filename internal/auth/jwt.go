// Пакет auth — Identity Context: разрешение bearer-токена в актора.
// Выдача и проверка токенов механические; вся авторизация живёт в authz.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Gunvolt24/orders-api/internal/apperr"
	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
)

// Проверка, что JWTResolver удовлетворяет порту Identity.
var _ ports.Identity = (*JWTResolver)(nil)

// Claims — полезная нагрузка токена: стандартные поля + роль.
// Идентификатор клиента лежит в Subject.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// JWTResolver — HS256-резолвер токенов.
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

// Resolve — разбирает и проверяет токен.
// Невалидная подпись и истёкший срок дают одинаковый Unauthenticated:
// различие между ними клиенту не сообщается.
// Валидный токен без Subject возвращает актора с пустым ID — решение
// об отказе принимает ядро (оно не доверяет уровню аутентификации).
func (r *JWTResolver) Resolve(_ context.Context, tokenString string) (domain.Actor, error) {
	if tokenString == "" {
		return domain.Actor{}, apperr.Unauthenticated("token is missing")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return r.secret, nil
		})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, apperr.Unauthenticated("token is expired")
		}
		return domain.Actor{}, apperr.Unauthenticated("token is invalid")
	}
	if !token.Valid {
		return domain.Actor{}, apperr.Unauthenticated("token is invalid")
	}

	role, _ := domain.ParseRole(claims.Role)
	return domain.Actor{ID: claims.Subject, Role: role}, nil
}

// BuildToken — выпуск токена для актора (тесты, служебные утилиты).
// ttl <= 0 даёт уже истёкший токен — удобно для негативных сценариев.
func (r *JWTResolver) BuildToken(actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Role: string(actor.Role),
	})
	return token.SignedString(r.secret)
}
