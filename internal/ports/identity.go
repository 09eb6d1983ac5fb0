package ports

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

// Identity — разрешение входящего токена в актора.
// Отсутствующий, невалидный и истёкший токен неразличимы для вызывающего:
// все три случая — ошибка аутентификации до любой бизнес-логики.
type Identity interface {
	Resolve(ctx context.Context, token string) (domain.Actor, error)
}
