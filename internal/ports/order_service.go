package ports

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

// OrderService — операции жизненного цикла заказа, какими их видит транспорт.
type OrderService interface {
	Create(ctx context.Context, actor domain.Actor, items []domain.ItemRequest) (*domain.Order, error)
	List(ctx context.Context, actor domain.Actor, q domain.OrderQuery) ([]*domain.Order, error)
	Get(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)
	Delete(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)
}
