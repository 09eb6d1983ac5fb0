package ports

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

// CustomerRepository — справочник клиентов.
// Ядру нужен только факт существования: заказ для несуществующего клиента не создаётся.
type CustomerRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, c *domain.Customer) error
}
