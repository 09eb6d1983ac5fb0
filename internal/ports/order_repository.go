package ports

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

// OrderFilter — фильтр хранилища (конъюнкция непустых полей).
// Status здесь уже распознан: нераспознанные значения отсекаются на уровне листинга.
type OrderFilter struct {
	CustomerID string
	Status     domain.Status
}

// OrderRepository — хранилище заказов.
// Create и DeleteByID обязаны быть атомарными: при гонке двух удалений
// одного id ровно один вызов возвращает заказ, второй — (nil, nil).
type OrderRepository interface {
	// Create — сохранить новый заказ целиком (запись + позиции) в одной транзакции.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID — заказ по id; (nil, nil), если записи нет.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// DeleteByID — жёсткое удаление; возвращает заказ, каким он был до удаления,
	// либо (nil, nil), если записи уже нет.
	DeleteByID(ctx context.Context, id string) (*domain.Order, error)

	// List — заказы по фильтру, новые первыми.
	List(ctx context.Context, f OrderFilter) ([]*domain.Order, error)

	// MarkComplete — односторонний переход ACTIVE -> COMPLETE;
	// false, если заказа нет или он уже COMPLETE.
	MarkComplete(ctx context.Context, id string) (bool, error)
}
