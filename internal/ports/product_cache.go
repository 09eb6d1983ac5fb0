package ports

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

// ProductCache — кэш записей каталога.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type ProductCache interface {
	// Get — товар по id; (product, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, id string) (*domain.Product, bool)

	// Set — сохранить/обновить товар в кэше.
	Set(ctx context.Context, p *domain.Product) error

	// WarmUp — массовая загрузка кэша (например, при старте).
	WarmUp(ctx context.Context, products []*domain.Product) error
}
