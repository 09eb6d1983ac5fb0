package ports

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

// ProductRepository — хранилище каталога товаров.
type ProductRepository interface {
	// Upsert — идемпотентная вставка/обновление записи каталога (фид может повторяться).
	Upsert(ctx context.Context, p *domain.Product) error

	// GetByID — товар по id; (nil, nil), если записи нет.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// LastN — последние N обновлённых товаров (для прогрева кэша).
	LastN(ctx context.Context, n int) ([]*domain.Product, error)
}
