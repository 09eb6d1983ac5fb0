package ports

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

// ProductValidator — доменная валидация записи фида каталога.
type ProductValidator interface {
	Validate(ctx context.Context, p *domain.Product) error
}
