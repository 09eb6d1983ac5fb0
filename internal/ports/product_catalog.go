package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductCatalog — чтение цены из каталога при расчёте стоимости заказа.
// Запрос только читает: побочных эффектов на каталог у прайсинга нет.
type ProductCatalog interface {
	// PriceOf — цена за единицу; (price, true, nil) при наличии товара,
	// (zero, false, nil) для валидного, но отсутствующего id.
	PriceOf(ctx context.Context, productID string) (decimal.Decimal, bool, error)
}
