// Пакет pricing — валидация списка позиций и расчёт стоимости заказа.
// Арифметика точная (decimal): одинаковый вход и состояние каталога
// всегда дают одинаковую сумму, без накопленной ошибки float.
package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/orders-api/internal/apperr"
	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
)

// Engine — движок прайсинга. Зависит только от каталога (read-only).
type Engine struct {
	catalog ports.ProductCatalog
}

// NewEngine — DI-конструктор.
func NewEngine(catalog ports.ProductCatalog) *Engine {
	return &Engine{catalog: catalog}
}

// Price — проверяет список позиций и считает итог.
// Ошибки различаются строго:
//   - пустой список, неположительное количество, синтаксически кривая
//     ссылка на товар -> MalformedRequest;
//   - валидная, но отсутствующая в каталоге ссылка -> ResourceNotFound
//     с именем товара.
//
// Позиции копируются как есть (товар + количество) со снимком цены.
func (e *Engine) Price(ctx context.Context, items []domain.ItemRequest) ([]domain.LineItem, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, apperr.Malformed("products list must not be empty")
	}

	lines := make([]domain.LineItem, 0, len(items))
	total := decimal.Zero

	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, decimal.Zero, apperr.Malformed(
				fmt.Sprintf("products[%d].quantity must be a positive integer", i))
		}
		if _, err := uuid.Parse(it.Product); err != nil {
			return nil, decimal.Zero, apperr.Malformed(
				fmt.Sprintf("products[%d].product is not a valid reference: %q", i, it.Product))
		}

		price, found, err := e.catalog.PriceOf(ctx, it.Product)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("catalog lookup %s: %w", it.Product, err)
		}
		if !found {
			return nil, decimal.Zero, apperr.NotFound(
				fmt.Sprintf("product %s does not exist", it.Product))
		}

		lines = append(lines, domain.LineItem{
			ProductID: it.Product,
			Quantity:  it.Quantity,
			UnitPrice: price,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return lines, total, nil
}
