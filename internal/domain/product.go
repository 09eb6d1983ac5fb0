package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product — запись каталога: идентификатор, имя и текущая цена за единицу.
// Каталог пополняется фидом (Kafka) и читается при расчёте стоимости заказа.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}
