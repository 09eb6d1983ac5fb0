package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status — статус заказа (закрытое множество значений).
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusComplete Status = "COMPLETE"
)

// ParseStatus — разбор строки статуса; (status, false) для незнакомых значений.
// Незнакомый статус в фильтре листинга — это «пустой результат», а не ошибка.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive:
		return StatusActive, true
	case StatusComplete:
		return StatusComplete, true
	default:
		return "", false
	}
}

// LineItem — позиция заказа: товар, количество и снимок цены на момент создания.
// UnitPrice фиксируется при создании: изменение каталога не меняет исторические суммы.
type LineItem struct {
	ProductID string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ItemRequest — позиция из клиентского запроса (до валидации и прайсинга).
type ItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Order — заказ клиента. CustomerID, Items и Total неизменяемы после создания;
// Status может перейти из ACTIVE в COMPLETE (в одну сторону).
type Order struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer"`
	Status     Status          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Items      []LineItem      `json:"products"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderQuery — фильтры листинга заказов (конъюнктивные).
// Status хранится сырой строкой: распознавание значения — забота листинга.
type OrderQuery struct {
	Customer string
	Status   string
}
