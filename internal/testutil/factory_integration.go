//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeProduct — валидная запись каталога для тестов.
func MakeProduct(opts ...func(*domain.Product)) domain.Product {
	p := domain.Product{
		ID:        uuid.New().String(),
		Name:      "Widget " + UniqSuffix(),
		Price:     decimal.RequireFromString("5.00"),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	for _, fn := range opts {
		fn(&p)
	}
	return p
}

func WithPrice(s string) func(*domain.Product) {
	return func(p *domain.Product) { p.Price = decimal.RequireFromString(s) }
}

// MakeOrder — валидный заказ для тестов (одна позиция, total = qty × price).
func MakeOrder(customerID string, opts ...func(*domain.Order)) domain.Order {
	price := decimal.RequireFromString("5.00")
	o := domain.Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Status:     domain.StatusActive,
		Total:      price.Mul(decimal.NewFromInt(7)),
		Items: []domain.LineItem{
			{ProductID: uuid.New().String(), Quantity: 7, UnitPrice: price},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithStatus(st domain.Status) func(*domain.Order) {
	return func(o *domain.Order) { o.Status = st }
}

func WithItems(items []domain.LineItem, total decimal.Decimal) func(*domain.Order) {
	return func(o *domain.Order) {
		o.Items = items
		o.Total = total
	}
}

// SeedCustomer — заводит клиента напрямую в БД (в обход ядра).
func SeedCustomer(ctx context.Context, pool *pgxpool.Pool, id string, role domain.Role) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO customers (id, username, role) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, id, "user-"+id, string(role))
	return err
}
