package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
)

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository — реализация репозитория покупателей на Postgres.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Exists — проверяет, что покупатель заведён в системе.
func (r *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("select customer: %w", err)
	}
	return exists, nil
}

// Create — заводит покупателя (идемпотентно по id).
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if customer == nil || customer.ID == "" {
		return errors.New("customer is empty or id is required")
	}
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, username, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			role = EXCLUDED.role
	`, customer.ID, customer.Username, string(customer.Role)); err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}
