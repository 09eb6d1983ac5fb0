package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — реализация репозитория заказов на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// Create — транзакционно сохраняет заказ вместе с позициями.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return errors.New("order is empty or id is required")
	}
	if order.CustomerID == "" {
		return errors.New("customer_id is required")
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) orders — основная запись.
	if _, err = transaction.Exec(ctx, `
		INSERT INTO orders (id, customer_id, status, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, order.CustomerID, string(order.Status), order.Total, order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	// 2) order_items — через COPY.
	if len(order.Items) > 0 {
		if err = copyLineItems(ctx, transaction, order.ID, order.Items); err != nil {
			return err
		}
	}

	// Завершаем транзакцию
	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID — получить заказ по id. Если не нашли, возвращает (nil, nil).
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	var status string

	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, status, total, created_at
		FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerID, &status, &order.Total, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.Status(status)

	items, err := r.selectItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []domain.LineItem{}
	}

	return &order, nil
}

// DeleteByID — транзакционно удаляет заказ и возвращает его последнее состояние.
// Если заказа нет — (nil, nil). FOR UPDATE защищает от гонки двух удалений.
func (r *OrderRepository) DeleteByID(ctx context.Context, id string) (*domain.Order, error) {
	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	var order domain.Order
	var status string

	err = transaction.QueryRow(ctx, `
		SELECT id, customer_id, status, total, created_at
		FROM orders WHERE id = $1
		FOR UPDATE
	`, id).Scan(&order.ID, &order.CustomerID, &status, &order.Total, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order for delete: %w", err)
	}
	order.Status = domain.Status(status)

	// Позиции читаем до удаления — в ответе нужен снимок заказа целиком.
	rows, err := transaction.Query(ctx, `
		SELECT product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select items for delete: %w", err)
	}
	order.Items = []domain.LineItem{}
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("items rows: %w", err)
	}
	rows.Close()

	// items удалит каскад по FK.
	if _, err := transaction.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &order, nil
}

// List — список заказов по фильтру (покупатель и/или статус).
// Условия соединяются по AND; пустой фильтр вернёт все заказы.
func (r *OrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*domain.Order, error) {
	query := `
		SELECT id, customer_id, status, total, created_at
		FROM orders
	`
	args := make([]any, 0, 2)
	where := ""
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where = fmt.Sprintf("WHERE customer_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		if where == "" {
			where = fmt.Sprintf("WHERE status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}
	query += where + " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	byID := make(map[string]*domain.Order)
	ids := make([]string, 0)

	for rows.Next() {
		order := &domain.Order{}
		var status string
		if err := rows.Scan(&order.ID, &order.CustomerID, &status, &order.Total, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order base: %w", err)
		}
		order.Status = domain.Status(status)
		order.Items = []domain.LineItem{}
		orders = append(orders, order)
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil // пустая выборка
	}

	// Позиции для всех заказов выборки одним запросом.
	itemsByID, err := r.selectItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		if items := itemsByID[order.ID]; len(items) > 0 {
			order.Items = items
		}
	}
	return orders, nil
}

// MarkComplete — переводит активный заказ в COMPLETE.
// Возвращает false, если заказа нет или он уже завершён.
func (r *OrderRepository) MarkComplete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = 'COMPLETE'
		WHERE id = $1 AND status = 'ACTIVE'
	`, id)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// selectItems — позиции для набора заказов (сбор в map, порядок по position).
func (r *OrderRepository) selectItems(ctx context.Context, ids []string) (map[string][]domain.LineItem, error) {
	itemsByID := make(map[string][]domain.LineItem, len(ids))

	rows, err := r.pool.Query(ctx, `
		SELECT order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item domain.LineItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		itemsByID[orderID] = append(itemsByID[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("items rows: %w", err)
	}
	return itemsByID, nil
}

// copyLineItems — вставка позиций через COPY (CopyFromRows); быстрее, чем INSERT в цикле.
func copyLineItems(ctx context.Context, tx pgx.Tx, orderID string, items []domain.LineItem) error {
	rows := make([][]any, 0, len(items))
	for i, item := range items {
		rows = append(rows, []any{orderID, i, item.ProductID, item.Quantity, item.UnitPrice})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "position", "product_id", "quantity", "unit_price"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy items: %w", err)
	}
	return nil
}
