package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Gunvolt24/orders-api/internal/apperr"
	"github.com/Gunvolt24/orders-api/internal/authz"
	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
	"github.com/Gunvolt24/orders-api/internal/pricing"
	"github.com/Gunvolt24/orders-api/pkg/metrics"
)

// Проверка, что OrderService удовлетворяет порту OrderService.
var _ ports.OrderService = (*OrderService)(nil)

// OrderService — контроллер жизненного цикла заказа (без знаний о транспорте).
// Последовательность фиксирована: валидация/существование -> авторизация -> хранилище;
// до первой неуспешной проверки мутаций не происходит.
type OrderService struct {
	repo      ports.OrderRepository    // хранилище заказов
	customers ports.CustomerRepository // справочник клиентов
	pricer    *pricing.Engine          // валидация позиций + расчёт итога
	log       ports.Logger
}

// NewOrderService — DI-конструктор.
func NewOrderService(
	repo ports.OrderRepository,
	customers ports.CustomerRepository,
	pricer *pricing.Engine,
	log ports.Logger,
) *OrderService {
	return &OrderService{
		repo:      repo,
		customers: customers,
		pricer:    pricer,
		log:       log,
	}
}

// Create — создать заказ для самого актора.
// Владелец всегда берётся из актора: из payload он не принимается.
// Порядок проверок: распознанность актора (400) -> существование клиента (404)
// -> валидация и прайсинг позиций -> авторизация -> запись.
func (s *OrderService) Create(ctx context.Context, actor domain.Actor, items []domain.ItemRequest) (*domain.Order, error) {
	if actor.ID == "" {
		return nil, apperr.Malformed("customer is required")
	}

	exists, err := s.customers.Exists(ctx, actor.ID)
	if err != nil {
		s.log.Errorf(ctx, "customers.Exists failed customer=%s err=%v", actor.ID, err)
		return nil, fmt.Errorf("check customer %s: %w", actor.ID, err)
	}
	if !exists {
		return nil, apperr.NotFound(fmt.Sprintf("customer %s does not exist", actor.ID))
	}

	lines, total, err := s.pricer.Price(ctx, items)
	if err != nil {
		return nil, err
	}

	if err := authz.Decide(actor, authz.OpCreate, actor.ID); err != nil {
		metrics.AuthzDenied.WithLabelValues(authz.OpCreate.String()).Inc()
		return nil, err
	}

	order := &domain.Order{
		ID:         uuid.New().String(),
		CustomerID: actor.ID,
		Status:     domain.StatusActive,
		Total:      total,
		Items:      lines,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		s.log.Errorf(ctx, "repo.Create failed order=%s err=%v", order.ID, err)
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	s.log.Infof(ctx, "order created id=%s customer=%s total=%s items=%d",
		order.ID, order.CustomerID, order.Total, len(order.Items))
	return order, nil
}

// List — заказы по фильтрам (конъюнкция).
// Для CUSTOMER эффективный фильтр всегда пересекается с customer == actor.id
// (после DecideList это ровно значение фильтра).
// Нераспознанный статус — корректный пустой результат, не ошибка.
func (s *OrderService) List(ctx context.Context, actor domain.Actor, q domain.OrderQuery) ([]*domain.Order, error) {
	if err := authz.DecideList(actor, q); err != nil {
		metrics.AuthzDenied.WithLabelValues(authz.OpList.String()).Inc()
		return nil, err
	}

	f := ports.OrderFilter{CustomerID: q.Customer}
	if q.Status != "" {
		st, ok := domain.ParseStatus(q.Status)
		if !ok {
			return []*domain.Order{}, nil
		}
		f.Status = st
	}

	orders, err := s.repo.List(ctx, f)
	if err != nil {
		s.log.Errorf(ctx, "repo.List failed customer=%s status=%s err=%v", q.Customer, q.Status, err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// Get — один заказ по id. Существование проверяется до авторизации,
// но чужой существующий заказ отдаётся клиенту как Forbidden, не как NotFound.
func (s *OrderService) Get(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	order, err := s.lookup(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(actor, authz.OpRead, order.CustomerID); err != nil {
		metrics.AuthzDenied.WithLabelValues(authz.OpRead.String()).Inc()
		return nil, err
	}
	return order, nil
}

// Delete — жёсткое удаление; возвращает заказ, каким он был до удаления.
// При гонке двух удалений одного id выигрывает ровно один вызов,
// второй получает ResourceNotFound.
func (s *OrderService) Delete(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	order, err := s.lookup(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(actor, authz.OpDelete, order.CustomerID); err != nil {
		metrics.AuthzDenied.WithLabelValues(authz.OpDelete.String()).Inc()
		return nil, err
	}

	deleted, err := s.repo.DeleteByID(ctx, orderID)
	if err != nil {
		s.log.Errorf(ctx, "repo.DeleteByID failed order=%s err=%v", orderID, err)
		return nil, fmt.Errorf("delete order: %w", err)
	}
	if deleted == nil {
		// Проиграли гонку параллельному удалению.
		return nil, apperr.NotFound(fmt.Sprintf("order %s does not exist", orderID))
	}

	metrics.OrdersDeleted.Inc()
	s.log.Infof(ctx, "order deleted id=%s customer=%s", deleted.ID, deleted.CustomerID)
	return deleted, nil
}

// lookup — заказ по id; синтаксически кривой id неотличим от отсутствующего (404).
func (s *OrderService) lookup(ctx context.Context, orderID string) (*domain.Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, apperr.NotFound(fmt.Sprintf("order %s does not exist", orderID))
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed order=%s err=%v", orderID, err)
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, apperr.NotFound(fmt.Sprintf("order %s does not exist", orderID))
	}
	return order, nil
}
