//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
	pgrepo "github.com/Gunvolt24/orders-api/internal/repo/postgres"
	"github.com/Gunvolt24/orders-api/internal/testutil"
)

// Подъём контейнера + миграции; возвращает готовое окружение.
func startPG(t *testing.T) *testutil.PGContainer {
	t.Helper()

	// длинный контекст — только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))
	return pg
}

// 1) Сохранение и получение заказа
func TestRepo_CreateAndGet_TC(t *testing.T) {
	t.Parallel()

	pg := startPG(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := pgrepo.NewOrderRepository(pg.Pool)

	const cust = "cust-save"
	require.NoError(t, testutil.SeedCustomer(ctx, pg.Pool, cust, domain.RoleCustomer))

	ord := testutil.MakeOrder(cust)
	require.NoError(t, repo.Create(ctx, &ord))

	got, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, ord.ID, got.ID)
	require.Equal(t, cust, got.CustomerID)
	require.Equal(t, domain.StatusActive, got.Status)
	require.True(t, got.Total.Equal(ord.Total), "total: want %s, got %s", ord.Total, got.Total)

	require.Len(t, got.Items, 1)
	require.Equal(t, ord.Items[0].ProductID, got.Items[0].ProductID)
	require.Equal(t, ord.Items[0].Quantity, got.Items[0].Quantity)
	require.True(t, got.Items[0].UnitPrice.Equal(ord.Items[0].UnitPrice))
}

// 2) Порядок позиций сохраняется как при создании
func TestRepo_Create_PreservesItemOrder_TC(t *testing.T) {
	t.Parallel()

	pg := startPG(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := pgrepo.NewOrderRepository(pg.Pool)

	const cust = "cust-items"
	require.NoError(t, testutil.SeedCustomer(ctx, pg.Pool, cust, domain.RoleCustomer))

	p1 := testutil.MakeProduct()
	p2 := testutil.MakeProduct(testutil.WithPrice("0.10"))
	p3 := testutil.MakeProduct(testutil.WithPrice("2.50"))
	items := []domain.LineItem{
		{ProductID: p1.ID, Quantity: 1, UnitPrice: p1.Price},
		{ProductID: p2.ID, Quantity: 3, UnitPrice: p2.Price},
		{ProductID: p3.ID, Quantity: 2, UnitPrice: p3.Price},
	}
	total := decimal.RequireFromString("10.30") // 5.00 + 0.30 + 5.00

	ord := testutil.MakeOrder(cust, testutil.WithItems(items, total))
	require.NoError(t, repo.Create(ctx, &ord))

	got, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 3)
	for i := range items {
		require.Equal(t, items[i].ProductID, got.Items[i].ProductID, "position %d", i)
		require.Equal(t, items[i].Quantity, got.Items[i].Quantity, "position %d", i)
	}
}

// 3) Удаление: пре-образ заказа, каскад позиций, повтор — (nil, nil)
func TestRepo_DeleteByID_PreImageAndCascade_TC(t *testing.T) {
	t.Parallel()

	pg := startPG(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := pgrepo.NewOrderRepository(pg.Pool)

	const cust = "cust-del"
	require.NoError(t, testutil.SeedCustomer(ctx, pg.Pool, cust, domain.RoleCustomer))

	ord := testutil.MakeOrder(cust)
	require.NoError(t, repo.Create(ctx, &ord))

	deleted, err := repo.DeleteByID(ctx, ord.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	require.Equal(t, ord.ID, deleted.ID)
	require.True(t, deleted.Total.Equal(ord.Total))
	require.Len(t, deleted.Items, 1, "pre-image must include line items")

	// записи больше нет
	got, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	// каскад: позиций не осталось
	var n int
	require.NoError(t, pg.Pool.QueryRow(ctx,
		`SELECT count(*) FROM order_items WHERE order_id = $1`, ord.ID).Scan(&n))
	require.Zero(t, n)

	// повторное удаление — уже нечего удалять
	again, err := repo.DeleteByID(ctx, ord.ID)
	require.NoError(t, err)
	require.Nil(t, again)
}

// 4) List — фильтры по клиенту/статусу и порядок: новые первыми
func TestRepo_List_FiltersAndOrder_TC(t *testing.T) {
	t.Parallel()

	pg := startPG(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := pgrepo.NewOrderRepository(pg.Pool)

	const cust = "cust-list"
	const other = "cust-other"
	require.NoError(t, testutil.SeedCustomer(ctx, pg.Pool, cust, domain.RoleCustomer))
	require.NoError(t, testutil.SeedCustomer(ctx, pg.Pool, other, domain.RoleCustomer))

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	var ids []string
	for i := 0; i < 3; i++ {
		o := testutil.MakeOrder(cust)
		o.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if i == 2 {
			o.Status = domain.StatusComplete
		}
		require.NoError(t, repo.Create(ctx, &o))
		ids = append(ids, o.ID)
	}
	foreign := testutil.MakeOrder(other)
	require.NoError(t, repo.Create(ctx, &foreign))

	// Все заказы клиента, новые первыми
	all, err := repo.List(ctx, ports.OrderFilter{CustomerID: cust})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})
	for _, o := range all {
		require.Equal(t, cust, o.CustomerID)
		require.NotEmpty(t, o.Items)
	}

	// Клиент + статус
	active, err := repo.List(ctx, ports.OrderFilter{CustomerID: cust, Status: domain.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, o := range active {
		require.Equal(t, domain.StatusActive, o.Status)
	}

	complete, err := repo.List(ctx, ports.OrderFilter{CustomerID: cust, Status: domain.StatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	require.Equal(t, ids[2], complete[0].ID)

	// Без фильтра — все заказы, включая чужого клиента
	everything, err := repo.List(ctx, ports.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, everything, 4)
}

// 5) MarkComplete — односторонний переход ACTIVE -> COMPLETE
func TestRepo_MarkComplete_TC(t *testing.T) {
	t.Parallel()

	pg := startPG(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := pgrepo.NewOrderRepository(pg.Pool)

	const cust = "cust-complete"
	require.NoError(t, testutil.SeedCustomer(ctx, pg.Pool, cust, domain.RoleCustomer))

	ord := testutil.MakeOrder(cust)
	require.NoError(t, repo.Create(ctx, &ord))

	ok, err := repo.MarkComplete(ctx, ord.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, ord.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusComplete, got.Status)

	// повторно — уже COMPLETE
	ok, err = repo.MarkComplete(ctx, ord.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// несуществующий заказ
	ok, err = repo.MarkComplete(ctx, testutil.MakeOrder(cust).ID)
	require.NoError(t, err)
	require.False(t, ok)
}

// 6) GetByID по отсутствующему id — (nil, nil)
func TestRepo_GetByID_Missing_TC(t *testing.T) {
	t.Parallel()

	pg := startPG(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := pgrepo.NewOrderRepository(pg.Pool)

	got, err := repo.GetByID(ctx, "11111111-2222-4333-8444-555555555555")
	require.NoError(t, err)
	require.Nil(t, got)
}
