//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	cachemem "github.com/Gunvolt24/orders-api/internal/cache/memory"
	"github.com/Gunvolt24/orders-api/internal/domain"
	ikafka "github.com/Gunvolt24/orders-api/internal/kafka"
	"github.com/Gunvolt24/orders-api/internal/ports"
	pgrepo "github.com/Gunvolt24/orders-api/internal/repo/postgres"
	"github.com/Gunvolt24/orders-api/internal/testutil"
	"github.com/Gunvolt24/orders-api/internal/usecase"
	"github.com/Gunvolt24/orders-api/pkg/logger"
	"github.com/Gunvolt24/orders-api/pkg/validate"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// 1) Валидное сообщение фида попадает в каталог
func TestKafka_ValidFeed_Upserted_TC(t *testing.T) {
	ctx, cancel, _, repo, svc, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup("products-itc-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 5 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, svc, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	// даём консьюмеру присоединиться к группе/получить assignment
	time.Sleep(1500 * time.Millisecond)

	p := testutil.MakeProduct()
	raw, _ := json.Marshal(p)
	require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, raw))

	got := waitProduct(t, ctx, repo, p.ID, 20*time.Second)
	require.Equal(t, p.Name, got.Name)
	require.True(t, got.Price.Equal(p.Price))
}

// 2) Мусор и невалидная запись пропускаются, следующая валидная — сохраняется
func TestKafka_Skip_Invalid_Then_Upsert_TC(t *testing.T) {
	ctx, cancel, _, repo, svc, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup("products-invalid-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 3 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, svc, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	time.Sleep(1500 * time.Millisecond)

	// 1) мусор
	require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, []byte("not-a-json")))

	// 2) валидный JSON, но пустое имя => доменная валидация свалится
	bad := testutil.MakeProduct()
	bad.Name = ""
	braw, _ := json.Marshal(bad)
	require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, braw))

	// 3) валидная запись
	ok := testutil.MakeProduct()
	oraw, _ := json.Marshal(ok)
	require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, oraw))

	got := waitProduct(t, ctx, repo, ok.ID, 20*time.Second)
	require.Equal(t, ok.ID, got.ID)

	// испорченная запись в каталог не попала
	gotBad, err := repo.GetByID(ctx, bad.ID)
	require.NoError(t, err)
	require.Nil(t, gotBad)
}

// 3) StartOffset="last": сообщения, опубликованные до старта консьюмера, игнорируются
func TestKafka_StartOffset_Last_IgnoresOld_TC(t *testing.T) {
	ctx, cancel, _, repo, svc, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup("products-last-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	// 1) Публикуем "старое" ДО консьюмера
	old := testutil.MakeProduct()
	rold, _ := json.Marshal(old)
	require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, rold))

	// 2) Запускаем консьюмера с StartOffset="last"
	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "last",
	}, svc, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	// 3) Публикуем новое несколько раз до появления в БД — так одно из сообщений
	//    гарантированно окажется после позиции, с которой читает консьюмер.
	fresh := testutil.MakeProduct()
	rnew, _ := json.Marshal(fresh)

	deadline := time.Now().Add(20 * time.Second)
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, rnew))

		gotNew, err := repo.GetByID(ctx, fresh.ID)
		require.NoError(t, err)
		if gotNew != nil {
			require.Equal(t, fresh.ID, gotNew.ID)
			// "старое" не попало
			gotOld, err := repo.GetByID(ctx, old.ID)
			require.NoError(t, err)
			require.Nil(t, gotOld)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("fresh product %s not saved in time", fresh.ID)
		}
		<-ticker.C
	}
}

// 4) At-least-once через рестарт: при временной ошибке и отсутствии коммита — передоставка
func TestKafka_Redelivery_AfterRestart_NoCommit_TC(t *testing.T) {
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "products-itc")
	require.NoError(t, err)
	defer func() { _ = stopKF(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = closer() }()

	topic, group := testutil.UniqueTopicAndGroup("products-redelivery-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	p := testutil.MakeProduct()
	raw, _ := json.Marshal(p)
	require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, raw))

	// Фаза 1: всегда временная ошибка => оффсет НЕ коммитится
	consumerFail := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 300 * time.Millisecond,
		RetryInitial:   100 * time.Millisecond,
		RetryMax:       300 * time.Millisecond,
	}, alwaysTempFailApplier{}, logg)

	runCtx1, cancelRun1 := context.WithCancel(ctx)
	go func() { _ = consumerFail.Run(runCtx1) }()

	// ждём, чтобы сообщение точно было Fetch'ed и обработка упала
	time.Sleep(2 * time.Second)
	cancelRun1() // выходим без коммита

	// Фаза 2: поднимаем PG и нормальный сервис каталога
	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	defer pool.Close()

	repo := pgrepo.NewProductRepository(pool)
	svc := usecase.NewCatalogService(repo, cachemem.NewLRUCacheTTL(100, time.Minute), validate.NewProductValidator(), logg)

	consumerOK := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		GroupID:     group, // та же группа — перехватываем некоммиченное
		StartOffset: "first",
	}, svc, logg)

	runCtx2, cancelRun2 := context.WithCancel(ctx)
	defer cancelRun2()
	go func() { _ = consumerOK.Run(runCtx2) }()

	got := waitProduct(t, ctx, repo, p.ID, 25*time.Second)
	require.Equal(t, p.ID, got.ID)
}

// 5) Идемпотентность фида: одно и то же сообщение дважды — одна финальная запись
func TestKafka_Idempotent_DuplicateMessage_TC(t *testing.T) {
	ctx, cancel, pool, repo, svc, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup("products-dup-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "first",
	}, svc, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()
	time.Sleep(1500 * time.Millisecond)

	p := testutil.MakeProduct(testutil.WithPrice("9.99"))
	raw, _ := json.Marshal(p)
	require.NoError(t, testutil.WriteFeedMessages(ctx, kf.Brokers[0], topic, raw, raw))

	got := waitProduct(t, ctx, repo, p.ID, 20*time.Second)
	require.True(t, got.Price.Equal(p.Price))

	// в каталоге ровно одна запись этого товара (PK по id, upsert)
	var n int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE id = $1`, p.ID).Scan(&n))
	require.Equal(t, 1, n)
}

// -----------------функции-помощники-----------------

func newStack(t *testing.T) (
	ctx context.Context,
	cancel func(),
	pool *pgxpool.Pool,
	repo *pgrepo.ProductRepository,
	svc *usecase.CatalogService,
	logg ports.Logger,
	cleanup func(),
	kf *testutil.KafkaEnv,
) {
	t.Helper()

	// Длинный контекст — на контейнеры
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "products-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	// Короткий контекст — сам тест
	ctx, cancel = context.WithTimeout(context.Background(), 60*time.Second)

	pool, err = pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	var closer func() error
	logg, closer, err = logger.NewZapLogger(false)
	require.NoError(t, err)
	cleanup = func() { _ = closer() }

	repo = pgrepo.NewProductRepository(pool)
	svc = usecase.NewCatalogService(repo, cachemem.NewLRUCacheTTL(100, time.Minute), validate.NewProductValidator(), logg)
	return
}

func waitProduct(t *testing.T, ctx context.Context, repo *pgrepo.ProductRepository, id string, timeout time.Duration) *domain.Product {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		if got != nil {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("product %s not saved in time", id)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// временная "сетеподобная" ошибка
type tempNetErr struct{}

func (tempNetErr) Error() string   { return "temporary failure" }
func (tempNetErr) Temporary() bool { return true }
func (tempNetErr) Timeout() bool   { return true } // как у net.Error

type alwaysTempFailApplier struct{}

func (alwaysTempFailApplier) ApplyFeedMessage(context.Context, []byte) error {
	return tempNetErr{}
}
