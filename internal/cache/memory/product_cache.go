package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
	"github.com/Gunvolt24/orders-api/pkg/metrics"
)

// Проверка, что LRUCacheTTL удовлетворяет порту ProductCache.
var _ ports.ProductCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        string
	product   *domain.Product
	expiresAt time.Time
}

// LRUCacheTTL — кэш каталога: вытеснение по LRU, истечение по TTL.
// ttl <= 0 отключает истечение.
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (c *LRUCacheTTL) Get(_ context.Context, id string) (*domain.Product, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	// Продлеваем жизнь записи при обращении.
	if c.ttl > 0 {
		ent.expiresAt = c.expiryFrom(now)
	}

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneProduct(ent.product), true
}

func (c *LRUCacheTTL) Set(_ context.Context, p *domain.Product) error {
	if p == nil || p.ID == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[p.ID]; ok {
		ent := elem.Value.(*entry)
		ent.product = cloneProduct(p)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        p.ID,
		product:   cloneProduct(p),
		expiresAt: c.expiryFrom(now),
	})
	c.index[p.ID] = elem
	metrics.CacheSize.Set(float64(len(c.index)))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

func (c *LRUCacheTTL) WarmUp(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Set(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
