package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/pkg/metrics"
)

// Len — текущее количество записей (для тестов и метрик).
func (c *LRUCacheTTL) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

func (c *LRUCacheTTL) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

func (c *LRUCacheTTL) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 || ent.expiresAt.IsZero() {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *LRUCacheTTL) removeElement(elem *list.Element) {
	ent := elem.Value.(*entry)
	c.ll.Remove(elem)
	delete(c.index, ent.id)
}

func (c *LRUCacheTTL) evictLRU() {
	back := c.ll.Back()
	if back == nil {
		return
	}
	c.removeElement(back)
	metrics.CacheOps.WithLabelValues("evict").Inc()
	metrics.CacheSize.Set(float64(len(c.index)))
}

// pruneExpiredFromBack — чистим протухший хвост перед вставкой,
// чтобы не вытеснять живые записи зря.
func (c *LRUCacheTTL) pruneExpiredFromBack(now time.Time) {
	for {
		back := c.ll.Back()
		if back == nil {
			return
		}
		ent := back.Value.(*entry)
		if !c.isExpired(ent, now) {
			return
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("expired").Inc()
	}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
