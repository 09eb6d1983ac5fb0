package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
)

// Проверка, что CatalogService удовлетворяет порту ProductCatalog.
var _ ports.ProductCatalog = (*CatalogService)(nil)

// CatalogService — чтение каталога (кэш поверх БД) и приём фида товаров.
type CatalogService struct {
	products  ports.ProductRepository
	cache     ports.ProductCache
	validator ports.ProductValidator
	log       ports.Logger
}

// NewCatalogService — DI-конструктор.
func NewCatalogService(
	products ports.ProductRepository,
	cache ports.ProductCache,
	validator ports.ProductValidator,
	log ports.Logger,
) *CatalogService {
	return &CatalogService{
		products:  products,
		cache:     cache,
		validator: validator,
		log:       log,
	}
}

// PriceOf — цена за единицу: сначала кэш, при промахе — БД с записью в кэш.
// (zero, false, nil) для валидного, но отсутствующего товара.
func (s *CatalogService) PriceOf(ctx context.Context, productID string) (decimal.Decimal, bool, error) {
	if p, found := s.cache.Get(ctx, productID); found {
		return p.Price, true, nil
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.log.Errorf(ctx, "products.GetByID failed product=%s err=%v", productID, err)
		return decimal.Zero, false, err
	}
	if p == nil {
		return decimal.Zero, false, nil
	}

	if setErr := s.cache.Set(ctx, p); setErr != nil {
		s.log.Warnf(ctx, "cache.Set failed product=%s err=%v", productID, setErr)
	}
	return p.Price, true, nil
}

// ApplyFeedMessage — применить сообщение фида каталога (raw JSON).
// Шаги:
//  1. строгий парсинг JSON (DisallowUnknownFields) — ловим незадокументированные поля;
//  2. доменная валидация (вернёт validate.ErrInvalidProduct при проблемах);
//  3. идемпотентный upsert в БД;
//  4. обновление кэша.
func (s *CatalogService) ApplyFeedMessage(ctx context.Context, raw []byte) error {
	var p domain.Product
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		s.log.Warnf(ctx, "invalid feed json err=%v", err)
		return fmt.Errorf("invalid json: %w", err)
	}
	// Убеждаемся, что после объекта нет лишних данных.
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid feed json: trailing data")
		return fmt.Errorf("invalid json: trailing data")
	}

	if err := s.validator.Validate(ctx, &p); err != nil {
		s.log.Warnf(ctx, "feed validation failed product=%s err=%v", p.ID, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	if err := s.products.Upsert(ctx, &p); err != nil {
		s.log.Errorf(ctx, "products.Upsert failed product=%s err=%v", p.ID, err)
		return fmt.Errorf("upsert product: %w", err)
	}

	if err := s.cache.Set(ctx, &p); err != nil {
		s.log.Warnf(ctx, "cache.Set failed product=%s err=%v", p.ID, err)
	}

	s.log.Infof(ctx, "product upserted id=%s price=%s", p.ID, p.Price)
	return nil
}

// WarmUpCache — прогрев кэша последними N товарами из БД.
// n <= 0 — прогрев пропускается (это не ошибка).
func (s *CatalogService) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		s.log.Warnf(ctx, "catalog warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := s.products.LastN(ctx, n)
	if err != nil {
		s.log.Errorf(ctx, "products.LastN failed n=%d err=%v", n, err)
		return err
	}
	if warmErr := s.cache.WarmUp(ctx, list); warmErr != nil {
		s.log.Warnf(ctx, "cache.WarmUp failed err=%v", warmErr)
	}
	s.log.Infof(ctx, "catalog cache warmed with %d products in %s", len(list), time.Since(start))
	return nil
}
