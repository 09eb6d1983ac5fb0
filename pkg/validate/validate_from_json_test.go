package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateProductFromJSON_OK(t *testing.T) {
	ctx := context.Background()
	validator := NewProductValidator()

	raw := productJSON("0b9fb6f6-6f63-48a0-9d0c-4ec58b3b6a11", "Widget", "5.00")

	product, err := ValidateProductFromJSON(ctx, validator, []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID != "0b9fb6f6-6f63-48a0-9d0c-4ec58b3b6a11" {
		t.Fatalf("unexpected product id: %s", product.ID)
	}
	if !product.Price.Equal(mustDecimal(t, "5.00")) {
		t.Fatalf("unexpected price: %s", product.Price)
	}
}

func TestValidateProductFromJSON_UnknownField(t *testing.T) {
	ctx := context.Background()
	validator := NewProductValidator()

	raw := `{"unknown":"x","id":"0b9fb6f6-6f63-48a0-9d0c-4ec58b3b6a11","name":"Widget","price":"5.00"}`
	_, err := ValidateProductFromJSON(ctx, validator, []byte(raw))
	if err == nil || !strings.Contains(err.Error(), "invalid json") {
		t.Fatalf("expected invalid json error, got: %v", err)
	}
}

func TestValidateProductFromJSON_TrailingData(t *testing.T) {
	ctx := context.Background()
	validator := NewProductValidator()

	raw := productJSON("0b9fb6f6-6f63-48a0-9d0c-4ec58b3b6a11", "Widget", "5.00") + "{}"
	_, err := ValidateProductFromJSON(ctx, validator, []byte(raw))
	if err == nil || !strings.Contains(err.Error(), "trailing data") {
		t.Fatalf("expected trailing data error, got: %v", err)
	}
}

func TestValidateProductFromJSON_DomainError(t *testing.T) {
	ctx := context.Background()
	validator := NewProductValidator()

	// Не валиден: пустое имя
	raw := productJSON("0b9fb6f6-6f63-48a0-9d0c-4ec58b3b6a11", "", "5.00")
	_, err := ValidateProductFromJSON(ctx, validator, []byte(raw))
	if err == nil || !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got: %v", err)
	}
}

func TestValidateProductFromJSON_Garbage(t *testing.T) {
	ctx := context.Background()
	validator := NewProductValidator()

	_, err := ValidateProductFromJSON(ctx, validator, []byte("not json at all"))
	if err == nil || !strings.Contains(err.Error(), "invalid json") {
		t.Fatalf("expected invalid json error, got: %v", err)
	}
}

// ---- helpers ----

func productJSON(id, name, price string) string {
	return `{"id":"` + id + `","name":"` + name + `","price":"` + price + `"}`
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}
