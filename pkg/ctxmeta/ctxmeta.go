// Пакет ctxmeta — нейтральный слой для метаданных запроса, которые
// прокидываются через context.Context (request_id, актор, trace_id).
// Идея: HTTP-слой, ядро и логгер зависят от общего маленького пакета,
// но не друг от друга.
package ctxmeta

import (
	"context"

	"github.com/Gunvolt24/orders-api/internal/domain"
)

type ctxKey string

const (
	// Ключи контекста (собственный тип — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeyActor     ctxKey = "actor"
)

// WithRequestID кладёт request_id в контекст (пустое значение игнорируется).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(KeyRequestID).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithActor кладёт разрешённого актора в контекст.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	if ctx == nil {
		return ctx
	}
	return context.WithValue(ctx, KeyActor, actor)
}

// ActorFromContext достаёт актора; false — аутентификация не проходила.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	if ctx == nil {
		return domain.Actor{}, false
	}
	if v, ok := ctx.Value(KeyActor).(domain.Actor); ok {
		return v, true
	}
	return domain.Actor{}, false
}
