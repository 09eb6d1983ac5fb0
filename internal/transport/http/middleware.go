package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orders-api/internal/apperr"
	"github.com/Gunvolt24/orders-api/internal/ports"
	"github.com/Gunvolt24/orders-api/pkg/ctxmeta"
	"github.com/Gunvolt24/orders-api/pkg/httpx"
)

// authMiddleware — разрешает bearer-токен в актора и кладёт его в контекст.
// Любая ошибка аутентификации (нет токена, невалидный, истёкший) — отказ
// до бизнес-логики; статус берётся из таксономии ошибок (403).
func authMiddleware(identity ports.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := httpx.BearerToken(c)
		actor, err := identity.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"message": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(ctxmeta.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
