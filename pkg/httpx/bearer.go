package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerToken — достаёт bearer-токен из заголовка Authorization.
// Пустая строка — заголовка нет или формат не "Bearer <token>".
// Префикс сравнивается без учёта регистра.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
