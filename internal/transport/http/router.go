package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/orders-api/internal/ports"
	"github.com/Gunvolt24/orders-api/pkg/httpx"
)

// RouterOptions — внешние настройки роутера.
type RouterOptions struct {
	// TracingEnabled включает otelgin-мидлварь (трейсы входящих запросов).
	TracingEnabled bool
	ServiceName    string
}

// NewRouter — собирает gin-роутер: публичные /ping и /metrics,
// всё под /api — за мидлварью аутентификации.
func NewRouter(h *Handler, identity ports.Identity, log ports.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if opts.TracingEnabled {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(httpx.RequestLogger(log))

	// 405 вместо 404 для известных путей с неверным методом.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(authMiddleware(identity))
	{
		api.POST("/orders", h.createOrder)
		api.GET("/orders", h.listOrders)
		api.GET("/orders/:id", h.getOrderByID)
		api.DELETE("/orders/:id", h.deleteOrderByID)
	}

	return r
}
