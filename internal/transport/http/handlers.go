package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orders-api/internal/apperr"
	"github.com/Gunvolt24/orders-api/internal/domain"
	"github.com/Gunvolt24/orders-api/internal/ports"
	"github.com/Gunvolt24/orders-api/pkg/ctxmeta"
)

// Handler — HTTP-обработчики заказов поверх ports.OrderService.
type Handler struct {
	service ports.OrderService
	log     ports.Logger
	timeout time.Duration
}

func NewHandler(service ports.OrderService, log ports.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{service: service, log: log, timeout: timeout}
}

// createRequest — тело POST /api/orders. Покупатель берётся из токена,
// а не из тела: принимаем только список позиций.
type createRequest struct {
	Products []domain.ItemRequest `json:"products"`
}

func (h *Handler) createOrder(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	actor, _ := ctxmeta.ActorFromContext(ctx)

	var req createRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		writeErr(c, h.log, apperr.Malformed("invalid request body"))
		return
	}

	order, err := h.service.Create(ctx, actor, req.Products)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": []*domain.Order{order}})
}

func (h *Handler) listOrders(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	actor, _ := ctxmeta.ActorFromContext(ctx)
	q := domain.OrderQuery{
		Customer: c.Query("customer"),
		Status:   c.Query("status"),
	}

	orders, err := h.service.List(ctx, actor, q)
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (h *Handler) getOrderByID(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	actor, _ := ctxmeta.ActorFromContext(ctx)

	order, err := h.service.Get(ctx, actor, c.Param("id"))
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": []*domain.Order{order}})
}

func (h *Handler) deleteOrderByID(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	actor, _ := ctxmeta.ActorFromContext(ctx)

	order, err := h.service.Delete(ctx, actor, c.Param("id"))
	if err != nil {
		writeErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": []*domain.Order{order}})
}

// requestContext — контекст обработчика с таймаутом.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// decodeStrict — строгий разбор JSON: незнакомые поля и мусор после
// объекта считаются ошибкой.
func decodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON body")
	}
	return nil
}

// writeErr — перевод ошибки ядра в HTTP-ответ {"message": ...}.
// Внутренние ошибки не раскрываем клиенту — только в лог.
func writeErr(c *gin.Context, log ports.Logger, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Errorf(c.Request.Context(), "%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"message": msg})
}
