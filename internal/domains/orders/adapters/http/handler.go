// Package http exposes the order coordinator over gin. Table 0 addresses
// the take-away session.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/http/mapper"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/receipt"
	ordersapp "github.com/cafepos/cafe-api-server/internal/domains/orders/application"
	ordersdomain "github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	ordersports "github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
	sharederrors "github.com/cafepos/cafe-api-server/internal/shared/errors"
)

// Handler serves the order endpoints.
type Handler struct {
	coordinator ordersports.Coordinator
	receipts    *receipt.Renderer
	responder   *sharederrors.ChainedResponder
}

func NewHandler(coordinator ordersports.Coordinator, receipts *receipt.Renderer) *Handler {
	return &Handler{
		coordinator: coordinator,
		receipts:    receipts,
		responder:   sharederrors.NewChainedResponder("", mapOrderError),
	}
}

// Register mounts the order routes on the router group.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/tables/:table/order", h.getTableOrder)
	r.DELETE("/tables/:table/order", h.clearOrder)
	r.POST("/tables/:table/items", h.addItem)
	r.PATCH("/tables/:table/items/:name", h.changeQuantity)
	r.DELETE("/tables/:table/items/:name", h.removeItem)
	r.POST("/tables/:table/discount", h.applyDiscount)
	r.POST("/tables/:table/close", h.closeOrder)
	r.GET("/orders/:id", h.getOrder)
	r.GET("/orders/:id/receipt", h.getReceipt)
}

type addItemRequest struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
}

type quantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type discountRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) getTableOrder(c *gin.Context) {
	table, ok := h.tableParam(c)
	if !ok {
		return
	}
	order, err := h.coordinator.OrderForTable(c.Request.Context(), table)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	table, ok := h.tableParam(c)
	if !ok {
		return
	}
	if err := h.coordinator.AddItem(c.Request.Context(), table, req.Name, req.UnitPrice, req.Quantity); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	h.respondTableOrder(c, table)
}

func (h *Handler) changeQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	table, ok := h.tableParam(c)
	if !ok {
		return
	}
	if err := h.coordinator.ChangeQuantity(c.Request.Context(), table, c.Param("name"), req.Quantity); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	h.respondTableOrder(c, table)
}

func (h *Handler) removeItem(c *gin.Context) {
	table, ok := h.tableParam(c)
	if !ok {
		return
	}
	if err := h.coordinator.RemoveItem(c.Request.Context(), table, c.Param("name")); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	h.respondTableOrder(c, table)
}

func (h *Handler) applyDiscount(c *gin.Context) {
	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	table, ok := h.tableParam(c)
	if !ok {
		return
	}
	if err := h.coordinator.ApplyDiscount(c.Request.Context(), table, req.Amount); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	h.respondTableOrder(c, table)
}

func (h *Handler) closeOrder(c *gin.Context) {
	table, ok := h.tableParam(c)
	if !ok {
		return
	}
	id, err := h.coordinator.CloseAndSave(c.Request.Context(), table)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": id})
}

func (h *Handler) clearOrder(c *gin.Context) {
	table, ok := h.tableParam(c)
	if !ok {
		return
	}
	h.coordinator.ClearOrder(table)
	c.Status(http.StatusNoContent)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.responder.BadRequest(c, "order id must be an integer")
		return
	}
	order, err := h.coordinator.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

func (h *Handler) getReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.responder.BadRequest(c, "order id must be an integer")
		return
	}
	order, err := h.coordinator.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.String(http.StatusOK, h.receipts.Render(order))
}

// tableParam resolves the :table path parameter. It responds with a
// problem on failure and reports whether to continue.
func (h *Handler) tableParam(c *gin.Context) (*int, bool) {
	raw := c.Param("table")
	table, err := strconv.Atoi(raw)
	if err != nil || table < 0 {
		h.responder.BadRequest(c, "table must be a non-negative integer, 0 for take-away")
		return nil, false
	}
	if table == 0 {
		return nil, true
	}
	return &table, true
}

// respondTableOrder renders the table's order after a successful command.
func (h *Handler) respondTableOrder(c *gin.Context, table *int) {
	order, err := h.coordinator.OrderForTable(c.Request.Context(), table)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

func mapOrderError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersdomain.ErrInvalidAmount),
		errors.Is(err, ordersdomain.ErrInvalidQuantity),
		errors.Is(err, ordersdomain.ErrEmptyItemName),
		errors.Is(err, ordersapp.ErrInvalidTable):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersdomain.ErrInvalidDiscount):
		return sharederrors.ErrValidation.WithDetail("discount must be between zero and the current subtotal"), true
	case errors.Is(err, ordersdomain.ErrItemNotFound):
		return sharederrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, ordersdomain.ErrOrderClosed),
		errors.Is(err, ordersdomain.ErrOrderAlreadyClosed),
		errors.Is(err, ordersdomain.ErrEmptyOrder),
		errors.Is(err, ordersports.ErrNoActiveTable):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrPersistence):
		return sharederrors.ProblemDetail{
			Type:   sharederrors.TypeInternal,
			Title:  "Order Not Saved",
			Status: http.StatusServiceUnavailable,
			Detail: "the order is closed but could not be saved; retry the close",
		}, true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}
