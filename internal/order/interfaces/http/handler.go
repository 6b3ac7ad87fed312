package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/floresya/floresya/internal/order/application"
	"github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/middleware"
	"github.com/floresya/floresya/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OrderHandler serves order tracking, payment reporting and the admin order
// panel.
type OrderHandler struct {
	app *application.OrderService
}

func NewOrderHandler(app *application.OrderService) *OrderHandler {
	return &OrderHandler{app: app}
}

// RegisterRoutes binds public order tracking and payment reporting.
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.GET("/:number", h.GetOrder)
		orders.POST("/:number/payments", h.RegisterPayment)
	}
}

// RegisterUserRoutes binds routes requiring an authenticated user.
func (h *OrderHandler) RegisterUserRoutes(authed *gin.RouterGroup) {
	authed.GET("/api/me/orders", h.ListMyOrders)
}

// RegisterAdminRoutes binds the admin order panel.
func (h *OrderHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	orders := admin.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.PUT("/:number/status", h.UpdateStatus)
		orders.POST("/:number/payments/:paymentId/confirm", h.ConfirmPayment)
		orders.POST("/:number/payments/:paymentId/reject", h.RejectPayment)
	}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	number := c.Param("number")
	order, err := h.app.Get(c.Request.Context(), number)
	if errors.Is(err, domain.ErrOrderNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get order", "order_number", number, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := c.Get(middleware.UserIDKey)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := h.app.ListByUser(c.Request.Context(), userID.(uint), limit, offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list user orders", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"orders": orders, "total": total})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := domain.OrderFilter{
		Status: domain.OrderStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}
	orders, total, err := h.app.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"orders": orders, "total": total})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	number := c.Param("number")
	order, err := h.app.UpdateStatus(c.Request.Context(), number, domain.OrderStatus(req.Status))
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, domain.ErrIllegalTransition):
		response.ErrorWithStatus(c, http.StatusBadRequest, "illegal status transition")
		return
	case err != nil:
		logger.Error(c.Request.Context(), "Failed to update order status", "order_number", number, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, order)
}

type registerPaymentRequest struct {
	Method          string `json:"method" binding:"required"`
	ReferenceNumber string `json:"reference_number"`
	AmountUSD       string `json:"amount_usd" binding:"required"`
	AmountVES       string `json:"amount_ves"`
}

func (h *OrderHandler) RegisterPayment(c *gin.Context) {
	var req registerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	amountUSD, err := decimal.NewFromString(req.AmountUSD)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid amount_usd")
		return
	}
	amountVES := decimal.Zero
	if req.AmountVES != "" {
		if amountVES, err = decimal.NewFromString(req.AmountVES); err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid amount_ves")
			return
		}
	}

	number := c.Param("number")
	payment, err := h.app.RegisterPayment(c.Request.Context(), application.RegisterPaymentCommand{
		OrderNumber:     number,
		Method:          domain.PaymentMethod(req.Method),
		ReferenceNumber: req.ReferenceNumber,
		AmountUSD:       amountUSD,
		AmountVES:       amountVES,
	})
	if errors.Is(err, domain.ErrOrderNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to register payment", "order_number", number, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Created(c, payment)
}

func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	paymentID, err := strconv.ParseUint(c.Param("paymentId"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	number := c.Param("number")
	order, err := h.app.ConfirmPayment(c.Request.Context(), number, uint(paymentID))
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrPaymentNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "order or payment not found")
		return
	case err != nil:
		logger.Error(c.Request.Context(), "Failed to confirm payment", "order_number", number, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, order)
}

func (h *OrderHandler) RejectPayment(c *gin.Context) {
	paymentID, err := strconv.ParseUint(c.Param("paymentId"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	number := c.Param("number")
	err = h.app.RejectPayment(c.Request.Context(), number, uint(paymentID))
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrPaymentNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "order or payment not found")
		return
	case err != nil:
		logger.Error(c.Request.Context(), "Failed to reject payment", "order_number", number, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"rejected": paymentID})
}
