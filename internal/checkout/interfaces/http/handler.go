package http

import (
	"errors"
	"net/http"

	"github.com/floresya/floresya/internal/checkout/application"
	"github.com/floresya/floresya/internal/checkout/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/middleware"
	"github.com/floresya/floresya/pkg/response"
	"github.com/gin-gonic/gin"
)

// CartIDHeader mirrors the cart API's client-held cart id.
const CartIDHeader = "X-Cart-ID"

// CheckoutHandler serves the checkout flow. Its routes run behind the
// optional-auth middleware so both guests and signed-in users share them.
type CheckoutHandler struct {
	app *application.CheckoutService
}

func NewCheckoutHandler(app *application.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{app: app}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	checkout := router.Group("/api/checkout")
	{
		checkout.POST("/begin", h.Begin)
		checkout.POST("/guest", h.SubmitGuestInfo)
		checkout.POST("/complete", h.Complete)
	}
}

func (h *CheckoutHandler) userID(c *gin.Context) *uint {
	if v, ok := c.Get(middleware.UserIDKey); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}

func (h *CheckoutHandler) Begin(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "missing cart id")
		return
	}

	result, err := h.app.Begin(c.Request.Context(), cartID, h.userID(c))
	if errors.Is(err, application.ErrEmptyCart) {
		response.ErrorWithStatus(c, http.StatusBadRequest, "cart is empty")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to begin checkout", "cart_id", cartID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, result)
}

func (h *CheckoutHandler) SubmitGuestInfo(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "missing cart id")
		return
	}

	var info domain.GuestCheckoutInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.app.SubmitGuestInfo(c.Request.Context(), cartID, info)
	switch {
	case errors.Is(err, domain.ErrMissingRequiredField):
		response.ErrorWithStatus(c, http.StatusBadRequest, "name, phone, email and address are required")
		return
	case errors.Is(err, application.ErrEmptyCart):
		response.ErrorWithStatus(c, http.StatusBadRequest, "cart is empty")
		return
	case err != nil:
		logger.Error(c.Request.Context(), "Failed to submit guest info", "cart_id", cartID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, result)
}

type completeRequest struct {
	Contact *domain.GuestCheckoutInfo `json:"contact"`
}

func (h *CheckoutHandler) Complete(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "missing cart id")
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.app.Complete(c.Request.Context(), application.CompleteCommand{
		CartID:  cartID,
		UserID:  h.userID(c),
		Contact: req.Contact,
	})
	switch {
	case errors.Is(err, application.ErrEmptyCart):
		response.ErrorWithStatus(c, http.StatusBadRequest, "cart is empty")
		return
	case errors.Is(err, domain.ErrGuestSessionNotFound):
		response.ErrorWithStatus(c, http.StatusBadRequest, "guest checkout info not submitted")
		return
	case errors.Is(err, domain.ErrMissingRequiredField):
		response.ErrorWithStatus(c, http.StatusBadRequest, "contact details are required")
		return
	case err != nil:
		logger.Error(c.Request.Context(), "Failed to complete checkout", "cart_id", cartID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Created(c, order)
}
