package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/floresya/floresya/internal/cart/application"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartIDHeader carries the client's cart id. A new id is minted when absent
// and echoed back in the payload for the client to keep.
const CartIDHeader = "X-Cart-ID"

// CartHandler serves the cart endpoints.
type CartHandler struct {
	app *application.CartService
}

func NewCartHandler(app *application.CartService) *CartHandler {
	return &CartHandler{app: app}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cart := router.Group("/api/cart")
	{
		cart.GET("", h.GetCart)
		cart.GET("/totals", h.GetTotals)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:productId", h.UpdateQuantity)
		cart.DELETE("/items/:productId", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

func (h *CartHandler) cartID(c *gin.Context) string {
	if id := c.GetHeader(CartIDHeader); id != "" {
		return id
	}
	return uuid.New().String()
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := h.cartID(c)
	cart, err := h.app.Get(c.Request.Context(), cartID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load cart", "cart_id", cartID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"cart": cart, "totals": h.app.Price(c.Request.Context(), cart)})
}

func (h *CartHandler) GetTotals(c *gin.Context) {
	cartID := h.cartID(c)
	totals, err := h.app.Totals(c.Request.Context(), cartID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to price cart", "cart_id", cartID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, totals)
}

type addItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	cartID := h.cartID(c)
	cart, err := h.app.AddItem(c.Request.Context(), cartID, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, application.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
		return
	case errors.Is(err, application.ErrInvalidQuantity):
		response.ErrorWithStatus(c, http.StatusBadRequest, "quantity must be positive")
		return
	case err != nil:
		logger.Error(c.Request.Context(), "Failed to add cart item",
			"cart_id", cartID,
			"product_id", req.ProductID,
			"error", err,
		)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"cart": cart, "totals": h.app.Price(c.Request.Context(), cart)})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, err := parseProductID(c.Param("productId"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	cartID := h.cartID(c)
	cart, err := h.app.UpdateQuantity(c.Request.Context(), cartID, productID, req.Quantity)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to update cart item",
			"cart_id", cartID,
			"product_id", productID,
			"error", err,
		)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"cart": cart, "totals": h.app.Price(c.Request.Context(), cart)})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := parseProductID(c.Param("productId"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}

	cartID := h.cartID(c)
	cart, err := h.app.RemoveItem(c.Request.Context(), cartID, productID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to remove cart item",
			"cart_id", cartID,
			"product_id", productID,
			"error", err,
		)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"cart": cart, "totals": h.app.Price(c.Request.Context(), cart)})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	cartID := h.cartID(c)
	cart, err := h.app.Clear(c.Request.Context(), cartID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to clear cart", "cart_id", cartID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

func parseProductID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
