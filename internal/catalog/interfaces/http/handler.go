package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/floresya/floresya/internal/catalog/application"
	"github.com/floresya/floresya/internal/catalog/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CatalogHandler serves the public catalog endpoints and the admin CRUD.
type CatalogHandler struct {
	app *application.CatalogService
}

func NewCatalogHandler(app *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{app: app}
}

// RegisterRoutes binds the public storefront routes.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/carousel", h.ListCarousel)
		products.GET("/:id", h.GetProduct)
	}
	router.GET("/api/occasions", h.ListOccasions)
}

// RegisterAdminRoutes binds the admin CRUD routes; the group must already be
// guarded by the auth and admin middleware.
func (h *CatalogHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	products := admin.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
	occasions := admin.Group("/occasions")
	{
		occasions.GET("", h.ListAllOccasions)
		occasions.POST("", h.CreateOccasion)
		occasions.PUT("/:id", h.UpdateOccasion)
		occasions.DELETE("/:id", h.DeleteOccasion)
	}
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.app.GetProduct(c.Request.Context(), id)
	if errors.Is(err, domain.ErrProductNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid offset")
		return
	}

	filter := domain.ProductFilter{
		OccasionSlug: c.Query("occasion"),
		Search:       c.Query("q"),
		OnlyActive:   true,
		Limit:        limit,
		Offset:       offset,
	}

	products, total, err := h.app.ListProducts(c.Request.Context(), filter)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"products": products, "total": total})
}

func (h *CatalogHandler) ListCarousel(c *gin.Context) {
	products, err := h.app.ListCarousel(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list carousel", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, products)
}

func (h *CatalogHandler) ListOccasions(c *gin.Context) {
	occasions, err := h.app.ListOccasions(c.Request.Context(), true)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list occasions", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, occasions)
}

type productRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	PriceUSD      string `json:"price_usd" binding:"required"`
	ImageURL      string `json:"image_url"`
	Stock         int    `json:"stock"`
	Active        *bool  `json:"active"`
	CarouselOrder int    `json:"carousel_order"`
	OccasionIDs   []uint `json:"occasion_ids"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	price, err := decimal.NewFromString(req.PriceUSD)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid price_usd")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	product, err := h.app.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Name:          req.Name,
		Description:   req.Description,
		PriceUSD:      price,
		ImageURL:      req.ImageURL,
		Stock:         req.Stock,
		Active:        active,
		CarouselOrder: req.CarouselOrder,
		OccasionIDs:   req.OccasionIDs,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create product", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Created(c, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	price, err := decimal.NewFromString(req.PriceUSD)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid price_usd")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	product, err := h.app.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		PriceUSD:      price,
		ImageURL:      req.ImageURL,
		Stock:         req.Stock,
		Active:        active,
		CarouselOrder: req.CarouselOrder,
		OccasionIDs:   req.OccasionIDs,
	})
	if errors.Is(err, domain.ErrProductNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to update product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}
	err = h.app.DeleteProduct(c.Request.Context(), id)
	if errors.Is(err, domain.ErrProductNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to delete product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": id})
}

func (h *CatalogHandler) ListAllOccasions(c *gin.Context) {
	occasions, err := h.app.ListOccasions(c.Request.Context(), false)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, occasions)
}

type occasionRequest struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Active       *bool  `json:"active"`
	DisplayOrder int    `json:"display_order"`
}

func (h *CatalogHandler) CreateOccasion(c *gin.Context) {
	var req occasionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	occasion, err := h.app.CreateOccasion(c.Request.Context(), req.Name, req.Slug, req.DisplayOrder)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Created(c, occasion)
}

func (h *CatalogHandler) UpdateOccasion(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid occasion id")
		return
	}
	var req occasionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	occasion, err := h.app.UpdateOccasion(c.Request.Context(), id, req.Name, req.Slug, active, req.DisplayOrder)
	if errors.Is(err, domain.ErrOccasionNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "occasion not found")
		return
	}
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, occasion)
}

func (h *CatalogHandler) DeleteOccasion(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid occasion id")
		return
	}
	err = h.app.DeleteOccasion(c.Request.Context(), id)
	if errors.Is(err, domain.ErrOccasionNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "occasion not found")
		return
	}
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": id})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
