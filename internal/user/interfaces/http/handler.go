package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/floresya/floresya/internal/user/application"
	"github.com/floresya/floresya/internal/user/domain"
	"github.com/floresya/floresya/pkg/middleware"
	"github.com/floresya/floresya/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *application.UserService
}

func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes binds the public auth endpoints.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

// RegisterAuthedRoutes binds endpoints requiring a valid session.
func (h *UserHandler) RegisterAuthedRoutes(authed *gin.RouterGroup) {
	authed.GET("/api/me", h.Me)
}

// RegisterAdminRoutes binds the admin user management panel.
func (h *UserHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	users := admin.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PUT("/:id/active", h.SetActive)
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), application.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.ErrorWithStatus(c, http.StatusConflict, "email is already registered")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to register user")
		return
	}
	response.Created(c, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, domain.ErrUserInactive):
			response.ErrorWithStatus(c, http.StatusForbidden, "account is deactivated")
		default:
			response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to log in")
		}
		return
	}
	response.Success(c, gin.H{"token": token, "user": user})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := c.Get(middleware.UserIDKey)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.service.Get(c.Request.Context(), userID.(uint))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "user not found")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load user")
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	response.Success(c, gin.H{"users": users, "total": total})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *UserHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := h.service.SetActive(c.Request.Context(), uint(id), *req.Active)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "user not found")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to update user")
		return
	}
	response.Success(c, user)
}
