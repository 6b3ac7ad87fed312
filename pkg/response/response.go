// Package response defines the JSON envelope the storefront frontend expects:
// {"success": bool, "data": ..., "message": ...}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform API response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// ErrorWithStatus writes an error response with the given status code.
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}
