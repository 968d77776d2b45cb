package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event_org/internal/validation"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool                   `json:"success"`
	Data    any                    `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Errors  []validation.Violation `json:"errors,omitempty"`
}

// OK sends 200 with data.
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

// Created sends 201 with data.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// Advisory sends 200 with success=false: the request was understood and
// nothing changed.
func Advisory(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Body{Success: false, Message: message})
}

// Fail sends a failure envelope with an optional error detail.
func Fail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, Body{Success: false, Message: message, Error: detail})
}

// FailWithData sends a failure envelope that still carries a payload.
func FailWithData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Body{Success: false, Message: message, Data: data})
}

// Invalid sends 400 with per-field violations.
func Invalid(c *gin.Context, message string, violations []validation.Violation) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: message, Errors: violations})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message, "")
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message, "")
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Body{Success: false, Message: message})
}
