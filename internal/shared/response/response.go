package response

import (
	"net/http"
	"os"

	"inventory-backend/internal/shared/apperr"
	"inventory-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint wraps its body in.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Summary interface{} `json:"summary,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// OKWithSummary writes a 200 success envelope with a summary block.
func OKWithSummary(c *gin.Context, message string, data, summary interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data, Summary: summary})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Fail writes an error envelope with an explicit status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message, Error: message})
}

// FromError maps a taxonomy error onto the wire: 400 validation, 404
// not-found, 409 conflict and insufficient stock, 401/403 auth, 500 transient.
// Fatal errors are logged here — the only place they are caught — and reported
// as a generic 500 unless development mode is on.
func FromError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		Fail(c, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		Fail(c, http.StatusNotFound, err.Error())
	case apperr.IsConflict(err):
		Fail(c, http.StatusConflict, err.Error())
	case apperr.IsInsufficientStock(err):
		Fail(c, http.StatusConflict, err.Error())
	case err == apperr.ErrUnauthorized:
		Fail(c, http.StatusUnauthorized, "authentication required")
	case err == apperr.ErrForbidden:
		Fail(c, http.StatusForbidden, "insufficient role")
	case apperr.IsTransient(err):
		Fail(c, http.StatusInternalServerError, "temporary failure, please retry")
	default:
		logger.Error("unhandled internal error", err)
		msg := "internal server error"
		if os.Getenv("APP_ENV") == "development" {
			msg = err.Error()
		}
		Fail(c, http.StatusInternalServerError, msg)
	}
}
