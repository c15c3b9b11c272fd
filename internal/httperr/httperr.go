package httperr

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var debug atomic.Bool

// SetDebug toggles whether Internal responses carry the error text.
func SetDebug(on bool) {
	debug.Store(on)
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func WriteWithData(c *gin.Context, status int, code, message string, data any) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string, existing any) {
	WriteWithData(c, http.StatusConflict, code, message, existing)
}

// Internal answers 500. err is only exposed in debug mode.
func Internal(c *gin.Context, code, message string, err ...error) {
	body := HTTPError{Code: code, Message: message}
	if debug.Load() && len(err) > 0 && err[0] != nil {
		body.Details = err[0].Error()
	}
	if len(err) > 0 && err[0] != nil {
		_ = c.Error(err[0])
	}
	c.JSON(http.StatusInternalServerError, body)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}
