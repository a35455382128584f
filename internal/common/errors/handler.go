// internal/common/errors/handler.go
package errors

import (
	"github.com/gin-gonic/gin"
)

// ErrorHandler turns request errors into the relay's JSON failure body.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError normalizes err, logs it and aborts the request with
// {"ok": false, "error": ..., "code": ...}.
func (h *ErrorHandler) HandleRequestError(c *gin.Context, err error) *StandardError {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	c.AbortWithStatusJSON(status, gin.H{
		"ok":    false,
		"error": stdErr.Message,
		"code":  string(stdErr.Code),
	})
	return stdErr
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}
	h.logger.Error("Request failed", map[string]interface{}{
		"path":          c.FullPath(),
		"requestId":     c.GetString("requestId"),
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}
