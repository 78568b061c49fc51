package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"wisdomcard/internal/session"
	"wisdomcard/pkg/memcache"
)

const (
	TraceIDKey = "trace_id"
	LoggerKey  = "logger"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: TraceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: TraceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, memcache.ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, session.ErrResetRequired):
		RespondError(c, http.StatusConflict, "Reset the session before asking again")
	case errors.Is(err, session.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "Action not allowed in the current state")
	case errors.Is(err, ErrInvalidSuggestion):
		RespondError(c, http.StatusBadRequest, "Suggestion index out of range")
	case errors.Is(err, ErrInvalidWaitFlag):
		RespondError(c, http.StatusBadRequest, "Invalid request")
	default:
		Logger(c).Error("unhandled service error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func TraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

// Logger returns the request-scoped logger set by the logging middleware,
// or the global zap logger.
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.L()
}
