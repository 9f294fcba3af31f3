package api

import (
	"errors"
	"net/http"

	"gymcore/internal/apperr"
	"gymcore/internal/logger"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string                 `json:"error" example:"member not found"`
	Code    string                 `json:"code,omitempty" example:"not_found"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type CountResponse struct {
	Affected int64 `json:"affected" example:"3"`
}

// StatusFor maps an error kind to the HTTP status handlers answer with.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden, apperr.KindLimitExceeded:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as an ErrorResponse and aborts the chain.
func RespondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = &apperr.Error{Kind: apperr.KindInternal, Message: "internal error", Err: err}
	}

	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"path", c.FullPath(),
			"kind", string(appErr.Kind),
			"error", appErr.Error(),
		)
	}

	message := appErr.Message
	if appErr.Err != nil && status >= http.StatusInternalServerError {
		message = appErr.Error()
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Code:    string(appErr.Kind),
		Details: appErr.Details,
	})
}

// BindError renders a request binding failure as a validation error,
// listing the offending fields when the body failed struct validation.
func BindError(c *gin.Context, err error) {
	fields := FieldErrors(err)
	if len(fields) == 0 {
		RespondError(c, apperr.Validation(err.Error()))
		return
	}

	RespondError(c, &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "validation failed",
		Details: map[string]interface{}{"fields": fields},
	})
}
