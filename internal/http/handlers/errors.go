package handlers

import (
	"log"
	"net/http"

	"guanago/internal/domain"
	"guanago/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      message,
			"code":       code,
			"details":    details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, ErrorResponse{Error: message, Code: code, Details: details})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsNotConfigured(err):
		respondError(c, http.StatusServiceUnavailable, "not_configured", "integración no configurada", nil)
	case domain.IsUpstream(err):
		log.Printf("[UPSTREAM] request_id=%s err=%v", middleware.GetRequestID(c), err)
		respondError(c, http.StatusBadGateway, "upstream_error", "servicio externo no disponible", nil)
	case domain.IsInternal(err):
		log.Printf("[INTERNAL] request_id=%s err=%v", middleware.GetRequestID(c), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "ocurrió un error", nil)
	default:
		log.Printf("[ERROR] request_id=%s err=%v", middleware.GetRequestID(c), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "ocurrió un error", nil)
	}
}
