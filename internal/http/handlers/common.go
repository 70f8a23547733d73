package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"guanago/internal/cache"
	"guanago/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "cuerpo vacío", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload inválido", err)
		return false
	}
	return true
}

// setCacheHeaders exposes how a cached read was served.
func setCacheHeaders(c *gin.Context, meta cache.Meta) {
	if meta.State == "" {
		return
	}
	c.Header("X-Cache", string(meta.State))
	if !meta.StoredAt.IsZero() {
		c.Header("X-Cache-Stored-At", meta.StoredAt.UTC().Format(http.TimeFormat))
	}
}

func queryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "si", "sí", "yes":
		return true
	}
	return false
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return def
	}
	return v
}
