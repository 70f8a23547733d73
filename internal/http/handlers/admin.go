package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type invalidateRequest struct {
	Prefix string `json:"prefix"`
	Warm   bool   `json:"warm"`
}

var cachePrefixes = map[string]bool{"services": true, "directory": true, "accommodations": true, "quotes": true}

// GET /api/admin/cache
func (a *API) CacheStats(c *gin.Context) {
	out := gin.H{"lookups": a.Cache.Stats()}
	if a.Warmer != nil {
		last, err := a.Warmer.Last()
		warm := gin.H{"lastRun": nil, "ok": err == nil}
		if !last.IsZero() {
			warm["lastRun"] = last.UTC().Format(time.RFC3339)
		}
		if err != nil {
			warm["error"] = err.Error()
		}
		out["warmer"] = warm
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/admin/cache/invalidate {"prefix":"services","warm":true}
// An empty prefix drops every catalog key.
func (a *API) InvalidateCache(c *gin.Context) {
	var req invalidateRequest
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &req) {
		return
	}
	prefix := strings.ToLower(strings.TrimSpace(req.Prefix))
	if prefix != "" && !cachePrefixes[prefix] {
		respondError(c, http.StatusBadRequest, "validation_error", "prefijo de caché desconocido", gin.H{"prefix": prefix})
		return
	}
	if err := a.Cache.Invalidate(c.Request.Context(), prefix); err != nil {
		RespondDomainError(c, err)
		return
	}
	out := gin.H{"message": "caché invalidada", "prefix": prefix}
	if req.Warm && a.Warmer != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		out["warmed"] = a.Warmer.RunOnce(ctx) == nil
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/admin/activity?entity=reservation&limit=50
func (a *API) ListActivity(c *gin.Context) {
	if a.Activity == nil || !a.Activity.Enabled() {
		respondError(c, http.StatusServiceUnavailable, "not_configured", "registro de actividad deshabilitado (MYSQL_DSN vacío)", nil)
		return
	}
	list, err := a.Activity.List(c.Request.Context(), strings.TrimSpace(c.Query("entity")), queryInt(c, "limit", 50))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
