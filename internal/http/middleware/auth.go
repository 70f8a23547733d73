package middleware

import (
	"net/http"
	"strings"

	"guanago/internal/services"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxUserName  = "userName"
	CtxUserEmail = "userEmail"
)

type TokenParser interface {
	ParseToken(raw string) (services.Claims, error)
}

// RequireAuth validates the bearer token and exposes its claims on the context.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "token requerido",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		claims, err := tokens.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      err.Error(),
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxUserEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth sets the claims when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, raw, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if claims, err := tokens.ParseToken(strings.TrimSpace(raw)); err == nil {
				c.Set(CtxUserID, claims.Subject)
				c.Set(CtxUserRole, claims.Role)
				c.Set(CtxUserName, claims.Name)
				c.Set(CtxUserEmail, claims.Email)
			}
		}
		c.Next()
	}
}
