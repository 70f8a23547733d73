package handlers

import (
	"net/http"

	"guanago/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pinRequest struct {
	PIN string `json:"pin"`
}

// POST /api/auth/login
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sess, err := a.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// POST /api/auth/pin
func (a *API) LoginPIN(c *gin.Context) {
	var req pinRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sess, err := a.Auth.LoginWithPIN(c.Request.Context(), req.PIN)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GET /api/auth/me
func (a *API) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString(middleware.CtxUserID),
		"role":  c.GetString(middleware.CtxUserRole),
		"name":  c.GetString(middleware.CtxUserName),
		"email": c.GetString(middleware.CtxUserEmail),
	})
}
