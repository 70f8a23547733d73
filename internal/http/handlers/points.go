package handlers

import (
	"net/http"
	"strings"

	"guanago/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type pointsRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Concept string `json:"concept"`
}

// walletEmail is the caller's own email; staff may act on another wallet.
func walletEmail(c *gin.Context, requested string) string {
	requested = strings.TrimSpace(requested)
	if requested != "" && (isStaff(c) || c.GetString(middleware.CtxUserEmail) == "") {
		return requested
	}
	return c.GetString(middleware.CtxUserEmail)
}

// POST /api/points/register
func (a *API) RegisterPoints(c *gin.Context) {
	var req pointsRequest
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &req) {
		return
	}
	name := req.Name
	if name == "" {
		name = c.GetString(middleware.CtxUserName)
	}
	w, err := a.Points.Register(c.Request.Context(), walletEmail(c, req.Email), name)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// GET /api/points/balance?email=
func (a *API) PointsBalance(c *gin.Context) {
	w, err := a.Points.Balance(c.Request.Context(), walletEmail(c, c.Query("email")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// POST /api/points/redeem
func (a *API) RedeemPoints(c *gin.Context) {
	var req pointsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	w, err := a.Points.Redeem(c.Request.Context(), walletEmail(c, req.Email), req.Amount, req.Concept)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
