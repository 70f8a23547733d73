package handlers

import (
	"net/http"

	"guanago/internal/domain/models"
	"guanago/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status"`
}

// POST /api/reservations
func (a *API) CreateReservation(c *gin.Context) {
	var in models.ReservationInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := a.Reservations.Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/reservations?status=pendiente
func (a *API) ListReservations(c *gin.Context) {
	list, err := a.Reservations.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /api/reservations/:id/status
func (a *API) UpdateReservationStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := a.Reservations.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, c.GetString(middleware.CtxUserID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
