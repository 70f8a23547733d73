package handlers

import (
	"net/http"
	"strings"

	"guanago/internal/domain/models"
	"guanago/internal/http/middleware"
	"guanago/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/services?category=tour&q=acuario&all=1
// Inactive services are only listed for admins and partners with all=1.
func (a *API) ListServices(c *gin.Context) {
	f := models.ServiceFilter{
		Category:   c.Query("category"),
		Query:      strings.TrimSpace(c.Query("q")),
		PartnerID:  strings.TrimSpace(c.Query("partnerId")),
		ActiveOnly: true,
	}
	if queryBool(c, "all") && isStaff(c) {
		f.ActiveOnly = false
	}
	list, meta, err := a.Catalog.ListServices(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	setCacheHeaders(c, meta)
	c.JSON(http.StatusOK, list)
}

// GET /api/services/:id
func (a *API) GetService(c *gin.Context) {
	svc, err := a.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// POST /api/services
func (a *API) CreateService(c *gin.Context) {
	var in models.ServiceInput
	if !BindJSONOrError(c, &in) {
		return
	}
	if c.GetString(middleware.CtxUserRole) == models.RolePartner {
		// partners always publish under their own id
		uid := c.GetString(middleware.CtxUserID)
		in.PartnerID = &uid
	}
	svc, err := a.Catalog.CreateService(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// PUT /api/services/:id
func (a *API) UpdateService(c *gin.Context) {
	var in models.ServiceInput
	if !BindJSONOrError(c, &in) {
		return
	}
	if !a.ownsService(c) {
		return
	}
	svc, err := a.Catalog.UpdateService(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DELETE /api/services/:id
func (a *API) DeleteService(c *gin.Context) {
	if !a.ownsService(c) {
		return
	}
	if err := a.Catalog.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "servicio eliminado", "id": c.Param("id")})
}

// GET /api/directory?category=playa
func (a *API) ListDirectory(c *gin.Context) {
	list, meta, err := a.Catalog.ListDirectory(c.Request.Context(), c.Query("category"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	setCacheHeaders(c, meta)
	c.JSON(http.StatusOK, list)
}

// GET /api/accommodations?type=posada&zone=San%20Luis&guests=4&available=1
func (a *API) ListAccommodations(c *gin.Context) {
	list, meta, err := a.Catalog.ListAccommodations(c.Request.Context(), services.AccommodationFilter{
		Type:          c.Query("type"),
		Zone:          c.Query("zone"),
		MinCapacity:   queryInt(c, "guests", 0),
		AvailableOnly: queryBool(c, "available"),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	setCacheHeaders(c, meta)
	c.JSON(http.StatusOK, list)
}

// ownsService lets partners touch only their own listings.
func (a *API) ownsService(c *gin.Context) bool {
	if c.GetString(middleware.CtxUserRole) != models.RolePartner {
		return true
	}
	svc, err := a.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return false
	}
	if svc.PartnerID != c.GetString(middleware.CtxUserID) {
		respondError(c, http.StatusForbidden, "forbidden", "el servicio pertenece a otro socio", nil)
		return false
	}
	return true
}

func isStaff(c *gin.Context) bool {
	switch c.GetString(middleware.CtxUserRole) {
	case models.RoleAdmin, models.RolePartner:
		return true
	}
	return false
}
