package handlers

import (
	"net/http"

	"guanago/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// POST /api/quotes/preview prices a quote without saving it.
func (a *API) PreviewQuote(c *gin.Context) {
	var in models.QuoteInput
	if !BindJSONOrError(c, &in) {
		return
	}
	q, err := a.Quotes.Build(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/quotes
func (a *API) CreateQuote(c *gin.Context) {
	var in models.QuoteInput
	if !BindJSONOrError(c, &in) {
		return
	}
	q, err := a.Quotes.Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// GET /api/quotes/:id
func (a *API) GetQuote(c *gin.Context) {
	q, err := a.Quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GET /api/quotes/:id/pdf?download=1
func (a *API) GetQuotePDF(c *gin.Context) {
	q, err := a.Quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdf, filename, err := a.Docs.QuotePDF(q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	disposition := "inline"
	if queryBool(c, "download") {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
