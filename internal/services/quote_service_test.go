package services

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"guanago/internal/domain"
	"guanago/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuotes() (QuoteService, *fakeQuotes) {
	store := &fakeQuotes{}
	return QuoteService{Quotes: store, Catalog: newCatalog(catalogFixture()), Now: fixedNow}, store
}

func TestBuildQuoteArithmetic(t *testing.T) {
	svc, _ := newQuotes()
	q, err := svc.Build(context.Background(), models.QuoteInput{
		CustomerName: "Familia Ruiz",
		DiscountPct:  7,
		Items: []models.QuoteItem{
			{Name: "Posada", UnitPrice: 180000, Quantity: 2, Units: 3},
			{Name: "Johnny Cay", UnitPrice: 95000, Quantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1080000), q.Items[0].LineTotal)
	assert.Equal(t, int64(380000), q.Items[1].LineTotal)
	assert.Equal(t, int64(1460000), q.Subtotal)
	assert.Equal(t, int64(102200), q.Discount)
	assert.Equal(t, int64(1357800), q.Total)
	assert.Equal(t, "COP", q.Currency)
}

func TestBuildQuoteDiscountRoundsDown(t *testing.T) {
	svc, _ := newQuotes()
	q, err := svc.Build(context.Background(), models.QuoteInput{
		DiscountPct: 3,
		Items:       []models.QuoteItem{{Name: "x", UnitPrice: 333, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), q.Discount)
	assert.Equal(t, int64(324), q.Total)
}

func TestBuildQuoteFillsFromCatalog(t *testing.T) {
	svc, _ := newQuotes()
	q, err := svc.Build(context.Background(), models.QuoteInput{
		Items: []models.QuoteItem{{ServiceID: "s1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tour Acuario", q.Items[0].Name)
	assert.Equal(t, int64(120000), q.Items[0].UnitPrice)
	assert.Equal(t, int64(240000), q.Total)
}

func TestBuildQuoteValidation(t *testing.T) {
	svc, _ := newQuotes()
	ctx := context.Background()
	bad := []models.QuoteInput{
		{},
		{DiscountPct: 101, Items: []models.QuoteItem{{Name: "x", Quantity: 1}}},
		{DiscountPct: -1, Items: []models.QuoteItem{{Name: "x", Quantity: 1}}},
		{Items: []models.QuoteItem{{Name: "x", Quantity: 0}}},
		{Items: []models.QuoteItem{{Name: "", UnitPrice: 10, Quantity: 1}}},
		{Items: []models.QuoteItem{{Name: "x", UnitPrice: -10, Quantity: 1}}},
	}
	for i, in := range bad {
		_, err := svc.Build(ctx, in)
		assert.True(t, domain.IsValidation(err), "case %d: %v", i, err)
	}
}

func TestBuildQuoteRejectsOversizedAmounts(t *testing.T) {
	svc, _ := newQuotes()
	ctx := context.Background()

	huge := make([]models.QuoteItem, maxQuoteItems)
	for i := range huge {
		huge[i] = models.QuoteItem{Name: "Villa", UnitPrice: maxQuoteUnitPrice, Quantity: maxQuoteQuantity, Units: maxQuoteUnits}
	}
	bad := []models.QuoteInput{
		{DiscountPct: 100, Items: []models.QuoteItem{{Name: "x", UnitPrice: 100_000_000_000_000_000, Quantity: 1}}},
		{Items: []models.QuoteItem{{Name: "x", UnitPrice: 1000, Quantity: 1_000_000}}},
		{Items: []models.QuoteItem{{Name: "x", UnitPrice: 1000, Quantity: 1, Units: 10_000}}},
		{Items: huge},
	}
	for i, in := range bad {
		_, err := svc.Build(ctx, in)
		assert.True(t, domain.IsValidation(err), "case %d: %v", i, err)
	}

	q, err := svc.Build(ctx, models.QuoteInput{
		DiscountPct: 100,
		Items:       []models.QuoteItem{{Name: "Villa", UnitPrice: maxQuoteUnitPrice, Quantity: maxQuoteQuantity, Units: maxQuoteUnits}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(365_000_000_000_000_000), q.Subtotal)
	assert.Equal(t, q.Subtotal, q.Discount)
	assert.Zero(t, q.Total)
}

func TestCreateQuoteNumbersAndStores(t *testing.T) {
	svc, store := newQuotes()
	q, err := svc.Create(context.Background(), models.QuoteInput{
		CustomerName: "Familia Ruiz",
		Items:        []models.QuoteItem{{Name: "Tour", UnitPrice: 100000, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "recQ1", q.ID)
	assert.Regexp(t, regexp.MustCompile(`^GG-20260301-[0-9A-F]{6}$`), q.Number)
	assert.Equal(t, "2026-03-16", q.ValidUntil)
	require.Len(t, store.saved, 1)

	got, err := svc.Get(context.Background(), "recQ1")
	require.NoError(t, err)
	assert.Equal(t, q.Number, got.Number)

	_, err = svc.Create(context.Background(), models.QuoteInput{Items: []models.QuoteItem{{Name: "x", Quantity: 1}}})
	assert.True(t, domain.IsValidation(err))
}

func TestQuotePDF(t *testing.T) {
	svc, _ := newQuotes()
	q, err := svc.Create(context.Background(), models.QuoteInput{
		CustomerName: "José Núñez",
		DiscountPct:  10,
		Items:        []models.QuoteItem{{Name: "Vuelta a la isla", UnitPrice: 250000, Quantity: 1}},
	})
	require.NoError(t, err)

	pdf, filename, err := DocsService{}.QuotePDF(q)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Greater(t, len(pdf), 500)
	assert.Contains(t, filename, q.Number)
	assert.Regexp(t, `^COTIZACION_.+\.pdf$`, filename)

	_, _, err = DocsService{}.QuotePDF(models.Quote{})
	assert.True(t, domain.IsValidation(err))
}

func TestGetQuoteIsCached(t *testing.T) {
	svc, store := newQuotes()
	svc.Cache = newCatalog(catalogFixture()).Cache
	store.saved = []models.Quote{{ID: "recQ7", Number: "GG-1"}}

	q, err := svc.Get(context.Background(), "recQ7")
	require.NoError(t, err)
	assert.Equal(t, "GG-1", q.Number)

	store.saved = nil
	q, err = svc.Get(context.Background(), "recQ7")
	require.NoError(t, err)
	assert.Equal(t, "GG-1", q.Number)

	_, err = svc.Get(context.Background(), "recMissing")
	assert.True(t, domain.IsNotFound(err))
}

func TestCreateQuoteSeedsCache(t *testing.T) {
	svc, store := newQuotes()
	svc.Cache = newCatalog(catalogFixture()).Cache
	q, err := svc.Create(context.Background(), models.QuoteInput{
		CustomerName: "Familia Ruiz",
		Items:        []models.QuoteItem{{Name: "Tour", UnitPrice: 100000, Quantity: 2}},
	})
	require.NoError(t, err)

	store.saved = nil
	got, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Number, got.Number)
	assert.Equal(t, int64(200000), got.Total)
}
