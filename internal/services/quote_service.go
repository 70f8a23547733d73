package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"guanago/internal/cache"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/utils"

	"github.com/google/uuid"
)

const (
	quoteValidity = 15 * 24 * time.Hour
	maxQuoteItems = 30

	maxQuoteUnitPrice int64 = 1_000_000_000_000
	maxQuoteQuantity        = 1000
	maxQuoteUnits           = 365
)

type QuoteService struct {
	Quotes   QuoteStore
	Catalog  ServiceLookup
	Activity ActivityRecorder
	// Cache, when set, serves repeated reads of a quote (PDF downloads).
	Cache *cache.SWR
	Now   func() time.Time
}

// Build prices a quote without storing it.
//
//	line     = unitPrice * quantity * max(units, 1)
//	discount = subtotal * discountPct / 100, rounded down to whole pesos
//	total    = subtotal - discount
func (s QuoteService) Build(ctx context.Context, in models.QuoteInput) (models.Quote, error) {
	if len(in.Items) == 0 {
		return models.Quote{}, domain.ValidationError{Field: "items", Msg: "requerido"}
	}
	if len(in.Items) > maxQuoteItems {
		return models.Quote{}, domain.ValidationError{Field: "items", Msg: fmt.Sprintf("máximo %d ítems", maxQuoteItems)}
	}
	if in.DiscountPct < 0 || in.DiscountPct > 100 {
		return models.Quote{}, domain.ValidationError{Field: "discountPct", Msg: "debe estar entre 0 y 100"}
	}

	q := models.Quote{
		CustomerName:  utils.NormalizeSpace(in.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		DiscountPct:   in.DiscountPct,
		Currency:      "COP",
		Items:         make([]models.QuoteItem, 0, len(in.Items)),
	}
	for i, item := range in.Items {
		item, err := s.resolveItem(ctx, item)
		if err != nil {
			return models.Quote{}, err
		}
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case strings.TrimSpace(item.Name) == "":
			return models.Quote{}, domain.ValidationError{Field: field + ".name", Msg: "requerido"}
		case item.UnitPrice < 0:
			return models.Quote{}, domain.ValidationError{Field: field + ".unitPrice", Msg: "no puede ser negativo"}
		case item.Quantity < 1:
			return models.Quote{}, domain.ValidationError{Field: field + ".quantity", Msg: "debe ser al menos 1"}
		case item.Units < 0:
			return models.Quote{}, domain.ValidationError{Field: field + ".units", Msg: "no puede ser negativo"}
		case item.UnitPrice > maxQuoteUnitPrice:
			return models.Quote{}, domain.ValidationError{Field: field + ".unitPrice", Msg: "excede el máximo permitido"}
		case item.Quantity > maxQuoteQuantity:
			return models.Quote{}, domain.ValidationError{Field: field + ".quantity", Msg: fmt.Sprintf("máximo %d", maxQuoteQuantity)}
		case item.Units > maxQuoteUnits:
			return models.Quote{}, domain.ValidationError{Field: field + ".units", Msg: fmt.Sprintf("máximo %d", maxQuoteUnits)}
		}
		units := item.Units
		if units == 0 {
			units = 1
		}
		line, ok := mulCOP(item.UnitPrice, int64(item.Quantity))
		if ok {
			line, ok = mulCOP(line, int64(units))
		}
		if !ok {
			return models.Quote{}, domain.ValidationError{Field: field, Msg: "el valor de la línea es demasiado grande"}
		}
		if q.Subtotal > math.MaxInt64-line {
			return models.Quote{}, domain.ValidationError{Field: "items", Msg: "el subtotal es demasiado grande"}
		}
		item.LineTotal = line
		q.Subtotal += line
		q.Items = append(q.Items, item)
	}
	pct := int64(q.DiscountPct)
	q.Discount = q.Subtotal/100*pct + q.Subtotal%100*pct/100
	q.Total = q.Subtotal - q.Discount
	return q, nil
}

// Create prices the quote, numbers it and stores it in CotizacionesGG.
func (s QuoteService) Create(ctx context.Context, in models.QuoteInput) (models.Quote, error) {
	if utils.NormalizeSpace(in.CustomerName) == "" {
		return models.Quote{}, domain.ValidationError{Field: "customerName", Msg: "requerido"}
	}
	q, err := s.Build(ctx, in)
	if err != nil {
		return models.Quote{}, err
	}
	now := s.now()
	q.CreatedAt = now.UTC()
	q.Number = quoteNumber(now)
	q.ValidUntil = utils.FormatDate(now.Add(quoteValidity))

	saved, err := s.Quotes.Create(ctx, q)
	if err != nil {
		return models.Quote{}, err
	}
	q.ID = saved.ID
	s.seed(ctx, q)

	reqID := utils.RequestIDFrom(ctx)
	detail := fmt.Sprintf("number=%s items=%d total=%d", q.Number, len(q.Items), q.Total)
	utils.LogEvent(reqID, "quote", "create", detail)
	if s.Activity != nil {
		if err := s.Activity.Record(ctx, models.Activity{RequestID: reqID, Action: "create", Entity: "quote", EntityID: q.ID, Detail: detail}); err != nil {
			utils.LogEvent(reqID, "quote", "activity_failed", err.Error())
		}
	}
	return q, nil
}

func (s QuoteService) Get(ctx context.Context, id string) (models.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Quote{}, domain.ValidationError{Field: "id", Msg: "requerido"}
	}
	if s.Cache == nil {
		return s.Quotes.Get(ctx, id)
	}
	q, _, err := cache.GetJSON(ctx, s.Cache, quoteKey(id), func(ctx context.Context) (models.Quote, error) {
		return s.Quotes.Get(ctx, id)
	})
	return q, err
}

// seed stores a new quote so the first PDF download skips Airtable.
func (s QuoteService) seed(ctx context.Context, q models.Quote) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(q)
	if err == nil {
		err = s.Cache.Put(ctx, quoteKey(q.ID), raw)
	}
	if err != nil {
		utils.LogEvent(utils.RequestIDFrom(ctx), "quote", "cache_seed_failed", err.Error())
	}
}

func quoteKey(id string) string { return "quotes:" + id }

// resolveItem fills name and price from the catalog when the item only names a service.
func (s QuoteService) resolveItem(ctx context.Context, item models.QuoteItem) (models.QuoteItem, error) {
	item.Name = utils.NormalizeSpace(item.Name)
	if item.ServiceID == "" || s.Catalog == nil || (item.UnitPrice > 0 && item.Name != "") {
		return item, nil
	}
	svc, err := s.Catalog.GetService(ctx, item.ServiceID)
	if err != nil {
		return item, err
	}
	if item.Name == "" {
		item.Name = svc.Name
	}
	if item.UnitPrice == 0 {
		item.UnitPrice = svc.Price
	}
	return item, nil
}

func (s QuoteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// mulCOP multiplies non-negative amounts, reporting false on int64 overflow.
func mulCOP(a, b int64) (int64, bool) {
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}

// quoteNumber renders GG-YYYYMMDD-XXXXXX.
func quoteNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "GG-" + now.In(utils.Bogota).Format("20060102") + "-" + suffix
}
