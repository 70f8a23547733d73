package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"guanago/internal/airtable"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
)

type QuoteRepo struct {
	AT    *airtable.Client
	Table string
}

func (r QuoteRepo) table() string { return table(r.Table, TableQuotes) }

func (r QuoteRepo) Create(ctx context.Context, q models.Quote) (models.Quote, error) {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return models.Quote{}, domain.InternalError{Msg: "items inválidos", Err: err}
	}
	fields := quoteFields.ToFields(map[string]any{
		"number":        q.Number,
		"customerName":  q.CustomerName,
		"customerEmail": q.CustomerEmail,
		"items":         string(items),
		"subtotal":      q.Subtotal,
		"discountPct":   q.DiscountPct,
		"discount":      q.Discount,
		"total":         q.Total,
		"currency":      q.Currency,
		"validUntil":    q.ValidUntil,
		"createdAt":     q.CreatedAt.UTC().Format(time.RFC3339),
	})
	rec, err := r.AT.Create(ctx, r.table(), fields)
	if err != nil {
		return models.Quote{}, err
	}
	return quoteFromRecord(rec)
}

func (r QuoteRepo) Get(ctx context.Context, id string) (models.Quote, error) {
	rec, err := r.AT.Get(ctx, r.table(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Quote{}, domain.NotFoundError{Resource: "cotización", Err: err}
		}
		return models.Quote{}, err
	}
	return quoteFromRecord(rec)
}

func quoteFromRecord(rec airtable.Record) (models.Quote, error) {
	f := rec.Fields
	col := quoteFields.Column
	q := models.Quote{
		ID:            rec.ID,
		Number:        airtable.String(f, col("number")),
		CustomerName:  airtable.String(f, col("customerName")),
		CustomerEmail: airtable.String(f, col("customerEmail")),
		Subtotal:      airtable.Int64(f, col("subtotal")),
		DiscountPct:   int(airtable.Int64(f, col("discountPct"))),
		Discount:      airtable.Int64(f, col("discount")),
		Total:         airtable.Int64(f, col("total")),
		Currency:      airtable.String(f, col("currency")),
		ValidUntil:    airtable.String(f, col("validUntil")),
	}
	if raw := airtable.String(f, col("items")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &q.Items); err != nil {
			return models.Quote{}, domain.UpstreamError{
				Service: "airtable",
				Msg:     fmt.Sprintf("cotización %s: %s ilegible", rec.ID, col("items")),
				Err:     err,
			}
		}
	}
	if t, err := time.Parse(time.RFC3339, airtable.String(f, col("createdAt"))); err == nil {
		q.CreatedAt = t
	}
	if q.Currency == "" {
		q.Currency = "COP"
	}
	return q, nil
}
