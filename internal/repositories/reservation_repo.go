package repositories

import (
	"context"
	"time"

	"guanago/internal/airtable"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
)

type ReservationRepo struct {
	AT    *airtable.Client
	Table string
}

func (r ReservationRepo) table() string { return table(r.Table, TableReservations) }

func (r ReservationRepo) Create(ctx context.Context, res models.Reservation) (models.Reservation, error) {
	fields := reservationFields.ToFields(map[string]any{
		"serviceId":     res.ServiceID,
		"serviceName":   res.ServiceName,
		"customerName":  res.CustomerName,
		"customerEmail": res.CustomerEmail,
		"customerPhone": res.CustomerPhone,
		"date":          res.Date,
		"pax":           res.Pax,
		"unitPrice":     res.UnitPrice,
		"total":         res.Total,
		"status":        res.Status,
		"notes":         res.Notes,
		"createdAt":     res.CreatedAt.UTC().Format(time.RFC3339),
	})
	rec, err := r.AT.Create(ctx, r.table(), fields)
	if err != nil {
		return models.Reservation{}, err
	}
	return reservationFromRecord(rec), nil
}

// List returns reservations, newest first, optionally filtered by status.
func (r ReservationRepo) List(ctx context.Context, status string) ([]models.Reservation, error) {
	opts := airtable.ListOptions{
		Sort: []airtable.Sort{{Field: reservationFields.Column("createdAt"), Direction: "desc"}},
	}
	if status != "" {
		opts.FilterByFormula = "{" + reservationFields.Column("status") + "} = " + airtable.EscapeFormula(status)
	}
	recs, err := r.AT.List(ctx, r.table(), opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.Reservation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, reservationFromRecord(rec))
	}
	return out, nil
}

func (r ReservationRepo) UpdateStatus(ctx context.Context, id, status string) (models.Reservation, error) {
	rec, err := r.AT.Update(ctx, r.table(), id, reservationFields.ToFields(map[string]any{"status": status}))
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Reservation{}, domain.NotFoundError{Resource: "reserva", Err: err}
		}
		return models.Reservation{}, err
	}
	return reservationFromRecord(rec), nil
}

func reservationFromRecord(rec airtable.Record) models.Reservation {
	f := rec.Fields
	col := reservationFields.Column
	res := models.Reservation{
		ID:            rec.ID,
		ServiceID:     airtable.String(f, col("serviceId")),
		ServiceName:   airtable.String(f, col("serviceName")),
		CustomerName:  airtable.String(f, col("customerName")),
		CustomerEmail: airtable.String(f, col("customerEmail")),
		CustomerPhone: airtable.String(f, col("customerPhone")),
		Date:          airtable.String(f, col("date")),
		Pax:           int(airtable.Int64(f, col("pax"))),
		UnitPrice:     airtable.Int64(f, col("unitPrice")),
		Total:         airtable.Int64(f, col("total")),
		Status:        airtable.String(f, col("status")),
		Notes:         airtable.String(f, col("notes")),
	}
	created := airtable.String(f, col("createdAt"))
	if created == "" {
		created = rec.CreatedTime
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		res.CreatedAt = t
	}
	if res.Status == "" {
		res.Status = models.ReservationPending
	}
	return res
}
