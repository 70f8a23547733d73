package repositories

import (
	"context"
	"strings"

	"guanago/internal/airtable"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
)

type ServiceRepo struct {
	AT    *airtable.Client
	Table string
}

func (r ServiceRepo) table() string { return table(r.Table, TableServices) }

// List returns every service row; filtering happens on the cached slice.
func (r ServiceRepo) List(ctx context.Context) ([]models.TourService, error) {
	recs, err := r.AT.List(ctx, r.table(), airtable.ListOptions{
		Sort: []airtable.Sort{{Field: serviceFields.Column("name"), Direction: "asc"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]models.TourService, 0, len(recs))
	for _, rec := range recs {
		s := serviceFromRecord(rec)
		if s.Name == "" {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r ServiceRepo) Get(ctx context.Context, id string) (models.TourService, error) {
	rec, err := r.AT.Get(ctx, r.table(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.TourService{}, domain.NotFoundError{Resource: "servicio", Err: err}
		}
		return models.TourService{}, err
	}
	return serviceFromRecord(rec), nil
}

func (r ServiceRepo) Create(ctx context.Context, in models.ServiceInput) (models.TourService, error) {
	rec, err := r.AT.Create(ctx, r.table(), serviceFields.ToFields(serviceInputMap(in)))
	if err != nil {
		return models.TourService{}, err
	}
	return serviceFromRecord(rec), nil
}

func (r ServiceRepo) Update(ctx context.Context, id string, in models.ServiceInput) (models.TourService, error) {
	fields := serviceFields.ToFields(serviceInputMap(in))
	if len(fields) == 0 {
		return models.TourService{}, domain.ValidationError{Msg: "no hay campos para actualizar"}
	}
	rec, err := r.AT.Update(ctx, r.table(), id, fields)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.TourService{}, domain.NotFoundError{Resource: "servicio", Err: err}
		}
		return models.TourService{}, err
	}
	return serviceFromRecord(rec), nil
}

func (r ServiceRepo) Delete(ctx context.Context, id string) error {
	err := r.AT.Delete(ctx, r.table(), id)
	if domain.IsNotFound(err) {
		return domain.NotFoundError{Resource: "servicio", Err: err}
	}
	return err
}

func serviceFromRecord(rec airtable.Record) models.TourService {
	f := rec.Fields
	col := serviceFields.Column
	currency := airtable.String(f, col("currency"))
	if currency == "" {
		currency = "COP"
	}
	return models.TourService{
		ID:          rec.ID,
		Name:        airtable.String(f, col("name")),
		Category:    strings.ToLower(airtable.String(f, col("category"))),
		Description: airtable.String(f, col("description")),
		Price:       airtable.Int64(f, col("price")),
		Currency:    currency,
		Duration:    airtable.String(f, col("duration")),
		Location:    airtable.String(f, col("location")),
		ImageURL:    airtable.Attachment(f, col("imageUrl")),
		Active:      airtable.Bool(f, col("active")),
		PartnerID:   airtable.String(f, col("partnerId")),
		Rating:      airtable.Float(f, col("rating")),
	}
}

// serviceInputMap keeps only the fields present in the payload (PATCH semantics).
func serviceInputMap(in models.ServiceInput) map[string]any {
	m := map[string]any{}
	if in.Name != nil {
		m["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		m["category"] = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.Description != nil {
		m["description"] = *in.Description
	}
	if in.Price != nil {
		m["price"] = *in.Price
	}
	if in.Currency != nil {
		m["currency"] = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Duration != nil {
		m["duration"] = *in.Duration
	}
	if in.Location != nil {
		m["location"] = *in.Location
	}
	if in.ImageURL != nil {
		m["imageUrl"] = attachmentValue(*in.ImageURL)
	}
	if in.Active != nil {
		m["active"] = *in.Active
	}
	if in.PartnerID != nil {
		m["partnerId"] = *in.PartnerID
	}
	if in.Rating != nil {
		m["rating"] = *in.Rating
	}
	return m
}
