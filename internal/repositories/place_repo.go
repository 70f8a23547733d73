package repositories

import (
	"context"
	"strings"

	"guanago/internal/airtable"
	"guanago/internal/domain/models"
)

type DirectoryRepo struct {
	AT    *airtable.Client
	Table string
}

func (r DirectoryRepo) List(ctx context.Context) ([]models.Place, error) {
	recs, err := r.AT.List(ctx, table(r.Table, TableDirectory), airtable.ListOptions{})
	if err != nil {
		return nil, err
	}
	col := placeFields.Column
	out := make([]models.Place, 0, len(recs))
	for _, rec := range recs {
		f := rec.Fields
		p := models.Place{
			ID:       rec.ID,
			Name:     airtable.String(f, col("name")),
			Category: strings.ToLower(airtable.String(f, col("category"))),
			Lat:      airtable.Float(f, col("lat")),
			Lng:      airtable.Float(f, col("lng")),
			Phone:    airtable.String(f, col("phone")),
			Address:  airtable.String(f, col("address")),
			Hours:    airtable.String(f, col("hours")),
			ImageURL: airtable.Attachment(f, col("imageUrl")),
		}
		if p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type AccommodationRepo struct {
	AT    *airtable.Client
	Table string
}

func (r AccommodationRepo) List(ctx context.Context) ([]models.Accommodation, error) {
	recs, err := r.AT.List(ctx, table(r.Table, TableAccommodations), airtable.ListOptions{})
	if err != nil {
		return nil, err
	}
	col := accommodationFields.Column
	out := make([]models.Accommodation, 0, len(recs))
	for _, rec := range recs {
		f := rec.Fields
		a := models.Accommodation{
			ID:            rec.ID,
			Name:          airtable.String(f, col("name")),
			Type:          strings.ToLower(airtable.String(f, col("type"))),
			Zone:          airtable.String(f, col("zone")),
			PricePerNight: airtable.Int64(f, col("pricePerNight")),
			Capacity:      int(airtable.Int64(f, col("capacity"))),
			Stars:         int(airtable.Int64(f, col("stars"))),
			Amenities:     airtable.Strings(f, col("amenities")),
			ImageURL:      airtable.Attachment(f, col("imageUrl")),
			Available:     airtable.Bool(f, col("available")),
		}
		if a.Name == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
