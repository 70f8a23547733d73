package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"guanago/internal/cache"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/utils"

	"golang.org/x/sync/errgroup"
)

const (
	keyServices       = "services:all"
	keyDirectory      = "directory:all"
	keyAccommodations = "accommodations:all"
)

// CatalogService serves the read-mostly catalog tables through the SWR cache.
type CatalogService struct {
	Services       ServiceStore
	Places         PlaceStore
	Accommodations AccommodationStore
	Cache          *cache.SWR
}

// AccommodationFilter narrows the cached accommodation list.
type AccommodationFilter struct {
	Type          string
	Zone          string
	MinCapacity   int
	AvailableOnly bool
}

// RegisterFallbacks installs the built-in datasets served when Airtable is down.
func (s CatalogService) RegisterFallbacks() error {
	if err := s.Cache.RegisterFallback("services", fallbackServices); err != nil {
		return err
	}
	if err := s.Cache.RegisterFallback("directory", fallbackPlaces); err != nil {
		return err
	}
	return s.Cache.RegisterFallback("accommodations", fallbackAccommodations)
}

func (s CatalogService) ListServices(ctx context.Context, f models.ServiceFilter) ([]models.TourService, cache.Meta, error) {
	all, meta, err := cache.GetJSON(ctx, s.Cache, keyServices, s.Services.List)
	if err != nil {
		return nil, meta, err
	}
	out := make([]models.TourService, 0, len(all))
	category := utils.Fold(f.Category)
	for _, svc := range all {
		if f.ActiveOnly && !svc.Active {
			continue
		}
		if category != "" && utils.Fold(svc.Category) != category {
			continue
		}
		if f.PartnerID != "" && svc.PartnerID != f.PartnerID {
			continue
		}
		if f.Query != "" && !utils.ContainsFold(svc.Name+" "+svc.Description+" "+svc.Location, f.Query) {
			continue
		}
		out = append(out, svc)
	}
	sort.SliceStable(out, func(i, j int) bool { return utils.Fold(out[i].Name) < utils.Fold(out[j].Name) })
	return out, meta, nil
}

// GetService looks in the cached list first and falls back to Airtable.
func (s CatalogService) GetService(ctx context.Context, id string) (models.TourService, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.TourService{}, domain.ValidationError{Field: "id", Msg: "requerido"}
	}
	if all, _, err := s.ListServices(ctx, models.ServiceFilter{}); err == nil {
		for _, svc := range all {
			if svc.ID == id {
				return svc, nil
			}
		}
	}
	return s.Services.Get(ctx, id)
}

func (s CatalogService) CreateService(ctx context.Context, in models.ServiceInput) (models.TourService, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return models.TourService{}, domain.ValidationError{Field: "name", Msg: "requerido"}
	}
	if in.Category == nil || strings.TrimSpace(*in.Category) == "" {
		return models.TourService{}, domain.ValidationError{Field: "category", Msg: "requerido"}
	}
	if err := validateServiceInput(in); err != nil {
		return models.TourService{}, err
	}
	if in.Active == nil {
		active := true
		in.Active = &active
	}
	svc, err := s.Services.Create(ctx, in)
	if err != nil {
		return models.TourService{}, err
	}
	s.invalidate(ctx, "services", "create", svc.ID)
	return svc, nil
}

func (s CatalogService) UpdateService(ctx context.Context, id string, in models.ServiceInput) (models.TourService, error) {
	if err := validateServiceInput(in); err != nil {
		return models.TourService{}, err
	}
	svc, err := s.Services.Update(ctx, id, in)
	if err != nil {
		return models.TourService{}, err
	}
	s.invalidate(ctx, "services", "update", id)
	return svc, nil
}

func (s CatalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.Services.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "services", "delete", id)
	return nil
}

func (s CatalogService) ListDirectory(ctx context.Context, category string) ([]models.Place, cache.Meta, error) {
	all, meta, err := cache.GetJSON(ctx, s.Cache, keyDirectory, s.Places.List)
	if err != nil {
		return nil, meta, err
	}
	category = utils.Fold(category)
	out := make([]models.Place, 0, len(all))
	for _, p := range all {
		if category != "" && utils.Fold(p.Category) != category {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return utils.Fold(out[i].Name) < utils.Fold(out[j].Name) })
	return out, meta, nil
}

// ListAccommodations returns matches ordered by nightly price, cheapest first.
func (s CatalogService) ListAccommodations(ctx context.Context, f AccommodationFilter) ([]models.Accommodation, cache.Meta, error) {
	all, meta, err := cache.GetJSON(ctx, s.Cache, keyAccommodations, s.Accommodations.List)
	if err != nil {
		return nil, meta, err
	}
	typ, zone := utils.Fold(f.Type), utils.Fold(f.Zone)
	out := make([]models.Accommodation, 0, len(all))
	for _, a := range all {
		if f.AvailableOnly && !a.Available {
			continue
		}
		if typ != "" && utils.Fold(a.Type) != typ {
			continue
		}
		if zone != "" && utils.Fold(a.Zone) != zone {
			continue
		}
		if f.MinCapacity > 0 && a.Capacity < f.MinCapacity {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerNight < out[j].PricePerNight })
	return out, meta, nil
}

// Warm refreshes the three catalog keys in parallel.
func (s CatalogService) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cache.RefreshJSON(ctx, s.Cache, keyServices, s.Services.List)
	})
	g.Go(func() error {
		return cache.RefreshJSON(ctx, s.Cache, keyDirectory, s.Places.List)
	})
	g.Go(func() error {
		return cache.RefreshJSON(ctx, s.Cache, keyAccommodations, s.Accommodations.List)
	})
	return g.Wait()
}

func (s CatalogService) invalidate(ctx context.Context, prefix, action, id string) {
	if err := s.Cache.Invalidate(ctx, prefix); err != nil {
		utils.LogEvent(utils.RequestIDFrom(ctx), "catalog", "invalidate_failed", fmt.Sprintf("prefix=%s err=%v", prefix, err))
		return
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "catalog", action, fmt.Sprintf("service_id=%s cache=%s invalidated", id, prefix))
}

func validateServiceInput(in models.ServiceInput) error {
	if in.Price != nil && *in.Price < 0 {
		return domain.ValidationError{Field: "price", Msg: "no puede ser negativo"}
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 5) {
		return domain.ValidationError{Field: "rating", Msg: "debe estar entre 0 y 5"}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "no puede estar vacío"}
	}
	return nil
}
