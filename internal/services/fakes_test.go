package services

import (
	"context"
	"sync"
	"time"

	"guanago/internal/cache"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/groq"
	"guanago/internal/webhook"
)

type fakeServices struct {
	mu      sync.Mutex
	items   []models.TourService
	err     error
	lists   int
	created []models.ServiceInput
}

func (f *fakeServices) List(context.Context) ([]models.TourService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.TourService(nil), f.items...), nil
}

func (f *fakeServices) Get(_ context.Context, id string) (models.TourService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.items {
		if s.ID == id {
			return s, nil
		}
	}
	return models.TourService{}, domain.NotFoundError{Resource: "servicio"}
}

func (f *fakeServices) Create(_ context.Context, in models.ServiceInput) (models.TourService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	svc := models.TourService{ID: "recNew", Name: *in.Name, Category: *in.Category, Active: *in.Active}
	f.items = append(f.items, svc)
	return svc, nil
}

func (f *fakeServices) Update(_ context.Context, id string, in models.ServiceInput) (models.TourService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			if in.Price != nil {
				f.items[i].Price = *in.Price
			}
			return f.items[i], nil
		}
	}
	return models.TourService{}, domain.NotFoundError{Resource: "servicio"}
}

func (f *fakeServices) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "servicio"}
}

type fakePlaces struct {
	items []models.Place
	err   error
}

func (f fakePlaces) List(context.Context) ([]models.Place, error) { return f.items, f.err }

type fakeAccommodations struct {
	items []models.Accommodation
	err   error
}

func (f fakeAccommodations) List(context.Context) ([]models.Accommodation, error) { return f.items, f.err }

type fakeReservations struct {
	saved   []models.Reservation
	status  map[string]string
	listArg string
}

func (f *fakeReservations) Create(_ context.Context, r models.Reservation) (models.Reservation, error) {
	r.ID = "recRes1"
	f.saved = append(f.saved, r)
	return r, nil
}

func (f *fakeReservations) List(_ context.Context, status string) ([]models.Reservation, error) {
	f.listArg = status
	return f.saved, nil
}

func (f *fakeReservations) UpdateStatus(_ context.Context, id, status string) (models.Reservation, error) {
	if f.status == nil {
		f.status = map[string]string{}
	}
	f.status[id] = status
	return models.Reservation{ID: id, Status: status}, nil
}

type fakeQuotes struct {
	saved []models.Quote
}

func (f *fakeQuotes) Create(_ context.Context, q models.Quote) (models.Quote, error) {
	q.ID = "recQ1"
	f.saved = append(f.saved, q)
	return q, nil
}

func (f *fakeQuotes) Get(_ context.Context, id string) (models.Quote, error) {
	for _, q := range f.saved {
		if q.ID == id {
			return q, nil
		}
	}
	return models.Quote{}, domain.NotFoundError{Resource: "cotización"}
}

type fakeUsers map[string]models.User

func (f fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := f[email]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "usuario"}
	}
	return u, nil
}

type dispatch struct {
	Action  string
	Payload map[string]any
}

type fakeHooks struct {
	mu    sync.Mutex
	calls []dispatch
	reply webhook.Response
	err   error
}

func (f *fakeHooks) Dispatch(_ context.Context, action string, payload map[string]any) (webhook.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dispatch{Action: action, Payload: payload})
	return f.reply, f.err
}

type fakeLLM struct {
	got    groq.ChatRequest
	result groq.ChatResult
	err    error
}

func (f *fakeLLM) Complete(_ context.Context, in groq.ChatRequest) (groq.ChatResult, error) {
	f.got = in
	return f.result, f.err
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []models.Activity
}

func (f *fakeActivity) Record(_ context.Context, a models.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, a)
	return nil
}

func newCatalog(svcs *fakeServices) *CatalogService {
	return &CatalogService{
		Services:       svcs,
		Places:         fakePlaces{items: []models.Place{{ID: "p1", Name: "West View", Category: "Atracción"}, {ID: "p2", Name: "Spratt Bight", Category: "playa"}}},
		Accommodations: fakeAccommodations{items: []models.Accommodation{{ID: "a1", Name: "Hotel", Type: "hotel", PricePerNight: 300000, Capacity: 2, Available: true}, {ID: "a2", Name: "Posada", Type: "posada", PricePerNight: 150000, Capacity: 4, Available: true}}},
		Cache:          cache.NewSWR(cache.NewMemoryStore(time.Hour), cache.Options{}),
	}
}

func fixedNow() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }
