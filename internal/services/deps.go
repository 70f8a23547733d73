package services

import (
	"context"

	"guanago/internal/domain/models"
	"guanago/internal/groq"
	"guanago/internal/webhook"
)

// ServiceStore is the Airtable-backed ServiciosTuristicos_SAI table.
type ServiceStore interface {
	List(ctx context.Context) ([]models.TourService, error)
	Get(ctx context.Context, id string) (models.TourService, error)
	Create(ctx context.Context, in models.ServiceInput) (models.TourService, error)
	Update(ctx context.Context, id string, in models.ServiceInput) (models.TourService, error)
	Delete(ctx context.Context, id string) error
}

type PlaceStore interface {
	List(ctx context.Context) ([]models.Place, error)
}

type AccommodationStore interface {
	List(ctx context.Context) ([]models.Accommodation, error)
}

type ReservationStore interface {
	Create(ctx context.Context, r models.Reservation) (models.Reservation, error)
	List(ctx context.Context, status string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) (models.Reservation, error)
}

type QuoteStore interface {
	Create(ctx context.Context, q models.Quote) (models.Quote, error)
	Get(ctx context.Context, id string) (models.Quote, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// ServiceLookup resolves a catalog entry by id.
type ServiceLookup interface {
	GetService(ctx context.Context, id string) (models.TourService, error)
}

// Dispatcher sends an action to a Make.com scenario.
type Dispatcher interface {
	Dispatch(ctx context.Context, action string, payload map[string]any) (webhook.Response, error)
}

type Completer interface {
	Complete(ctx context.Context, in groq.ChatRequest) (groq.ChatResult, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, a models.Activity) error
}

type noopActivity struct{}

func (noopActivity) Record(context.Context, models.Activity) error { return nil }
