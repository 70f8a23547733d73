package handlers

import (
	"context"
	"time"

	"guanago/internal/cache"
	"guanago/internal/domain/models"
	"guanago/internal/services"
)

type Catalog interface {
	ListServices(ctx context.Context, f models.ServiceFilter) ([]models.TourService, cache.Meta, error)
	GetService(ctx context.Context, id string) (models.TourService, error)
	CreateService(ctx context.Context, in models.ServiceInput) (models.TourService, error)
	UpdateService(ctx context.Context, id string, in models.ServiceInput) (models.TourService, error)
	DeleteService(ctx context.Context, id string) error
	ListDirectory(ctx context.Context, category string) ([]models.Place, cache.Meta, error)
	ListAccommodations(ctx context.Context, f services.AccommodationFilter) ([]models.Accommodation, cache.Meta, error)
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (services.Session, error)
	LoginWithPIN(ctx context.Context, pin string) (services.Session, error)
}

type Reservations interface {
	Create(ctx context.Context, in models.ReservationInput) (models.Reservation, error)
	List(ctx context.Context, status string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id, status, actor string) (models.Reservation, error)
}

type Quotes interface {
	Build(ctx context.Context, in models.QuoteInput) (models.Quote, error)
	Create(ctx context.Context, in models.QuoteInput) (models.Quote, error)
	Get(ctx context.Context, id string) (models.Quote, error)
}

type Documents interface {
	QuotePDF(q models.Quote) ([]byte, string, error)
}

type Points interface {
	Register(ctx context.Context, email, name string) (models.Wallet, error)
	Balance(ctx context.Context, email string) (models.Wallet, error)
	Redeem(ctx context.Context, email string, amount int64, concept string) (models.Wallet, error)
}

type Concierge interface {
	Reply(ctx context.Context, history []models.ChatMessage) (models.ChatReply, error)
}

type CacheAdmin interface {
	Stats() map[cache.State]int64
	Invalidate(ctx context.Context, prefix string) error
}

type ActivityLog interface {
	Enabled() bool
	List(ctx context.Context, entity string, limit int) ([]models.Activity, error)
}

type WarmStatus interface {
	Last() (time.Time, error)
	RunOnce(ctx context.Context) error
}

// API bundles the services behind the HTTP handlers.
type API struct {
	Catalog      Catalog
	Auth         Authenticator
	Reservations Reservations
	Quotes       Quotes
	Docs         Documents
	Points       Points
	Concierge    Concierge
	Cache        CacheAdmin
	Activity     ActivityLog
	Warmer       WarmStatus
}
