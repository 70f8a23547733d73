package services

import (
	"context"
	"errors"
	"testing"

	"guanago/internal/domain"
	"guanago/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservations() (ReservationService, *fakeReservations, *fakeHooks, *fakeActivity) {
	store := &fakeReservations{}
	hooks := &fakeHooks{}
	act := &fakeActivity{}
	return ReservationService{
		Reservations: store,
		Catalog:      newCatalog(catalogFixture()),
		Hooks:        hooks,
		Activity:     act,
		Now:          fixedNow,
	}, store, hooks, act
}

func validReservation() models.ReservationInput {
	return models.ReservationInput{
		ServiceID:     "s1",
		CustomerName:  "  María   Pérez ",
		CustomerEmail: "Maria@Example.com",
		Date:          "2026-03-05",
		Pax:           3,
	}
}

func TestCreateReservationPricesAndNotifies(t *testing.T) {
	svc, store, hooks, act := newReservations()

	res, err := svc.Create(context.Background(), validReservation())
	require.NoError(t, err)
	assert.Equal(t, "recRes1", res.ID)
	assert.Equal(t, models.ReservationPending, res.Status)
	assert.Equal(t, int64(360000), res.Total)
	assert.Equal(t, "María Pérez", res.CustomerName)
	assert.Equal(t, "maria@example.com", res.CustomerEmail)
	require.Len(t, store.saved, 1)

	require.Len(t, hooks.calls, 1)
	assert.Equal(t, "reservation_created", hooks.calls[0].Action)
	assert.Equal(t, "recRes1", hooks.calls[0].Payload["reservationId"])
	require.Len(t, act.entries, 1)
	assert.Equal(t, "reservation", act.entries[0].Entity)
}

func TestCreateReservationSurvivesWebhookFailure(t *testing.T) {
	svc, store, hooks, _ := newReservations()
	hooks.err = errors.New("make down")

	_, err := svc.Create(context.Background(), validReservation())
	require.NoError(t, err)
	assert.Len(t, store.saved, 1)
}

func TestCreateReservationValidation(t *testing.T) {
	svc, store, _, _ := newReservations()
	ctx := context.Background()

	cases := map[string]func(*models.ReservationInput){
		"missing service": func(in *models.ReservationInput) { in.ServiceID = "" },
		"missing name":    func(in *models.ReservationInput) { in.CustomerName = " " },
		"bad email":       func(in *models.ReservationInput) { in.CustomerEmail = "maria" },
		"zero pax":        func(in *models.ReservationInput) { in.Pax = 0 },
		"too many pax":    func(in *models.ReservationInput) { in.Pax = maxPax + 1 },
		"bad date":        func(in *models.ReservationInput) { in.Date = "05/03/2026" },
		"past date":       func(in *models.ReservationInput) { in.Date = "2026-02-28" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validReservation()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
	assert.Empty(t, store.saved)
}

func TestCreateReservationTodayIsAllowed(t *testing.T) {
	svc, _, _, _ := newReservations()
	in := validReservation()
	in.Date = "2026-03-01"
	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
}

func TestCreateReservationInactiveService(t *testing.T) {
	svc, _, _, _ := newReservations()
	in := validReservation()
	in.ServiceID = "s3"
	_, err := svc.Create(context.Background(), in)
	assert.True(t, domain.IsConflict(err))
}

func TestUpdateReservationStatus(t *testing.T) {
	svc, store, hooks, _ := newReservations()
	res, err := svc.UpdateStatus(context.Background(), "recRes9", " Confirmada ", "pin:admin:recepcion")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, res.Status)
	assert.Equal(t, "confirmada", store.status["recRes9"])
	require.Len(t, hooks.calls, 1)
	assert.Equal(t, "reservation_status_changed", hooks.calls[0].Action)

	_, err = svc.UpdateStatus(context.Background(), "recRes9", "archivada", "x")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.List(context.Background(), "perdida")
	assert.True(t, domain.IsValidation(err))
	_, err = svc.List(context.Background(), "PENDIENTE")
	require.NoError(t, err)
	assert.Equal(t, "pendiente", store.listArg)
}
