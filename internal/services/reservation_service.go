package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/utils"
)

const maxPax = 50

type ReservationService struct {
	Reservations ReservationStore
	Catalog      ServiceLookup
	Hooks        Dispatcher
	Activity     ActivityRecorder
	Now          func() time.Time
}

// Create validates the request, prices it from the catalog and stores it as pendiente.
// The Make.com notification is best effort: a failed dispatch is logged, not returned.
func (s ReservationService) Create(ctx context.Context, in models.ReservationInput) (models.Reservation, error) {
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	in.CustomerName = utils.NormalizeSpace(in.CustomerName)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)

	if err := s.validate(in); err != nil {
		return models.Reservation{}, err
	}

	svc, err := s.Catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return models.Reservation{}, err
	}
	if !svc.Active {
		return models.Reservation{}, domain.ConflictError{Resource: "servicio", Msg: "no está disponible"}
	}

	res := models.Reservation{
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Date:          strings.TrimSpace(in.Date),
		Pax:           in.Pax,
		UnitPrice:     svc.Price,
		Total:         svc.Price * int64(in.Pax),
		Status:        models.ReservationPending,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     s.now().UTC(),
	}

	saved, err := s.Reservations.Create(ctx, res)
	if err != nil {
		return models.Reservation{}, err
	}
	if saved.ID == "" {
		return models.Reservation{}, domain.InternalError{Msg: "reserva sin id"}
	}
	res.ID = saved.ID

	s.notify(ctx, "reservation_created", res)
	s.record(ctx, "create", res.ID, fmt.Sprintf("service_id=%s pax=%d total=%d", res.ServiceID, res.Pax, res.Total))
	return res, nil
}

func (s ReservationService) List(ctx context.Context, status string) ([]models.Reservation, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !models.ValidReservationStatus(status) {
		return nil, domain.ValidationError{Field: "status", Msg: "estado desconocido"}
	}
	return s.Reservations.List(ctx, status)
}

func (s ReservationService) UpdateStatus(ctx context.Context, id, status, actor string) (models.Reservation, error) {
	id = strings.TrimSpace(id)
	status = strings.ToLower(strings.TrimSpace(status))
	if id == "" {
		return models.Reservation{}, domain.ValidationError{Field: "id", Msg: "requerido"}
	}
	if !models.ValidReservationStatus(status) {
		return models.Reservation{}, domain.ValidationError{Field: "status", Msg: "estado desconocido"}
	}
	res, err := s.Reservations.UpdateStatus(ctx, id, status)
	if err != nil {
		return models.Reservation{}, err
	}
	s.notify(ctx, "reservation_status_changed", res)
	s.record(ctx, "status_"+status, id, "actor="+actor)
	return res, nil
}

func (s ReservationService) validate(in models.ReservationInput) error {
	if in.ServiceID == "" {
		return domain.ValidationError{Field: "serviceId", Msg: "requerido"}
	}
	if in.CustomerName == "" {
		return domain.ValidationError{Field: "customerName", Msg: "requerido"}
	}
	if _, err := mail.ParseAddress(in.CustomerEmail); err != nil || in.CustomerEmail == "" {
		return domain.ValidationError{Field: "customerEmail", Msg: "email inválido"}
	}
	if in.Pax < 1 || in.Pax > maxPax {
		return domain.ValidationError{Field: "pax", Msg: fmt.Sprintf("debe estar entre 1 y %d", maxPax)}
	}
	day, err := utils.ParseDate(in.Date)
	if err != nil {
		return domain.ValidationError{Field: "date", Msg: "formato esperado YYYY-MM-DD"}
	}
	if day.Before(utils.StartOfDay(s.now())) {
		return domain.ValidationError{Field: "date", Msg: "no puede estar en el pasado"}
	}
	return nil
}

func (s ReservationService) notify(ctx context.Context, action string, res models.Reservation) {
	if s.Hooks == nil {
		return
	}
	_, err := s.Hooks.Dispatch(ctx, action, map[string]any{
		"reservationId": res.ID,
		"serviceId":     res.ServiceID,
		"serviceName":   res.ServiceName,
		"customerName":  res.CustomerName,
		"customerEmail": res.CustomerEmail,
		"customerPhone": res.CustomerPhone,
		"date":          res.Date,
		"pax":           res.Pax,
		"total":         res.Total,
		"status":        res.Status,
	})
	if err != nil {
		utils.LogEvent(utils.RequestIDFrom(ctx), "reservation", action+"_dispatch_failed", fmt.Sprintf("reservation_id=%s err=%v", res.ID, err))
	}
}

func (s ReservationService) record(ctx context.Context, action, id, detail string) {
	reqID := utils.RequestIDFrom(ctx)
	utils.LogEvent(reqID, "reservation", action, fmt.Sprintf("reservation_id=%s %s", id, detail))
	activity := s.Activity
	if activity == nil {
		activity = noopActivity{}
	}
	if err := activity.Record(ctx, models.Activity{
		RequestID: reqID,
		Action:    action,
		Entity:    "reservation",
		EntityID:  id,
		Detail:    detail,
	}); err != nil {
		utils.LogEvent(reqID, "reservation", "activity_failed", err.Error())
	}
}

func (s ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
