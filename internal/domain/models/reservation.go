package models

import "time"

const (
	ReservationPending   = "pendiente"
	ReservationConfirmed = "confirmada"
	ReservationCancelled = "cancelada"
	ReservationCompleted = "completada"
)

// ValidReservationStatus reports whether s is a known reservation status.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

type Reservation struct {
	ID            string    `json:"id"`
	ServiceID     string    `json:"serviceId"`
	ServiceName   string    `json:"serviceName,omitempty"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	Date          string    `json:"date"`
	Pax           int       `json:"pax"`
	UnitPrice     int64     `json:"unitPrice"`
	Total         int64     `json:"total"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ReservationInput struct {
	ServiceID     string `json:"serviceId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Date          string `json:"date"`
	Pax           int    `json:"pax"`
	Notes         string `json:"notes"`
}
