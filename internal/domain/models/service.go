package models

// TourService is a bookable offer from ServiciosTuristicos_SAI.
type TourService struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Price       int64   `json:"price"`
	Currency    string  `json:"currency"`
	Duration    string  `json:"duration,omitempty"`
	Location    string  `json:"location,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Active      bool    `json:"active"`
	PartnerID   string  `json:"partnerId,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// ServiceFilter narrows a cached catalog listing in memory.
type ServiceFilter struct {
	Category   string
	Query      string
	ActiveOnly bool
	PartnerID  string
}

// ServiceInput carries create/update payloads. Nil fields are left untouched on update.
type ServiceInput struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price"`
	Currency    *string  `json:"currency"`
	Duration    *string  `json:"duration"`
	Location    *string  `json:"location"`
	ImageURL    *string  `json:"imageUrl"`
	Active      *bool    `json:"active"`
	PartnerID   *string  `json:"partnerId"`
	Rating      *float64 `json:"rating"`
}
