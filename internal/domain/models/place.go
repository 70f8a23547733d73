package models

// Place is a point of interest from Directorio_Mapa.
type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Phone    string  `json:"phone,omitempty"`
	Address  string  `json:"address,omitempty"`
	Hours    string  `json:"hours,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Accommodation is a hotel or posada listing.
type Accommodation struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Zone          string   `json:"zone,omitempty"`
	PricePerNight int64    `json:"pricePerNight"`
	Capacity      int      `json:"capacity,omitempty"`
	Stars         int      `json:"stars,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Available     bool     `json:"available"`
}
