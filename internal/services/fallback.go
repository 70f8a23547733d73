package services

import "guanago/internal/domain/models"

// Served when Airtable is unreachable and nothing is cached yet.
var (
	fallbackServices = []models.TourService{
		{ID: "fallback-acuario", Name: "Tour Acuario y Haynes Cay", Category: "tour", Price: 120000, Currency: "COP", Duration: "4 horas", Location: "Muelle Casa de la Cultura", Active: true},
		{ID: "fallback-johnny", Name: "Johnny Cay día completo", Category: "tour", Price: 95000, Currency: "COP", Duration: "6 horas", Location: "Muelle Tonino", Active: true},
		{ID: "fallback-vuelta", Name: "Vuelta a la isla en mula", Category: "transporte", Price: 250000, Currency: "COP", Duration: "3 horas", Location: "Centro", Active: true},
		{ID: "fallback-buceo", Name: "Bautizo de buceo", Category: "buceo", Price: 280000, Currency: "COP", Duration: "3 horas", Location: "West View", Active: true},
		{ID: "fallback-rimm", Name: "Caribbean Night RIMM", Category: "rimm", Price: 80000, Currency: "COP", Duration: "Noche", Location: "San Luis", Active: true},
	}

	fallbackPlaces = []models.Place{
		{ID: "fallback-hoyo", Name: "Hoyo Soplador", Category: "atraccion", Lat: 12.4846, Lng: -81.7226},
		{ID: "fallback-westview", Name: "West View", Category: "atraccion", Lat: 12.5190, Lng: -81.7290},
		{ID: "fallback-spratt", Name: "Playa Spratt Bight", Category: "playa", Lat: 12.5847, Lng: -81.7006},
		{ID: "fallback-hospital", Name: "Hospital Departamental Amor de Patria", Category: "salud", Lat: 12.5767, Lng: -81.7059},
	}

	fallbackAccommodations = []models.Accommodation{
		{ID: "fallback-posada", Name: "Posada Nativa San Luis", Type: "posada", Zone: "San Luis", PricePerNight: 180000, Capacity: 4, Available: true},
		{ID: "fallback-hotel", Name: "Hotel Centro North End", Type: "hotel", Zone: "North End", PricePerNight: 320000, Capacity: 2, Stars: 3, Available: true},
	}
)
