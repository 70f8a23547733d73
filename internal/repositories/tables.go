package repositories

import (
	"strings"

	"guanago/internal/airtable"
)

const (
	TableServices       = "ServiciosTuristicos_SAI"
	TableDirectory      = "Directorio_Mapa"
	TableAccommodations = "Alojamientos"
	TableReservations   = "Reservas"
	TableQuotes         = "CotizacionesGG"
	TableUsers          = "Usuarios_Admins"
)

// table resolves a table name, letting tests and staging bases override it.
func table(override, def string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return def
}

var serviceFields = airtable.FieldMap{
	"name":        "Nombre",
	"category":    "Categoria",
	"description": "Descripcion",
	"price":       "Precio",
	"currency":    "Moneda",
	"duration":    "Duracion",
	"location":    "Ubicacion",
	"imageUrl":    "Imagen",
	"active":      "Activo",
	"partnerId":   "Socio_ID",
	"rating":      "Calificacion",
}

var placeFields = airtable.FieldMap{
	"name":     "Nombre",
	"category": "Categoria",
	"lat":      "Latitud",
	"lng":      "Longitud",
	"phone":    "Telefono",
	"address":  "Direccion",
	"hours":    "Horario",
	"imageUrl": "Imagen",
}

var accommodationFields = airtable.FieldMap{
	"name":          "Nombre",
	"type":          "Tipo",
	"zone":          "Zona",
	"pricePerNight": "Precio_Noche",
	"capacity":      "Capacidad",
	"stars":         "Estrellas",
	"amenities":     "Amenidades",
	"imageUrl":      "Imagen",
	"available":     "Disponible",
}

var reservationFields = airtable.FieldMap{
	"serviceId":     "Servicio_ID",
	"serviceName":   "Servicio",
	"customerName":  "Cliente",
	"customerEmail": "Email",
	"customerPhone": "Telefono",
	"date":          "Fecha",
	"pax":           "Personas",
	"unitPrice":     "Precio_Unitario",
	"total":         "Total",
	"status":        "Estado",
	"notes":         "Notas",
	"createdAt":     "Creado",
}

var quoteFields = airtable.FieldMap{
	"number":        "Numero",
	"customerName":  "Cliente",
	"customerEmail": "Email",
	"items":         "Items_JSON",
	"subtotal":      "Subtotal",
	"discountPct":   "Descuento_Pct",
	"discount":      "Descuento",
	"total":         "Total",
	"currency":      "Moneda",
	"validUntil":    "Valida_Hasta",
	"createdAt":     "Creado",
}

var userFields = airtable.FieldMap{
	"name":         "Nombre",
	"email":        "Email",
	"phone":        "Telefono",
	"role":         "Rol",
	"status":       "Estado",
	"guanaPoints":  "Puntos_GUANA",
	"passwordHash": "Password_Hash",
}

// attachmentValue writes a URL into an attachment column; blank clears it.
func attachmentValue(url string) []map[string]string {
	url = strings.TrimSpace(url)
	if url == "" {
		return []map[string]string{}
	}
	return []map[string]string{{"url": url}}
}
