package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// Bogota is the island's timezone (UTC-5, no DST). Falls back to a fixed zone
// when tzdata is missing from the container.
var Bogota = loadBogota()

func loadBogota() *time.Location {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		return time.FixedZone("COT", -5*60*60)
	}
	return loc
}

// ParseDate parses YYYY-MM-DD in island time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), Bogota)
}

// FormatDate formats t as YYYY-MM-DD in island time.
func FormatDate(t time.Time) string {
	return t.In(Bogota).Format(layoutDate)
}

// StartOfDay truncates t to midnight island time.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Bogota)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Bogota)
}
