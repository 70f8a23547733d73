package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCOP renders whole pesos with thousand separators, e.g. "$ 1.250.000 COP".
func FormatCOP(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s$ %s COP", sign, formatThousand(amount))
}

// ParsePesos parses "$ 1.000", "1,000" or "1000 COP" into whole pesos.
func ParsePesos(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "cop")
	s = strings.TrimPrefix(s, "$")
	replacer := strings.NewReplacer(".", "", ",", "", " ", "")
	s = replacer.Replace(s)
	if s == "" {
		return 0, fmt.Errorf("monto inválido")
	}
	return strconv.ParseInt(s, 10, 64)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(c)
	}
	return out.String()
}
