package airtable

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"guanago/internal/utils"
)

// FieldMap maps camelCase API keys to the Spanish-labelled Airtable columns.
type FieldMap map[string]string

// Column returns the Airtable column for key, or "" when unmapped.
func (m FieldMap) Column(key string) string {
	return m[key]
}

// ToFields renames known keys to Airtable columns and drops unknown ones.
func (m FieldMap) ToFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if col, ok := m[k]; ok {
			out[col] = v
		}
	}
	return out
}

// FromFields renames Airtable columns back to API keys. Unmapped columns are dropped.
func (m FieldMap) FromFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, col := range m {
		if v, ok := fields[col]; ok {
			out[key] = v
		}
	}
	return out
}

// EscapeFormula quotes s as a string literal inside filterByFormula.
func EscapeFormula(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// String reads a text column. Lookup/multi-select arrays yield their first element.
func String(fields map[string]any, col string) string {
	switch v := fields[col].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		return String(map[string]any{col: v[0]}, col)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Int64 reads a number or currency column; text values like "$ 85.000" are parsed as pesos.
func Int64(fields map[string]any, col string) int64 {
	switch v := fields[col].(type) {
	case float64:
		return int64(math.Round(v))
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, err := utils.ParsePesos(v)
		if err != nil {
			return 0
		}
		return n
	case []any:
		if len(v) == 0 {
			return 0
		}
		return Int64(map[string]any{col: v[0]}, col)
	default:
		return 0
	}
}

func Float(fields map[string]any, col string) float64 {
	switch v := fields[col].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bool reads a checkbox column. Airtable omits unchecked boxes entirely.
func Bool(fields map[string]any, col string) bool {
	switch v := fields[col].(type) {
	case bool:
		return v
	case string:
		switch utils.Fold(v) {
		case "si", "true", "1", "activo", "yes":
			return true
		}
	case float64:
		return v != 0
	}
	return false
}

// Strings reads a multi-select column or a comma separated text column.
func Strings(fields map[string]any, col string) []string {
	switch v := fields[col].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		return utils.SplitList(v)
	}
	return nil
}

// Attachment returns the URL of the first attachment in col, or a plain URL string.
func Attachment(fields map[string]any, col string) string {
	switch v := fields[col].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		if m, ok := v[0].(map[string]any); ok {
			if u, ok := m["url"].(string); ok {
				return u
			}
		}
	}
	return ""
}
