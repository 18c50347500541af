package venue

import (
	"encoding/json"
	"time"
)

// Los venues devuelven timestamps en tres formatos distintos: ISO-8601 con
// sufijo Z, Unix en segundos y Unix en milisegundos. Todo se normaliza a
// time.Time en UTC; un valor que no parsea devuelve el zero time en vez de
// tirar el registro entero.

// Por encima de este valor un timestamp Unix se interpreta como milisegundos.
const unixMillisThreshold = 1e10

// isoLayouts son los formatos ISO que devuelven los venues, del más al menos común.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISO parsea un timestamp ISO-8601. El sufijo Z se trata como +00:00.
func ParseISO(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ParseUnix parsea un timestamp Unix en segundos o milisegundos.
func ParseUnix(v float64) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	if v > unixMillisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}

// ParseUnixNumber parsea un json.Number como timestamp Unix (s o ms).
func ParseUnixNumber(n json.Number) time.Time {
	if n == "" {
		return time.Time{}
	}
	v, err := n.Float64()
	if err != nil {
		return time.Time{}
	}
	return ParseUnix(v)
}

// FlexTime es un time.Time que acepta cualquiera de los formatos de venue en
// JSON: string ISO-8601, Unix en segundos o Unix en milisegundos. Un valor
// malformado deja el zero time en lugar de fallar el decode — un campo roto
// no puede tirar el batch entero del venue.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implementa json.Unmarshaler. Nunca devuelve error.
func (t *FlexTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		t.Time = ParseISO(s[1 : len(s)-1])
		return nil
	}
	t.Time = ParseUnixNumber(json.Number(s))
	return nil
}
