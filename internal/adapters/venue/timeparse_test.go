package venue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISO(t *testing.T) {
	expected := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	assert.Equal(t, expected, ParseISO("2023-11-14T22:13:20Z"))
	assert.Equal(t, expected, ParseISO("2023-11-14T22:13:20.000Z"))
	assert.Equal(t, expected, ParseISO("2023-11-14T22:13:20+00:00"))
	assert.Equal(t, expected, ParseISO("2023-11-14T22:13:20"))

	assert.Equal(t, time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC), ParseISO("2023-11-14"))

	assert.True(t, ParseISO("").IsZero())
	assert.True(t, ParseISO("not-a-date").IsZero())
}

func TestParseUnix(t *testing.T) {
	expected := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	// Segundos y milisegundos normalizan al mismo instante.
	assert.Equal(t, expected, ParseUnix(1700000000))
	assert.Equal(t, expected, ParseUnix(1700000000000))

	assert.True(t, ParseUnix(0).IsZero())
	assert.True(t, ParseUnix(-5).IsZero())
}

func TestParseUnixNumber(t *testing.T) {
	expected := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	assert.Equal(t, expected, ParseUnixNumber(json.Number("1700000000")))
	assert.Equal(t, expected, ParseUnixNumber(json.Number("1700000000000")))

	assert.True(t, ParseUnixNumber(json.Number("")).IsZero())
	assert.True(t, ParseUnixNumber(json.Number("garbage")).IsZero())
}

func TestFlexTime_UnmarshalJSON(t *testing.T) {
	expected := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	var payload struct {
		ISO    FlexTime `json:"iso"`
		Unix   FlexTime `json:"unix"`
		Millis FlexTime `json:"millis"`
		Null   FlexTime `json:"null"`
		Bad    FlexTime `json:"bad"`
	}
	raw := `{
		"iso": "2023-11-14T22:13:20Z",
		"unix": 1700000000,
		"millis": 1700000000000,
		"null": null,
		"bad": "tomorrow-ish"
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Equal(t, expected, payload.ISO.Time)
	assert.Equal(t, expected, payload.Unix.Time)
	assert.Equal(t, expected, payload.Millis.Time)
	assert.True(t, payload.Null.IsZero())
	assert.True(t, payload.Bad.IsZero(), "campo malformado → zero time, no error")
}
