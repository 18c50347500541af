package kalshi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/alejandrodnm/marketpulse/internal/adapters/venue"
)

// Kalshi autentica con X-API-Key y, para configs con secret, una firma HMAC
// por request: X-Signature = HMAC-SHA256(secret, timestamp||secret) en hex,
// con el timestamp Unix en segundos en X-Timestamp.

// authHeaders devuelve el HeaderFunc de Kalshi. nowFunc es inyectable para
// poder verificar la firma con un timestamp fijo en tests.
func authHeaders(apiKey, secret string, nowFunc func() time.Time) venue.HeaderFunc {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return func(h http.Header) {
		h.Set("X-API-Key", apiKey)
		if secret == "" {
			return
		}
		ts := strconv.FormatInt(nowFunc().Unix(), 10)
		h.Set("X-Timestamp", ts)
		h.Set("X-Signature", sign(secret, ts))
	}
}

// sign calcula la firma hex de HMAC-SHA256(secret, timestamp+secret).
func sign(secret, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + secret))
	return hex.EncodeToString(mac.Sum(nil))
}
