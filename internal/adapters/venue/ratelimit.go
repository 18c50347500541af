package venue

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter es el token bucket que regula el ritmo de requests de un cliente.
//
// Los tokens se refillan continuamente a requests_per_minute/60 por segundo,
// con tope en burstLimit incluso tras periodos largos de inactividad. Es seguro
// para uso concurrente: el bucket interno garantiza que nunca se observa un
// token gastado dos veces ni un contador negativo.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter crea un limiter con el rate en requests por minuto y el
// burst máximo dados. Valores no positivos usan los defaults (60 rpm, 10).
func NewRateLimiter(requestsPerMinute, burstLimit int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burstLimit <= 0 {
		burstLimit = 10
	}
	return &RateLimiter{
		lim: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burstLimit),
	}
}

// Acquire intenta consumir un token sin bloquear.
func (r *RateLimiter) Acquire() bool {
	return r.lim.Allow()
}

// Wait bloquea hasta que hay un token disponible o el contexto se cancela.
// No hace busy-wait: duerme exactamente hasta el próximo token acumulado.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.lim.Wait(ctx)
}

// Burst devuelve el tope de tokens del bucket.
func (r *RateLimiter) Burst() int {
	return r.lim.Burst()
}
