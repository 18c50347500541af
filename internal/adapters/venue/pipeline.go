package venue

// pipeline.go — request pipeline compartido por todos los clientes de venue.
//
// Cada request pasa por el mismo camino: token del rate limiter, headers del
// venue, HTTP call, y la misma política de resiliencia:
//   - 429 → respetar Retry-After (60s si falta) y reintentar sin consumir
//     presupuesto de retries;
//   - >=400 o error de red → backoff exponencial retry_delay * 2^attempt
//     hasta agotar retry_attempts.
// Así "cómo llamar a un venue" queda separado de "cómo sobrevivir a un venue
// inestable" — todos los adapters heredan la misma semántica.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/marketpulse/config"
)

const (
	userAgent         = "MarketPulsePro/1.0"
	defaultRetryAfter = 60 * time.Second
	maxErrorBody      = 512
)

// HeaderFunc añade los headers de autenticación propios de un venue.
// Se invoca en cada request: las firmas con timestamp (Kalshi) necesitan
// regenerarse por llamada.
type HeaderFunc func(h http.Header)

// BearerAuth devuelve un HeaderFunc que añade Authorization: Bearer si hay key.
func BearerAuth(apiKey string) HeaderFunc {
	return func(h http.Header) {
		if apiKey != "" {
			h.Set("Authorization", "Bearer "+apiKey)
		}
	}
}

// StatusError es un error HTTP del venue con su status code.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("venue error %d: %s", e.Status, e.Body)
}

// IsNotFound devuelve true si el error envuelve un 404 del venue.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Pipeline ejecuta requests HTTP con rate limiting y retries para un venue.
type Pipeline struct {
	http      *http.Client
	limiter   *RateLimiter
	headers   HeaderFunc
	attempts  int
	baseDelay time.Duration
}

// NewPipeline construye el pipeline de un venue desde su APIConfig.
// headers puede ser nil si el venue no requiere autenticación.
func NewPipeline(cfg config.APIConfig, headers HeaderFunc) *Pipeline {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	baseDelay := cfg.RetryDelay()
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Pipeline{
		http:      &http.Client{Timeout: cfg.Timeout()},
		limiter:   NewRateLimiter(cfg.RateLimit, cfg.BurstLimit),
		headers:   headers,
		attempts:  attempts,
		baseDelay: baseDelay,
	}
}

// Limiter expone el rate limiter del pipeline (para inspección en tests).
func (p *Pipeline) Limiter() *RateLimiter {
	return p.limiter
}

// Close libera las conexiones idle del transport.
func (p *Pipeline) Close() {
	p.http.CloseIdleConnections()
}

// Get hace un GET y decodifica la respuesta JSON en out.
func (p *Pipeline) Get(ctx context.Context, url string, out any) error {
	return p.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		p.setHeaders(req)
		return p.http.Do(req)
	}, out)
}

// Post hace un POST JSON y decodifica la respuesta en out.
func (p *Pipeline) Post(ctx context.Context, url string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return p.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		p.setHeaders(req)
		return p.http.Do(req)
	}, out)
}

// setHeaders aplica los headers comunes y los del venue.
func (p *Pipeline) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if p.headers != nil {
		p.headers(req.Header)
	}
}

// doWithRetry ejecuta fn con la política de resiliencia compartida.
// Un 429 reintenta el mismo attempt tras Retry-After — el presupuesto de
// retries solo se gasta en errores reales; la cancelación del contexto es
// el tope de una racha de 429s.
func (p *Pipeline) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	attempt := 0
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt >= p.attempts-1 {
				return fmt.Errorf("request failed after %d attempts: %w", p.attempts, err)
			}
			if err := sleepCtx(ctx, p.backoff(attempt)); err != nil {
				return err
			}
			attempt++
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfterDelay(resp)
			drain(resp)
			slog.Warn("rate limited by venue", "retry_after", wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			statusErr := &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			if attempt >= p.attempts-1 {
				return statusErr
			}
			slog.Debug("venue request failed, retrying",
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
			if err := sleepCtx(ctx, p.backoff(attempt)); err != nil {
				return err
			}
			attempt++
			continue
		}

		if out == nil {
			drain(resp)
			return nil
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

// backoff devuelve el delay exponencial para el attempt dado.
func (p *Pipeline) backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt)) * float64(p.baseDelay))
}

// retryAfterDelay lee el header Retry-After en segundos; 60s si falta.
func retryAfterDelay(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

// sleepCtx duerme respetando la cancelación del contexto.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain consume y cierra el body para que el transport reuse la conexión.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()
}
