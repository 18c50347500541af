package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// Config es la configuración completa del agregador.
type Config struct {
	Aggregator AggregatorConfig     `yaml:"aggregator"`
	Venues     map[string]APIConfig `yaml:"venues"`
	Storage    StorageConfig        `yaml:"storage"`
	Log        LogConfig            `yaml:"log"`
}

// AggregatorConfig controla el comportamiento del fan-out multi-venue.
type AggregatorConfig struct {
	IntervalSeconds   int `yaml:"interval_seconds"`
	LimitPerVenue     int `yaml:"limit_per_venue"`
	CompareFetchLimit int `yaml:"compare_fetch_limit"`
}

// APIConfig contiene los parámetros de conexión de un venue.
// Inmutable una vez construida: una instancia por venue por agregador.
// Las credenciales nunca van en el YAML — solo por variables de entorno.
type APIConfig struct {
	APIKey            string  `yaml:"-"`
	SecretKey         string  `yaml:"-"` // solo Kalshi (firma HMAC)
	BaseURL           string  `yaml:"base_url"`
	RateLimit         int     `yaml:"rate_limit"`  // requests por minuto
	BurstLimit        int     `yaml:"burst_limit"` // tokens máximos del bucket
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RetryAttempts     int     `yaml:"retry_attempts"`
	RetryDelaySeconds float64 `yaml:"retry_delay_seconds"` // base del backoff exponencial
}

// Timeout devuelve el timeout por request como time.Duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RetryDelay devuelve el delay base de retry como time.Duration.
func (a APIConfig) RetryDelay() time.Duration {
	return time.Duration(a.RetryDelaySeconds * float64(time.Second))
}

// HasCredentials devuelve true si el venue tiene API key configurada.
// Sin credenciales el agregador usa el cliente mock — no es un error.
func (a APIConfig) HasCredentials() bool {
	return a.APIKey != ""
}

// StorageConfig controla dónde se persisten los snapshots.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las credenciales y overrides de log vienen siempre del entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Venue devuelve la APIConfig del venue dado (con defaults ya aplicados).
func (c *Config) Venue(p domain.Platform) APIConfig {
	return c.Venues[string(p)]
}

// ScanInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Aggregator.IntervalSeconds) * time.Second
}

// applyEnvOverrides inyecta credenciales y overrides desde variables de entorno.
func applyEnvOverrides(cfg *Config) {
	if cfg.Venues == nil {
		cfg.Venues = make(map[string]APIConfig)
	}

	setKey := func(venue, key, secret string) {
		vc := cfg.Venues[venue]
		if v := os.Getenv(key); v != "" {
			vc.APIKey = v
		}
		if secret != "" {
			if v := os.Getenv(secret); v != "" {
				vc.SecretKey = v
			}
		}
		cfg.Venues[venue] = vc
	}

	setKey(string(domain.PlatformPolymarket), "POLYMARKET_API_KEY", "")
	setKey(string(domain.PlatformKalshi), "KALSHI_API_KEY", "KALSHI_API_SECRET")
	setKey(string(domain.PlatformManifold), "MANIFOLD_API_KEY", "")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que todos los venues y campos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Aggregator.IntervalSeconds <= 0 {
		cfg.Aggregator.IntervalSeconds = 60
	}
	if cfg.Aggregator.LimitPerVenue <= 0 {
		cfg.Aggregator.LimitPerVenue = 50
	}
	if cfg.Aggregator.CompareFetchLimit <= 0 {
		cfg.Aggregator.CompareFetchLimit = 100
	}

	baseURLs := map[string]string{
		string(domain.PlatformPolymarket): "https://gamma-api.polymarket.com",
		string(domain.PlatformKalshi):     "https://trading-api.kalshi.com/v2",
		string(domain.PlatformManifold):   "https://api.manifold.markets/v0",
	}

	for _, p := range domain.Platforms() {
		vc := cfg.Venues[string(p)]
		if vc.BaseURL == "" {
			vc.BaseURL = baseURLs[string(p)]
		}
		if vc.RateLimit <= 0 {
			vc.RateLimit = 60
		}
		if vc.BurstLimit <= 0 {
			vc.BurstLimit = 10
		}
		if vc.TimeoutSeconds <= 0 {
			vc.TimeoutSeconds = 30
		}
		if vc.RetryAttempts <= 0 {
			vc.RetryAttempts = 3
		}
		if vc.RetryDelaySeconds <= 0 {
			vc.RetryDelaySeconds = 1.0
		}
		cfg.Venues[string(p)] = vc
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "marketpulse.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
