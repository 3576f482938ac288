package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	LiraPay  LiraPayConfig
	Checkout CheckoutConfig
	Redis    RedisConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SORTEZAP_APP_ENV" required:"true"`
	Port         string `envconfig:"SORTEZAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SORTEZAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SORTEZAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// LiraPayConfig carries the gateway credential and endpoints. APISecret is
// deliberately not required at load time: its absence must surface as a
// per-request configuration error, not a crashed process.
type LiraPayConfig struct {
	APISecret  string        `envconfig:"SORTEZAP_LIRAPAY_API_SECRET"`
	BaseURL    string        `envconfig:"SORTEZAP_LIRAPAY_BASE_URL" default:"https://api.lirapaybr.com"`
	WebhookURL string        `envconfig:"SORTEZAP_LIRAPAY_WEBHOOK_URL" required:"true"`
	Timeout    time.Duration `envconfig:"SORTEZAP_LIRAPAY_TIMEOUT" default:"30s"`
}

func (l LiraPayConfig) HasSecret() bool {
	return strings.TrimSpace(l.APISecret) != ""
}

type CheckoutConfig struct {
	PollInterval time.Duration `envconfig:"SORTEZAP_CHECKOUT_POLL_INTERVAL" default:"3s"`
	PollCeiling  time.Duration `envconfig:"SORTEZAP_CHECKOUT_POLL_CEILING" default:"15m"`
	SessionTTL   time.Duration `envconfig:"SORTEZAP_CHECKOUT_SESSION_TTL" default:"1h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SORTEZAP_REDIS_URL"`
	Address      string        `envconfig:"SORTEZAP_REDIS_ADDR"`
	Password     string        `envconfig:"SORTEZAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SORTEZAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SORTEZAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SORTEZAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SORTEZAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SORTEZAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SORTEZAP_REDIS_WRITE_TIMEOUT" default:"5s"`

	WebhookDedupeTTL time.Duration `envconfig:"SORTEZAP_WEBHOOK_DEDUPE_TTL" default:"24h"`
}

// Enabled reports whether a Redis endpoint was configured. Webhook dedupe is
// skipped entirely when it returns false.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SORTEZAP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
