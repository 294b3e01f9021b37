package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port int    `env:"PORT" envDefault:"8080"`

	DBURL      string `env:"DATABASE_URL"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"pawhub"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"pawhub"`
	DBName     string `env:"DB_NAME" envDefault:"pawhub"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	CookieName string        `env:"COOKIE_NAME" envDefault:"token"`

	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	TokenRateLimitPerMinute int `env:"RATE_LIMIT_TOKEN_PER_MINUTE" envDefault:"20"`

	OTELEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency        string `env:"PAYMENT_CURRENCY" envDefault:"usd"`

	AdminEmail string `env:"ADMIN_EMAIL"`
	AdminName  string `env:"ADMIN_NAME" envDefault:"Administrator"`
}

const devJWTSecret = "dev-only-secret-change-me"

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBURL == "" {
		cfg.DBURL = cfg.buildDBURL()
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, errors.New("JWT_SECRET is required outside dev")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "test"
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (c Config) buildDBURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// WithTimeout bounds store calls made on behalf of a request. A nil parent
// falls back to context.Background.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}
