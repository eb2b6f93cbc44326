package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port int    `env:"PORT" envDefault:"8080"`

	// DBURL wins over the DB_* parts when set.
	DBURL      string `env:"DATABASE_URL"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"meetuphub"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"meetuphub"`
	DBName     string `env:"DB_NAME" envDefault:"meetuphub"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"5"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTAccessTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`

	// Redis is optional; an in-process cache is used when RedisAddr is empty.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	// Banner uploads are disabled when S3Bucket is empty.
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	FilesPublicURL    string `env:"FILES_PUBLIC_URL"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint string `env:"OTEL_ENDPOINT" envDefault:"localhost:4317"`

	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateLimit          int           `env:"RATE_LIMIT" envDefault:"120"`
	RateWindow         time.Duration `env:"RATE_WINDOW" envDefault:"1m"`

	// Timezone resolves the calendar day of the date filter.
	Timezone        string        `env:"TIMEZONE" envDefault:"UTC"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DBURL == "" {
		cfg.DBURL = cfg.buildDBURL()
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if cfg.IsProd() && (cfg.JWTSecret == "" || cfg.JWTSecret == devJWTSecret) {
		return Config{}, errors.New("JWT_SECRET must be set in prod")
	}

	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c Config) buildDBURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}
