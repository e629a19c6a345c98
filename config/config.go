package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	Seed            bool
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	Database Database
	Redis    Redis
	Kafka    Kafka
}

type Database struct {
	Driver          string // mysql | postgres | sqlite
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Kafka struct {
	Brokers []string
	Topic   string
}

func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		GinMode:     getenv("GIN_MODE", "release"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Seed:        parseBool(getenv("SEED", "false")),
		CORSOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
		Database: Database{
			Driver:   strings.ToLower(getenv("DB_DRIVER", "mysql")),
			DSN:      strings.TrimSpace(os.Getenv("DB_DSN")),
			Host:     getenv("DB_HOST", "127.0.0.1"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME", "pos"),
			LogLevel: getenv("DB_LOG_LEVEL", "warn"),
		},
		Redis: Redis{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Kafka: Kafka{
			Brokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_TOPIC", "pos.purchases"),
		},
	}

	var err error
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxOpenConns, err = parseInt("DB_MAX_OPEN_CONNS", "20"); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxIdleConns, err = parseInt("DB_MAX_IDLE_CONNS", "5"); err != nil {
		return Config{}, err
	}
	if cfg.Database.ConnMaxLifetime, err = parseDuration("DB_CONN_MAX_LIFETIME", "30m"); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DB, err = parseInt("REDIS_DB", "0"); err != nil {
		return Config{}, err
	}
	if cfg.Redis.TTL, err = parseDuration("CACHE_TTL", "5m"); err != nil {
		return Config{}, err
	}

	switch cfg.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		return Config{}, errors.New("DB_DSN is required for sqlite")
	}

	return cfg, nil
}

// AllowAllOrigins is true when CORS is not restricted to explicit origins.
func (c Config) AllowAllOrigins() bool {
	if len(c.CORSOrigins) == 0 {
		return true
	}
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseInt(key, def string) (int, error) {
	v, err := strconv.Atoi(getenv(key, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(key, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseBool(v string) bool {
	v = strings.ToLower(v)
	return v == "1" || v == "true" || v == "yes"
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
