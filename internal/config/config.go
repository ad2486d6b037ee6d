// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port        int
	MetricsPort int
	Env         string
	LogLevel    slog.Level

	StoreDriver      string
	MongoURI         string
	MongoDatabase    string
	MongoCollection  string
	DatabaseURL      string
	DatabaseMaxConns int
	SeedFile         string

	FundingFormat   string
	CurrencySymbol  string
	FundingLocale   string
	DisplayTimezone *time.Location

	ApiKeyHash string

	GoogleCredentialsJSON string
	FirebaseWebApiKey     string
	FirebaseProjectId     string
}

// AuthEnabled reports whether dashboard routes require a Firebase login.
func (c Config) AuthEnabled() bool {
	return c.GoogleCredentialsJSON != "" && c.FirebaseWebApiKey != ""
}

// Load reads .env, if present, and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Env:                   get("ENV", "development"),
		StoreDriver:           strings.ToLower(get("STORE_DRIVER", StoreMongo)),
		MongoURI:              get("MONGODB_URI", ""),
		MongoDatabase:         get("MONGODB_DATABASE", "baldmann"),
		MongoCollection:       get("MONGODB_COLLECTION", "applications"),
		DatabaseURL:           get("DATABASE_CONNECTION_POOL_URL", ""),
		SeedFile:              get("SEED_FILE", ""),
		FundingFormat:         strings.ToLower(get("FUNDING_FORMAT", "lakh")),
		CurrencySymbol:        get("CURRENCY_SYMBOL", "₹"),
		FundingLocale:         get("FUNDING_LOCALE", "en-IN"),
		ApiKeyHash:            get("API_KEY_HASH", ""),
		GoogleCredentialsJSON: get("GOOGLE_APPLICATION_CREDENTIALS_CONTENT", ""),
		FirebaseWebApiKey:     get("FIREBASE_WEB_API_KEY", ""),
		FirebaseProjectId:     get("FIREBASE_PROJECT_ID", ""),
	}

	var err error
	if cfg.Port, err = intValue("PORT", get("PORT", "9090")); err != nil {
		return Config{}, err
	}
	if cfg.MetricsPort, err = intValue("METRICS_PORT", get("METRICS_PORT", "9091")); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseMaxConns, err = intValue("DATABASE_MAX_CONNS", get("DATABASE_MAX_CONNS", "16")); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.DisplayTimezone, err = time.LoadLocation(get("DISPLAY_TIMEZONE", "UTC")); err != nil {
		return Config{}, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGODB_URI is required for store driver %v", cfg.StoreDriver)
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_CONNECTION_POOL_URL is required for store driver %v", cfg.StoreDriver)
		}
	case StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	switch cfg.FundingFormat {
	case "lakh", "plain":
	default:
		return Config{}, fmt.Errorf("unknown FUNDING_FORMAT %q", cfg.FundingFormat)
	}
	return cfg, nil
}

func intValue(key, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %v %q", key, raw)
	}
	return v, nil
}
