package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatasetSource  string `validate:"oneof=csv postgres sqlite"`
	DatasetPath    string `validate:"required_if=DatasetSource csv"`
	DatabaseURL    string `validate:"required_if=DatasetSource postgres"`
	SQLitePath     string `validate:"required_if=DatasetSource sqlite"`
	Port           int    `validate:"gt=0,lte=65535"`
	BearerToken    string
	ReloadInterval time.Duration `validate:"gte=0"`

	// Year range and bucketing used when a request does not name them.
	DefaultYearFrom int `validate:"ltefield=DefaultYearTo"`
	DefaultYearTo   int
	DefaultBucket   string `validate:"oneof=yearly decadal"`
}

var validate = validator.New()

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		DatasetSource:   SourceCSV,
		Port:            8080,
		DefaultYearFrom: 2000,
		DefaultYearTo:   2010,
		DefaultBucket:   "yearly",
	}

	if v := strings.TrimSpace(os.Getenv("DATASET_SOURCE")); v != "" {
		cfg.DatasetSource = strings.ToLower(v)
	}
	cfg.DatasetPath = strings.TrimSpace(os.Getenv("DATASET_PATH"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.SQLitePath = strings.TrimSpace(os.Getenv("SQLITE_PATH"))

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("DATASET_RELOAD_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DATASET_RELOAD_INTERVAL: %w", err)
		}
		cfg.ReloadInterval = d
	}

	if v := os.Getenv("DEFAULT_YEAR_FROM"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DEFAULT_YEAR_FROM: %s", v)
		}
		cfg.DefaultYearFrom = year
	}
	if v := os.Getenv("DEFAULT_YEAR_TO"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DEFAULT_YEAR_TO: %s", v)
		}
		cfg.DefaultYearTo = year
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_BUCKET")); v != "" {
		cfg.DefaultBucket = strings.ToLower(v)
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field rules and reports the first offending field by its
// environment variable name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("invalid %s: failed %q rule (value %v)", envName(fe.Field()), fe.Tag(), fe.Value())
}

func envName(field string) string {
	switch field {
	case "DatasetSource":
		return "DATASET_SOURCE"
	case "DatasetPath":
		return "DATASET_PATH"
	case "DatabaseURL":
		return "DATABASE_URL"
	case "SQLitePath":
		return "SQLITE_PATH"
	case "Port":
		return "PORT"
	case "ReloadInterval":
		return "DATASET_RELOAD_INTERVAL"
	case "DefaultYearFrom":
		return "DEFAULT_YEAR_FROM"
	case "DefaultBucket":
		return "DEFAULT_BUCKET"
	default:
		return field
	}
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
