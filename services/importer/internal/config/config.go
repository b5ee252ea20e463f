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
	defaultBatchSize    = 1000
	defaultTimeout      = 10 * time.Minute
	defaultValueEpsilon = 0.0005
)

// Config holds runtime configuration for the importer job.
type Config struct {
	CSVPath      string        `validate:"required"`
	Target       string        `validate:"oneof=postgres sqlite"`
	DatabaseURL  string        `validate:"required_if=Target postgres"`
	SQLitePath   string        `validate:"required_if=Target sqlite"`
	BatchSize    int           `validate:"gt=0"`
	Timeout      time.Duration `validate:"gt=0"`
	ValueEpsilon float64       `validate:"gte=0"`
	DryRun       bool
}

var validate = validator.New()

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		Target:       "postgres",
		BatchSize:    defaultBatchSize,
		Timeout:      defaultTimeout,
		ValueEpsilon: defaultValueEpsilon,
	}

	cfg.CSVPath = strings.TrimSpace(os.Getenv("CSV_PATH"))
	if v := strings.TrimSpace(os.Getenv("IMPORT_TARGET")); v != "" {
		cfg.Target = strings.ToLower(v)
	}
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.SQLitePath = strings.TrimSpace(os.Getenv("SQLITE_PATH"))

	if v := strings.TrimSpace(os.Getenv("IMPORT_BATCH_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid IMPORT_BATCH_SIZE: %s", v)
		}
		cfg.BatchSize = n
	}

	if v := strings.TrimSpace(os.Getenv("IMPORT_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid IMPORT_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if v := strings.TrimSpace(os.Getenv("IMPORT_VALUE_EPSILON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid IMPORT_VALUE_EPSILON: %w", err)
		}
		cfg.ValueEpsilon = f
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

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
	case "CSVPath":
		return "CSV_PATH"
	case "Target":
		return "IMPORT_TARGET"
	case "DatabaseURL":
		return "DATABASE_URL"
	case "SQLitePath":
		return "SQLITE_PATH"
	case "BatchSize":
		return "IMPORT_BATCH_SIZE"
	case "Timeout":
		return "IMPORT_TIMEOUT"
	case "ValueEpsilon":
		return "IMPORT_VALUE_EPSILON"
	default:
		return field
	}
}
