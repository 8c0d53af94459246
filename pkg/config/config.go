package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Config holds the process settings shared by the CLI and the HTTP server
type Config struct {
	Horizon        entities.Horizon
	DemandSeed     int64
	DemandMin      entities.Quantity
	DemandMax      entities.Quantity
	Workers        int
	ExplosionBasis entities.ExplosionBasis

	DatabaseDSN    string
	HTTPPort       string
	LogLevel       string
	Environment    string
	ServiceName    string
	JaegerEndpoint string
}

// Load reads the configuration from the environment, falling back to the
// reference data set defaults
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseDSN:    getEnv("DATABASE_DSN", "sqlite://mrp.db"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "mrp-planner"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
	}

	horizon, err := getEnvInt("MRP_HORIZON", int(entities.DefaultHorizon))
	if err != nil {
		return nil, err
	}
	cfg.Horizon = entities.Horizon(horizon)

	seed, err := getEnvInt("MRP_DEMAND_SEED", 38)
	if err != nil {
		return nil, err
	}
	if seed < 0 {
		return nil, fmt.Errorf("MRP_DEMAND_SEED must not be negative, got %d", seed)
	}
	cfg.DemandSeed = int64(seed)

	minQty, err := getEnvInt("MRP_DEMAND_MIN", 30)
	if err != nil {
		return nil, err
	}
	maxQty, err := getEnvInt("MRP_DEMAND_MAX", 60)
	if err != nil {
		return nil, err
	}
	cfg.DemandMin = entities.Quantity(minQty)
	cfg.DemandMax = entities.Quantity(maxQty)

	if cfg.Workers, err = getEnvInt("MRP_WORKERS", 1); err != nil {
		return nil, err
	}

	if cfg.ExplosionBasis, err = entities.ParseExplosionBasis(getEnv("MRP_EXPLOSION_BASIS", "release")); err != nil {
		return nil, fmt.Errorf("MRP_EXPLOSION_BASIS: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the planner cannot run with
func (c *Config) Validate() error {
	if err := c.Horizon.Validate(); err != nil {
		return err
	}
	if c.DemandMin < 0 {
		return fmt.Errorf("demand minimum must not be negative, got %d", c.DemandMin)
	}
	if c.DemandMin > c.DemandMax {
		return fmt.Errorf("demand minimum %d exceeds maximum %d", c.DemandMin, c.DemandMax)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ExplosionBasis != entities.ExplodeReleases && c.ExplosionBasis != entities.ExplodeGross {
		return fmt.Errorf("unknown explosion basis %d", c.ExplosionBasis)
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	return nil
}

// IsDevelopment reports whether logs should use the console writer
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}
