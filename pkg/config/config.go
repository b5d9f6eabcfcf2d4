// Package config loads the service configuration from an optional YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"deliveryflow/pkg/database"
	"deliveryflow/pkg/logger"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the full service configuration.
type Config struct {
	Service  string          `yaml:"service"`
	Storage  string          `yaml:"storage"`
	HTTP     HTTP            `yaml:"http"`
	Database database.Config `yaml:"database"`
	Redis    Redis           `yaml:"redis"`
	Tracing  Tracing         `yaml:"tracing"`
	Log      Log             `yaml:"log"`
}

// HTTP configures the listener. TLS is enabled when both files are set.
type HTTP struct {
	Addr            string        `yaml:"addr"`
	TLSCert         string        `yaml:"tls_cert"`
	TLSKey          string        `yaml:"tls_key"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Redis configures the order cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Tracing configures span export.
type Tracing struct {
	Host        string  `yaml:"host"`
	Probability float64 `yaml:"probability"`
}

// Log configures the logger.
type Log struct {
	Level string `yaml:"level"`
}

// TLS reports whether the listener serves HTTPS.
func (h HTTP) TLS() bool {
	return h.TLSCert != "" && h.TLSKey != ""
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Service: "deliveryflow",
		Storage: StoragePostgres,
		HTTP: HTTP{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: database.DefaultConfig(),
		Redis:    Redis{TTL: 5 * time.Minute},
		Tracing:  Tracing{Probability: 1.0},
		Log:      Log{Level: "info"},
	}
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads path (if not empty) over the defaults, then applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str("DATABASE_URL", &c.Database.URL)
	str("DB_HOST", &c.Database.Host)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.DBName)
	str("DB_SSLMODE", &c.Database.SSLMode)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("OTEL_HOST", &c.Tracing.Host)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("TLS_CERT", &c.HTTP.TLSCert)
	str("TLS_KEY", &c.HTTP.TLSKey)
	str("LOG_LEVEL", &c.Log.Level)
	str("STORAGE", &c.Storage)

	if v, ok := lookup("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.Database.Port = port
	}
	return nil
}

// Validate reports every inconsistent setting.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if (c.HTTP.TLSCert == "") != (c.HTTP.TLSKey == "") {
		errs = append(errs, errors.New("http.tls_cert and http.tls_key must be set together"))
	}
	if c.Storage == StoragePostgres && c.Database.URL == "" && c.Database.Host == "" {
		errs = append(errs, errors.New("database.url or database.host is required"))
	}
	if c.Tracing.Probability < 0 || c.Tracing.Probability > 1 {
		errs = append(errs, fmt.Errorf("tracing.probability must be within [0,1], got %v", c.Tracing.Probability))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
