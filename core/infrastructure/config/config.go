package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PathEnvVar overrides the config file path when no flag is given
const PathEnvVar = "EBSPULSE_CONFIG"

// DatabaseConfig holds the Oracle credentials and pool settings
type DatabaseConfig struct {
	User            string        `yaml:"user" validate:"required"`
	Password        string        `yaml:"password"`
	DSN             string        `yaml:"dsn" validate:"required"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" validate:"gte=0"`
	PingTimeout     time.Duration `yaml:"ping_timeout" validate:"gte=0"`
	QueryTimeout    time.Duration `yaml:"query_timeout" validate:"gte=0"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	CORSOrigins     []string      `yaml:"cors_origins" validate:"min=1"`
	RateLimit       int           `yaml:"rate_limit" validate:"gte=0"`
	RateLimitRedis  string        `yaml:"rate_limit_redis_url" validate:"omitempty,url"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// LoggingConfig holds the log level (1=ERROR .. 4=DEBUG), tag filter and file switch
type LoggingConfig struct {
	Level int    `yaml:"level" validate:"gte=0,lte=4"`
	Tags  string `yaml:"tags"`
	File  bool   `yaml:"file"`
}

// ObservabilityConfig holds the OpenTelemetry export settings
type ObservabilityConfig struct {
	Enabled           bool    `yaml:"enabled"`
	TracesEnabled     bool    `yaml:"traces_enabled"`
	MetricsEnabled    bool    `yaml:"metrics_enabled"`
	ServiceName       string  `yaml:"service_name" validate:"required"`
	ServiceVersion    string  `yaml:"service_version"`
	Environment       string  `yaml:"environment"`
	OTLPEndpoint      string  `yaml:"otlp_endpoint" validate:"required"`
	TraceSamplingRate float64 `yaml:"trace_sampling_rate" validate:"gte=0,lte=1"`
}

// Config is loaded once at startup and passed into constructors; it is never mutated afterwards.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8000",
			CORSOrigins:     []string{"*"},
			RateLimit:       0,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			User:            "apps",
			Password:        "apps",
			DSN:             "hostname:1521/servicename",
			MaxOpenConns:    10,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: 3,
		},
		Observability: ObservabilityConfig{
			Enabled:           false,
			TracesEnabled:     true,
			MetricsEnabled:    true,
			ServiceName:       "ebspulse",
			ServiceVersion:    "dev",
			Environment:       "development",
			OTLPEndpoint:      "localhost:4317",
			TraceSamplingRate: 1.0,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if any), then
// .env files, then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}

	envDir := ""
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		envDir = filepath.Dir(path)
	}

	LoadEnvFiles(envDir)
	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct constraints of cfg
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Redacted returns the connection target without credentials, for logs
func (d DatabaseConfig) Redacted() string {
	return fmt.Sprintf("%s@%s", d.User, redactURL(d.DSN))
}

func redactURL(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "[REDACTED]" + dsn[at:]
}
