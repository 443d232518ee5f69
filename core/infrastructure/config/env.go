package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
)

// Environment variables read at startup
const (
	EnvOracleUser = "ORACLE_USER"
	EnvOraclePass = "ORACLE_PASS"
	EnvOracleDSN  = "ORACLE_DSN"

	EnvPort        = "EBSPULSE_PORT"
	EnvCORSOrigins = "EBSPULSE_CORS_ORIGINS"
	EnvRateLimit   = "EBSPULSE_RATE_LIMIT"
	EnvRateRedis   = "EBSPULSE_RATE_LIMIT_REDIS_URL"
	EnvLogLevel    = "EBSPULSE_LOG_LEVEL"
	EnvLogTags     = "EBSPULSE_LOG_TAGS"
	EnvQueryTimout = "EBSPULSE_QUERY_TIMEOUT"
)

// LoadEnvFiles attempts to load .env files from multiple locations.
// It tries each location in order and stops at the first successful load:
// the given directory, the working directory, then the executable's directory.
// Variables already set in the environment always win.
func LoadEnvFiles(fromDir string) {
	envFiles := []string{".env.local", ".env.development", ".env"}

	tryDir := func(dir string) bool {
		for _, envFile := range envFiles {
			if err := godotenv.Load(filepath.Join(dir, envFile)); err == nil {
				return true
			}
		}
		return false
	}

	if fromDir != "" && tryDir(fromDir) {
		return
	}
	if tryDir(".") {
		return
	}
	if execPath, err := os.Executable(); err == nil {
		if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = realPath
		}
		tryDir(filepath.Dir(execPath))
	}
}

func applyEnv(cfg *Config) {
	overrideString(EnvOracleUser, &cfg.Database.User)
	overrideString(EnvOraclePass, &cfg.Database.Password)
	overrideString(EnvOracleDSN, &cfg.Database.DSN)
	overrideDuration(EnvQueryTimout, &cfg.Database.QueryTimeout)

	overrideString("PORT", &cfg.Server.Port)
	overrideString(EnvPort, &cfg.Server.Port)
	overrideList(EnvCORSOrigins, &cfg.Server.CORSOrigins)
	overrideInt(EnvRateLimit, &cfg.Server.RateLimit)
	overrideString(EnvRateRedis, &cfg.Server.RateLimitRedis)

	if level := os.Getenv(EnvLogLevel); level != "" {
		if parsed := logging.ParseLogLevel(level); parsed > 0 {
			cfg.Logging.Level = parsed
		}
	}
	overrideString(EnvLogTags, &cfg.Logging.Tags)

	overrideBool("EBSPULSE_OTEL_ENABLED", &cfg.Observability.Enabled)
	overrideBool("EBSPULSE_OTEL_TRACES_ENABLED", &cfg.Observability.TracesEnabled)
	overrideBool("EBSPULSE_OTEL_METRICS_ENABLED", &cfg.Observability.MetricsEnabled)
	overrideString("EBSPULSE_OTEL_SERVICE_NAME", &cfg.Observability.ServiceName)
	overrideString("EBSPULSE_OTEL_SERVICE_VERSION", &cfg.Observability.ServiceVersion)
	overrideString("EBSPULSE_OTEL_ENVIRONMENT", &cfg.Observability.Environment)
	overrideString("EBSPULSE_OTEL_ENDPOINT", &cfg.Observability.OTLPEndpoint)
	overrideFloat("EBSPULSE_OTEL_TRACE_SAMPLING_RATIO", &cfg.Observability.TraceSamplingRate)
}

func overrideString(name string, target *string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func overrideBool(name string, target *bool) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		*target = parsed
	}
}

func overrideInt(name string, target *int) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		*target = parsed
	}
}

func overrideFloat(name string, target *float64) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		*target = parsed
	}
}

func overrideDuration(name string, target *time.Duration) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		*target = parsed
	}
}

func overrideList(name string, target *[]string) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) > 0 {
		*target = out
	}
}
