package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

// DriverName is the database/sql driver registered by go-ora
const DriverName = "oracle"

const defaultPort = 1521

// BuildURL turns the configured DSN and credentials into a go-ora connection string.
// Accepted DSN forms: host[:port]/service (optionally prefixed with //), an oracle:// URL,
// or a TNS descriptor starting with "(".
func BuildURL(cfg config.DatabaseConfig) (string, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return "", fmt.Errorf("empty DSN")
	}

	switch {
	case strings.HasPrefix(dsn, "oracle://"):
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid oracle URL: %w", err)
		}
		if u.User == nil && cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		return u.String(), nil

	case strings.HasPrefix(dsn, "("):
		return go_ora.BuildJDBC(cfg.User, cfg.Password, dsn, nil), nil
	}

	dsn = strings.TrimPrefix(dsn, "//")
	hostPort, service, ok := strings.Cut(dsn, "/")
	if !ok || hostPort == "" || service == "" {
		return "", fmt.Errorf("DSN '%s' must look like host:port/service", dsn)
	}

	host, portStr, hasPort := strings.Cut(hostPort, ":")
	port := defaultPort
	if hasPort {
		parsed, err := strconv.Atoi(portStr)
		if err != nil || parsed <= 0 || parsed > 65535 {
			return "", fmt.Errorf("DSN '%s' has an invalid port", dsn)
		}
		port = parsed
	}

	return go_ora.BuildUrl(host, port, service, cfg.User, cfg.Password, nil), nil
}

// NewPool creates the process-wide bounded pool without dialing. Connections are
// established lazily by the first caller that borrows one.
func NewPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr, err := BuildURL(cfg)
	if err != nil {
		return nil, apperrors.Connection(err)
	}

	db, err := sql.Open(DriverName, connStr)
	if err != nil {
		return nil, apperrors.Connection(err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Open creates the pool and verifies it with a ping.
// The pool is closed again when the ping fails.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := NewPool(cfg)
	if err != nil {
		return nil, err
	}

	logging.New("database").Debugf("Connecting to %s", cfg.Redacted())
	if err := Ping(ctx, db, cfg.PingTimeout); err != nil {
		db.Close()
		return nil, err
	}

	logging.New("database").Infof("Database pool ready (%s, max open %d)", cfg.Redacted(), cfg.MaxOpenConns)
	return db, nil
}

// Ping checks db within timeout; zero means no extra deadline
func Ping(ctx context.Context, db interface {
	PingContext(context.Context) error
}, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return apperrors.Connection(err)
	}
	return nil
}
