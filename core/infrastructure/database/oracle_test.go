package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/database"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		contains []string
	}{
		{
			name:     "easy connect",
			dsn:      "ebsdb.example.com:1522/EBSPROD",
			contains: []string{"ebsdb.example.com:1522", "EBSPROD"},
		},
		{
			name:     "easy connect without port",
			dsn:      "ebsdb.example.com/EBSPROD",
			contains: []string{"ebsdb.example.com:1521", "EBSPROD"},
		},
		{
			name:     "leading slashes",
			dsn:      "//ebsdb.example.com:1521/EBSPROD",
			contains: []string{"ebsdb.example.com:1521", "EBSPROD"},
		},
		{
			name:     "url keeps its own credentials",
			dsn:      "oracle://other:pw@ebsdb.example.com:1521/EBSPROD",
			contains: []string{"other:pw@ebsdb.example.com:1521/EBSPROD"},
		},
		{
			name:     "url gets configured credentials",
			dsn:      "oracle://ebsdb.example.com:1521/EBSPROD",
			contains: []string{"apps:apps@ebsdb.example.com:1521/EBSPROD"},
		},
		{
			name:     "tns descriptor",
			dsn:      "(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=db)(PORT=1521))(CONNECT_DATA=(SERVICE_NAME=EBS)))",
			contains: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := database.BuildURL(config.DatabaseConfig{User: "apps", Password: "apps", DSN: tt.dsn})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, "oracle://"), url)
			for _, part := range tt.contains {
				assert.Contains(t, url, part)
			}
		})
	}
}

func TestBuildURL_Invalid(t *testing.T) {
	for _, dsn := range []string{"", "   ", "hostonly", "host:port/EBS", "host:99999/EBS", "host:1521/"} {
		t.Run(dsn, func(t *testing.T) {
			_, err := database.BuildURL(config.DatabaseConfig{User: "apps", DSN: dsn})
			assert.Error(t, err)
		})
	}
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := database.Open(context.Background(), config.DatabaseConfig{User: "apps", DSN: "hostonly"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConnectionError(err))
}

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestPing(t *testing.T) {
	t.Run("applies timeout", func(t *testing.T) {
		var deadline time.Time
		err := database.Ping(context.Background(), pingFunc(func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return nil
		}), time.Second)
		require.NoError(t, err)
		assert.False(t, deadline.IsZero())
	})

	t.Run("wraps failures", func(t *testing.T) {
		err := database.Ping(context.Background(), pingFunc(func(context.Context) error {
			return errors.New("ORA-12541: TNS:no listener")
		}), 0)
		assert.True(t, apperrors.IsConnectionError(err))
	})
}
