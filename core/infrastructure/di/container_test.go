package di_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/di"
	httptransport "github.com/ebspulse/ebspulse/core/infrastructure/transport/http"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

// unreachableConfig points at a closed local port so every dial is refused
func unreachableConfig() config.Config {
	cfg := config.Default()
	cfg.Database.DSN = "127.0.0.1:1/nosvc"
	cfg.Database.PingTimeout = 2 * time.Second
	return cfg
}

func TestNewContainer_ServesWithUnreachableDatabase(t *testing.T) {
	container, err := di.NewContainer(context.Background(), unreachableConfig())
	require.NoError(t, err)
	require.NotNil(t, container)
	t.Cleanup(func() { _ = container.Close() })

	server, err := httptransport.NewServer(container.Config.Server)
	require.NoError(t, err)
	require.NoError(t, httptransport.RegisterRoutes(server.Router(), container.Catalog, container.ReportService, "http://localhost:8000", "test"))

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/test-connection", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(apperrors.ErrCodeConnectionFailed), body["code"])

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/heartbeat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewVerifiedContainer_FailsWithUnreachableDatabase(t *testing.T) {
	container, err := di.NewVerifiedContainer(context.Background(), unreachableConfig())
	assert.Nil(t, container)
	assert.True(t, apperrors.IsConnectionError(err))
}

func TestNewContainer_InvalidDSN(t *testing.T) {
	cfg := config.Default()
	cfg.Database.DSN = "no-service-part"

	_, err := di.NewContainer(context.Background(), cfg)
	assert.True(t, apperrors.IsConnectionError(err))
}
