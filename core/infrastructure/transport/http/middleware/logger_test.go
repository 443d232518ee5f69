package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedctx "github.com/ebspulse/ebspulse/core/shared/context"
)

func serveRequestID(t *testing.T, header string) (responseID, sharedID, chiID string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		sharedID = sharedctx.GetRequestID(r.Context())
		chiID = chimiddleware.GetReqID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	if header != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Header().Get(chimiddleware.RequestIDHeader), sharedID, chiID
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	responseID, sharedID, chiID := serveRequestID(t, "")

	_, err := uuid.Parse(responseID)
	require.NoError(t, err)
	assert.Equal(t, responseID, sharedID)
	assert.Equal(t, responseID, chiID)
}

func TestRequestID_KeepsClientID(t *testing.T) {
	responseID, sharedID, _ := serveRequestID(t, "dashboard-42")

	assert.Equal(t, "dashboard-42", responseID)
	assert.Equal(t, "dashboard-42", sharedID)
}

func TestRequestID_ReplacesMalformedClientID(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "contains spaces", header: "two words"},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responseID, _, _ := serveRequestID(t, tt.header)
			_, err := uuid.Parse(responseID)
			assert.NoError(t, err)
		})
	}
}
