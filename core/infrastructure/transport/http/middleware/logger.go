package middleware

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	sharedctx "github.com/ebspulse/ebspulse/core/shared/context"
)

const maxRequestIDLength = 128

// RequestID assigns every request an id, reusing a well-formed X-Request-Id from the
// client and generating a UUID otherwise. The id is stored in the shared context and in
// chi's request id slot, and echoed back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(chimiddleware.RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = sharedctx.GenerateRequestID()
		}
		w.Header().Set(chimiddleware.RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, requestID)
		ctx = sharedctx.WithRequestID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, c := range id {
		if c < '!' || c > '~' {
			return false
		}
	}
	return true
}

// AccessLog writes one structured line per request through the tagged zerolog logger
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if logging.GetLogLevel() < logging.LogLevelInfo {
			return
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		logger := logging.Zerolog("http")
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("request_id", sharedctx.GetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
