package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ReportKey is the context key for the report being executed
	ReportKey contextKey = "report"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithReport adds the report name to the context
func WithReport(ctx context.Context, report string) context.Context {
	return context.WithValue(ctx, ReportKey, report)
}

// GetReport retrieves the report name from context
func GetReport(ctx context.Context) string {
	if name, ok := ctx.Value(ReportKey).(string); ok {
		return name
	}
	return ""
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	return uuid.NewString()
}
