package interfaces

import (
	"context"

	"github.com/ebspulse/ebspulse/core/domain"
)

// ReportService validates raw request input and runs reports through the gateway
type ReportService interface {
	// RunReport parses and validates raw inputs, then executes the report
	RunReport(ctx context.Context, name string, rawInputs map[string]string) (*domain.ResultSet, error)

	// TestConnection borrows one connection and pings the database
	TestConnection(ctx context.Context) error
}
