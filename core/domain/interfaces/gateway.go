package interfaces

import (
	"context"

	"github.com/ebspulse/ebspulse/core/domain"
)

// Catalog holds the fixed library of report statements
type Catalog interface {
	// Lookup returns the statement for a known report name
	Lookup(name string) (domain.Statement, error)

	// Names returns every report name in catalog order
	Names() []string

	// All returns every statement in catalog order
	All() []domain.Statement
}

// Gateway executes a report and serializes its rows
type Gateway interface {
	// ExecuteReport runs the named report with bound parameters
	ExecuteReport(ctx context.Context, name string, params domain.ParameterSet) (*domain.ResultSet, error)
}
