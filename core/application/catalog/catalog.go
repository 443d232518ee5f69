package catalog

import (
	"fmt"

	"github.com/ebspulse/ebspulse/core/domain"
	"github.com/ebspulse/ebspulse/core/domain/interfaces"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

// Report names
const (
	Summary      = "summary"
	Trend        = "trend"
	LongRunning  = "long-running"
	Terminated   = "terminated"
	EventBubbles = "event-bubbles"
)

// hoursParam is the time window shared by every windowed report
var hoursParam = domain.Parameter{
	Name:        "hours",
	Type:        domain.ParamTypeInt,
	Description: "Size of the reporting window in hours",
	Default:     8,
	Min:         1,
	Max:         48,
}

// Catalog is the read-only library of report statements
type Catalog struct {
	order      []string
	statements map[string]domain.Statement
}

// New builds the catalog of the five fixed reports
func New() *Catalog {
	c, err := FromStatements(defaultStatements())
	if err != nil {
		// Static definitions; failing here is a programming error.
		panic(err)
	}
	return c
}

// FromStatements builds a catalog from arbitrary statements, validating each one
func FromStatements(statements []domain.Statement) (*Catalog, error) {
	c := &Catalog{
		order:      make([]string, 0, len(statements)),
		statements: make(map[string]domain.Statement, len(statements)),
	}
	for _, s := range statements {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("statement '%s': %w", s.Name, err)
		}
		if _, exists := c.statements[s.Name]; exists {
			return nil, fmt.Errorf("statement '%s' defined twice", s.Name)
		}
		c.order = append(c.order, s.Name)
		c.statements[s.Name] = s.Clone()
	}
	return c, nil
}

// Lookup returns the statement for a known report name
func (c *Catalog) Lookup(name string) (domain.Statement, error) {
	s, ok := c.statements[name]
	if !ok {
		return domain.Statement{}, apperrors.UnknownReport(name)
	}
	return s.Clone(), nil
}

// Names returns every report name in catalog order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// All returns every statement in catalog order
func (c *Catalog) All() []domain.Statement {
	out := make([]domain.Statement, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.statements[name].Clone())
	}
	return out
}

var _ interfaces.Catalog = (*Catalog)(nil)

func defaultStatements() []domain.Statement {
	return []domain.Statement{
		{
			Name:        Summary,
			Description: "Request counts per concurrent program inside the window",
			SQL:         summarySQL,
			Params:      []domain.Parameter{hoursParam},
			Columns: []string{
				"program_name", "completed_ok", "completed_warning", "completed_error",
				"completed_terminated", "running", "pending_standby", "scheduled",
				"started_in_window",
			},
		},
		{
			Name:        Trend,
			Description: "Hourly time series of request outcomes",
			SQL:         trendSQL,
			Params:      []domain.Parameter{hoursParam},
			Columns: []string{
				"hour_start", "hour_end", "scheduled", "completed_ok", "completed_1hr",
				"completed_warning", "completed_warn_1hr", "running", "pending", "inactive",
				"error_1hr", "terminated_1hr", "completed_error", "completed_terminated",
			},
		},
		{
			Name:        LongRunning,
			Description: "Requests running for more than eight hours",
			SQL:         longRunningSQL,
			Columns: []string{
				"request_id", "program_name", "actual_start_date", "running_hours",
				"phase_code", "status_code",
			},
		},
		{
			Name:        Terminated,
			Description: "Requests terminated inside the window",
			SQL:         terminatedSQL,
			Params:      []domain.Parameter{hoursParam},
			Columns: []string{
				"request_id", "program_name", "actual_start_date", "actual_completion_date",
				"status_code",
			},
		},
		{
			Name:        EventBubbles,
			Description: "Error completions inside the window",
			SQL:         eventBubblesSQL,
			Params:      []domain.Parameter{hoursParam},
			Columns:     []string{"event_time", "status_code"},
		},
	}
}
