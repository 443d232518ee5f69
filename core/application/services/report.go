package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ebspulse/ebspulse/core/domain"
	"github.com/ebspulse/ebspulse/core/domain/interfaces"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

var validate = validator.New()

// ReportService implements the report service used by the HTTP transport and the CLI
type ReportService struct {
	catalog interfaces.Catalog
	gateway interfaces.Gateway
	db      interfaces.ConnProvider
}

// NewReportService creates a new ReportService
func NewReportService(catalog interfaces.Catalog, gateway interfaces.Gateway, db interfaces.ConnProvider) *ReportService {
	return &ReportService{
		catalog: catalog,
		gateway: gateway,
		db:      db,
	}
}

var _ interfaces.ReportService = (*ReportService)(nil)

// RunReport converts raw string inputs into a validated parameter set and executes the
// report. Out-of-range or malformed values never reach the database.
func (s *ReportService) RunReport(ctx context.Context, name string, rawInputs map[string]string) (*domain.ResultSet, error) {
	stmt, err := s.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}

	params, err := ParseParams(stmt, rawInputs)
	if err != nil {
		return nil, err
	}

	return s.gateway.ExecuteReport(ctx, name, params)
}

// TestConnection borrows one pooled connection, pings through it and returns it
func (s *ReportService) TestConnection(ctx context.Context) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return apperrors.Connection(err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return apperrors.Connection(err)
	}
	return nil
}

// ParseParams applies defaults, parses and range-checks every declared parameter.
// Inputs that the statement does not declare are ignored.
func ParseParams(stmt domain.Statement, rawInputs map[string]string) (domain.ParameterSet, error) {
	params := make(domain.ParameterSet, len(stmt.Params))
	for _, p := range stmt.Params {
		raw, present := rawInputs[p.Name]
		if !present {
			params[p.Name] = p.Default
			continue
		}

		switch p.Type {
		case domain.ParamTypeInt:
			value, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, apperrors.Validation(fmt.Sprintf("parameter '%s' must be an integer", p.Name), err)
			}
			rule := fmt.Sprintf("min=%d,max=%d", p.Min, p.Max)
			if err := validate.Var(value, rule); err != nil {
				return nil, apperrors.Validation(
					fmt.Sprintf("parameter '%s' must be between %d and %d", p.Name, p.Min, p.Max), err)
			}
			params[p.Name] = value
		default:
			return nil, apperrors.Validation(fmt.Sprintf("parameter '%s' has unsupported type '%s'", p.Name, p.Type), nil)
		}
	}
	return params, nil
}
