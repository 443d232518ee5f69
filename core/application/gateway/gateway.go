package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ebspulse/ebspulse/core/domain"
	"github.com/ebspulse/ebspulse/core/domain/interfaces"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	"github.com/ebspulse/ebspulse/core/infrastructure/observability"
	sharedctx "github.com/ebspulse/ebspulse/core/shared/context"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

// Gateway executes catalog statements against the pool and turns the rows into result sets.
// It holds no state between calls besides its collaborators.
type Gateway struct {
	catalog      interfaces.Catalog
	db           interfaces.ConnProvider
	queryTimeout time.Duration
}

// Option configures a Gateway
type Option func(*Gateway)

// WithQueryTimeout bounds every execution; zero disables the bound
func WithQueryTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.queryTimeout = d
	}
}

// NewGateway creates a gateway over catalog and the connection pool
func NewGateway(catalog interfaces.Catalog, db interfaces.ConnProvider, opts ...Option) *Gateway {
	g := &Gateway{
		catalog: catalog,
		db:      db,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ interfaces.Gateway = (*Gateway)(nil)

// ExecuteReport runs the named report with params bound by name and returns every row.
// The borrowed connection and the cursor are released on every path.
func (g *Gateway) ExecuteReport(ctx context.Context, name string, params domain.ParameterSet) (result *domain.ResultSet, err error) {
	log := logging.New("gateway")

	stmt, err := g.catalog.Lookup(name)
	if err != nil {
		log.Warnf("Unknown report: %s", name)
		return nil, err
	}

	args, err := bindArgs(stmt, params)
	if err != nil {
		return nil, err
	}

	ctx = sharedctx.WithReport(ctx, name)
	ctx, span := observability.StartReportSpan(ctx)
	subject := describe(ctx)
	start := time.Now()
	defer func() {
		durationMS := float64(time.Since(start).Microseconds()) / 1000
		observability.RecordReportExecution(ctx, name, result.Len(), err, durationMS)
		observability.EndReportSpan(span, result.Len(), err)
		if err != nil {
			log.Errorf("%s failed after %.1fms: %v", subject, durationMS, err)
		} else {
			log.Debugf("%s returned %d row(s) in %.1fms", subject, result.Len(), durationMS)
		}
	}()

	if g.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.queryTimeout)
		defer cancel()
	}

	log.Debugf("Executing %s", subject)

	conn, err := g.db.Conn(ctx)
	if err != nil {
		return nil, apperrors.Connection(err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, apperrors.QueryExecution(name, err)
	}
	defer rows.Close()

	result, err = scanRows(rows)
	if err != nil {
		return nil, apperrors.QueryExecution(name, err)
	}

	if err := checkColumns(stmt, result.Columns); err != nil {
		return nil, apperrors.QueryExecution(name, err)
	}

	return result, nil
}

// describe names the execution carried by ctx for log lines
func describe(ctx context.Context) string {
	subject := "report " + sharedctx.GetReport(ctx)
	if requestID := sharedctx.GetRequestID(ctx); requestID != "" {
		subject += " (request " + requestID + ")"
	}
	return subject
}

// bindArgs checks params against the declared contract and returns named binds in
// declaration order.
func bindArgs(stmt domain.Statement, params domain.ParameterSet) ([]any, error) {
	for _, name := range params.Names() {
		if _, ok := stmt.Param(name); !ok {
			return nil, apperrors.Validation(fmt.Sprintf("report '%s' has no parameter '%s'", stmt.Name, name), nil)
		}
	}

	args := make([]any, 0, len(stmt.Params))
	for _, p := range stmt.Params {
		value, ok := params[p.Name]
		if !ok {
			return nil, apperrors.Validation(fmt.Sprintf("report '%s' requires parameter '%s'", stmt.Name, p.Name), nil)
		}
		args = append(args, sql.Named(p.Name, value))
	}
	return args, nil
}

func scanRows(rows *sql.Rows) (*domain.ResultSet, error) {
	rawColumns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	columns := make([]string, len(rawColumns))
	for i, col := range rawColumns {
		columns[i] = strings.ToLower(col)
	}
	if dup := firstDuplicate(columns); dup != "" {
		return nil, fmt.Errorf("column '%s' returned more than once", dup)
	}

	result := domain.NewResultSet(columns)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		if err := result.Append(values); err != nil {
			return nil, err
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

func firstDuplicate(columns []string) string {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return col
		}
		seen[col] = true
	}
	return ""
}

// checkColumns verifies the returned column set equals the declared one, ignoring order
func checkColumns(stmt domain.Statement, got []string) error {
	if len(stmt.Columns) == 0 {
		return nil
	}
	want := slices.Clone(stmt.Columns)
	have := slices.Clone(got)
	slices.Sort(want)
	slices.Sort(have)
	if !slices.Equal(want, have) {
		return fmt.Errorf("returned columns %v, expected %v", got, stmt.Columns)
	}
	return nil
}
