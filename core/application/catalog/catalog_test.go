package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebspulse/ebspulse/core/application/catalog"
	"github.com/ebspulse/ebspulse/core/domain"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

func TestNew_Names(t *testing.T) {
	c := catalog.New()
	assert.Equal(t, []string{
		catalog.Summary,
		catalog.Trend,
		catalog.LongRunning,
		catalog.Terminated,
		catalog.EventBubbles,
	}, c.Names())
}

func TestLookup(t *testing.T) {
	c := catalog.New()

	tests := []struct {
		name       string
		report     string
		wantParams []string
	}{
		{name: "summary", report: catalog.Summary, wantParams: []string{"hours"}},
		{name: "trend", report: catalog.Trend, wantParams: []string{"hours"}},
		{name: "long running", report: catalog.LongRunning, wantParams: nil},
		{name: "terminated", report: catalog.Terminated, wantParams: []string{"hours"}},
		{name: "event bubbles", report: catalog.EventBubbles, wantParams: []string{"hours"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := c.Lookup(tt.report)
			require.NoError(t, err)
			assert.Equal(t, tt.report, stmt.Name)
			assert.NotEmpty(t, stmt.Columns)

			var names []string
			for _, p := range stmt.Params {
				names = append(names, p.Name)
				assert.Equal(t, 8, p.Default)
				assert.Equal(t, 1, p.Min)
				assert.Equal(t, 48, p.Max)
				assert.Contains(t, stmt.SQL, ":"+p.Name)
			}
			assert.Equal(t, tt.wantParams, names)

			if len(stmt.Params) == 0 {
				assert.NotContains(t, stmt.SQL, ":hours")
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := catalog.New().Lookup("nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnknownReport(err))
}

func TestLookup_ReturnsCopies(t *testing.T) {
	c := catalog.New()

	stmt, err := c.Lookup(catalog.Summary)
	require.NoError(t, err)
	stmt.Params[0].Max = 1000
	stmt.Columns[0] = "tampered"

	again, err := c.Lookup(catalog.Summary)
	require.NoError(t, err)
	assert.Equal(t, 48, again.Params[0].Max)
	assert.Equal(t, "program_name", again.Columns[0])
}

func TestStatementsAreReadOnly(t *testing.T) {
	for _, stmt := range catalog.New().All() {
		sql := strings.ToUpper(stmt.SQL)
		for _, verb := range []string{"INSERT ", "UPDATE ", "DELETE ", "MERGE ", "DROP ", "ALTER "} {
			assert.NotContains(t, sql, verb, "report %s", stmt.Name)
		}
	}
}

func TestFromStatements(t *testing.T) {
	valid := domain.Statement{Name: "a", SQL: "SELECT 1 FROM dual"}

	c, err := catalog.FromStatements([]domain.Statement{valid})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, c.Names())

	_, err = catalog.FromStatements([]domain.Statement{valid, valid})
	assert.Error(t, err)

	_, err = catalog.FromStatements([]domain.Statement{{Name: "b"}})
	assert.Error(t, err)
}
