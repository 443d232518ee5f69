package domain_test

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebspulse/ebspulse/core/domain"
)

func TestResultSet_Append(t *testing.T) {
	rs := domain.NewResultSet([]string{"a", "b"})

	require.NoError(t, rs.Append([]any{1, "x"}))
	assert.Error(t, rs.Append([]any{1}))
	assert.Equal(t, 1, rs.Len())
	assert.Equal(t, []any{1, "x"}, rs.Values(0))
	assert.Equal(t, domain.ResultRow{"a": 1, "b": "x"}, rs.Row(0))
}

func TestResultSet_NilLen(t *testing.T) {
	var rs *domain.ResultSet
	assert.Equal(t, 0, rs.Len())
}

func TestResultSet_MarshalJSON(t *testing.T) {
	started := time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		build    func() *domain.ResultSet
		expected string
	}{
		{
			name:     "nil set",
			build:    func() *domain.ResultSet { return nil },
			expected: `[]`,
		},
		{
			name:     "empty set",
			build:    func() *domain.ResultSet { return domain.NewResultSet([]string{"a"}) },
			expected: `[]`,
		},
		{
			name: "keys follow column order",
			build: func() *domain.ResultSet {
				rs := domain.NewResultSet([]string{"zeta", "alpha"})
				_ = rs.Append([]any{"z1", int64(1)})
				_ = rs.Append([]any{"z2", nil})
				return rs
			},
			expected: `[{"zeta":"z1","alpha":1},{"zeta":"z2","alpha":null}]`,
		},
		{
			name: "time and float values",
			build: func() *domain.ResultSet {
				rs := domain.NewResultSet([]string{"actual_start_date", "running_hours"})
				_ = rs.Append([]any{started, 9.5})
				return rs
			},
			expected: `[{"actual_start_date":"2024-03-01T06:30:00Z","running_hours":9.5}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.build().MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestResultSet_MarshalViaEncoder(t *testing.T) {
	rs := domain.NewResultSet([]string{"program_name", "running"})
	require.NoError(t, rs.Append([]any{"GL Posting", int64(2)}))

	out, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"program_name":"GL Posting","running":2}]`, string(out))

	records := rs.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "GL Posting", records[0]["program_name"])
}
