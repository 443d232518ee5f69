package domain

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// ResultRow maps a lowercase column name to the value returned by the driver
type ResultRow map[string]any

// ResultSet is the ordered, uniform table produced by one report execution.
// Every row has exactly one value per column.
type ResultSet struct {
	Columns []string
	rows    [][]any
}

// NewResultSet creates an empty result set over the given columns
func NewResultSet(columns []string) *ResultSet {
	return &ResultSet{
		Columns: slices.Clone(columns),
		rows:    make([][]any, 0),
	}
}

// Append adds a row. The row must carry one value per column.
func (r *ResultSet) Append(values []any) error {
	if len(values) != len(r.Columns) {
		return fmt.Errorf("row has %d values, result set has %d columns", len(values), len(r.Columns))
	}
	r.rows = append(r.rows, values)
	return nil
}

// Len returns the number of rows
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rows)
}

// Values returns the raw values of row i in column order
func (r *ResultSet) Values(i int) []any {
	return r.rows[i]
}

// Row returns row i keyed by column name
func (r *ResultSet) Row(i int) ResultRow {
	row := make(ResultRow, len(r.Columns))
	for j, col := range r.Columns {
		row[col] = r.rows[i][j]
	}
	return row
}

// Records returns every row keyed by column name, in result order
func (r *ResultSet) Records() []ResultRow {
	out := make([]ResultRow, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		out = append(out, r.Row(i))
	}
	return out
}

// MarshalJSON encodes the set as an array of objects whose keys follow column order.
// An empty or nil set encodes as [].
func (r *ResultSet) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.rows) == 0 {
		return []byte("[]"), nil
	}

	keys := make([][]byte, len(r.Columns))
	for i, col := range r.Columns {
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, values := range r.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, v := range values {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[j])
			buf.WriteByte(':')
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("column '%s': %w", r.Columns[j], err)
			}
			buf.Write(encoded)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
