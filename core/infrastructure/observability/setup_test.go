package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamplingRatio(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{in: -0.5, expected: 0},
		{in: 0, expected: 0},
		{in: 0.25, expected: 0.25},
		{in: 1, expected: 1},
		{in: 3, expected: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, samplingRatio(tt.in))
	}
}
