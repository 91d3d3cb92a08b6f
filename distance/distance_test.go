package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-5)
			assert.InDelta(t, -tt.expected, NegativeDot(tt.a, tt.b), 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-5)
		})
	}
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 1, Cosine([]float32{1, 0}, []float32{0, 3}), 1e-6)
	assert.InDelta(t, 2, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.InDelta(t, 1, Cosine([]float32{0, 0}, []float32{1, 0}), 1e-6)
}

func TestProvider(t *testing.T) {
	for _, m := range []Metric{MetricL2, MetricCosine, MetricDot} {
		fn, err := Provider(m)
		require.NoError(t, err, m.String())
		assert.NotNil(t, fn)
	}

	_, err := Provider(Metric(42))
	assert.Error(t, err)
	assert.Equal(t, "Unknown(42)", Metric(42).String())
}
