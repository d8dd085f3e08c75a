package f64

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 32},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Mixed", []float64{1, -1, 2}, []float64{1, 1, -2}, -4},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-12)
			assert.InDelta(t, math.Sqrt(tt.expected), L2(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSquaredL2Batch(t *testing.T) {
	query := []float64{0, 0}
	targets := []float64{
		1, 0,
		0, 2,
		3, 4,
	}
	out := make([]float64, 3)
	SquaredL2Batch(query, targets, 2, out)
	assert.InDeltaSlice(t, []float64{1, 4, 25}, out, 1e-12)
}

func TestScaleInPlace(t *testing.T) {
	v := []float64{1, -2, 4}
	ScaleInPlace(v, 0.5)
	assert.InDeltaSlice(t, []float64{0.5, -1, 2}, v, 1e-12)
}
