package filtration

import (
	"fmt"
	"math"

	"github.com/topostreams/topo/status"
)

// Scaler standardizes features to zero mean and unit variance, and can
// map scaled coordinates back into original units. Points are flat
// row-major with Dim features per row.
type Scaler struct {
	Dim  int
	Mean []float64
	Std  []float64
}

// FitScaler computes per-feature mean and population standard deviation
// over n points. Constant features get a standard deviation of 1 so that
// Transform leaves them centered rather than dividing by zero.
func FitScaler(points []float64, n, d int) (*Scaler, error) {
	if n < 1 || d < 1 {
		return nil, fmt.Errorf("filtration: %w: n=%d, d=%d", status.ErrInvalidArgument, n, d)
	}
	if len(points) < n*d {
		return nil, fmt.Errorf("filtration: %w: points length %d, need %d",
			status.ErrInvalidArgument, len(points), n*d)
	}

	s := &Scaler{
		Dim:  d,
		Mean: make([]float64, d),
		Std:  make([]float64, d),
	}
	for i := 0; i < n; i++ {
		row := points[i*d : (i+1)*d]
		for f, v := range row {
			s.Mean[f] += v
		}
	}
	for f := range s.Mean {
		s.Mean[f] /= float64(n)
	}
	for i := 0; i < n; i++ {
		row := points[i*d : (i+1)*d]
		for f, v := range row {
			dv := v - s.Mean[f]
			s.Std[f] += dv * dv
		}
	}
	for f := range s.Std {
		s.Std[f] = math.Sqrt(s.Std[f] / float64(n))
		if s.Std[f] == 0 {
			s.Std[f] = 1
		}
	}
	return s, nil
}

// Transform writes standardized coordinates for n points into out, which
// may alias points.
func (s *Scaler) Transform(points, out []float64, n int) error {
	if err := s.checkBuffers(points, out, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		base := i * s.Dim
		for f := 0; f < s.Dim; f++ {
			out[base+f] = (points[base+f] - s.Mean[f]) / s.Std[f]
		}
	}
	return nil
}

// InverseTransform maps standardized coordinates back to original units.
func (s *Scaler) InverseTransform(scaled, out []float64, n int) error {
	if err := s.checkBuffers(scaled, out, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		base := i * s.Dim
		for f := 0; f < s.Dim; f++ {
			out[base+f] = scaled[base+f]*s.Std[f] + s.Mean[f]
		}
	}
	return nil
}

func (s *Scaler) checkBuffers(in, out []float64, n int) error {
	need := n * s.Dim
	if n < 0 || len(in) < need || len(out) < need {
		return fmt.Errorf("filtration: %w: need %d values, have in=%d out=%d",
			status.ErrInvalidArgument, need, len(in), len(out))
	}
	return nil
}
