// Package f64 provides the float64 vector kernels used by the neighbor
// search and filtration code. Implementations are held in package-level
// variables so that architecture-specific versions can be installed at init
// time without changing call sites.
package f64

import "math"

var (
	dotImpl            = dotGeneric
	squaredL2Impl      = squaredL2Generic
	squaredL2BatchImpl = squaredL2BatchGeneric
	scaleImpl          = scaleGeneric
)

// Dot calculates the dot product of two vectors.
//
// SAFETY: assumes len(a) == len(b); no bounds checks are performed.
func Dot(a, b []float64) float64 {
	return dotImpl(a, b)
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
//
// SAFETY: assumes len(a) == len(b); no bounds checks are performed.
func SquaredL2(a, b []float64) float64 {
	return squaredL2Impl(a, b)
}

// L2 calculates the Euclidean distance between two vectors.
func L2(a, b []float64) float64 {
	return math.Sqrt(squaredL2Impl(a, b))
}

// SquaredL2Batch computes squared L2 distances from query to a batch of
// row-major vectors. targets holds N rows of dimension dim; out must have
// length N (len(targets) / dim).
func SquaredL2Batch(query []float64, targets []float64, dim int, out []float64) {
	squaredL2BatchImpl(query, targets, dim, out)
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float64, scalar float64) {
	scaleImpl(a, scalar)
}

func dotGeneric(a, b []float64) float64 {
	var ret float64
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

func squaredL2Generic(a, b []float64) float64 {
	var distance float64
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}
	return distance
}

func squaredL2BatchGeneric(query []float64, targets []float64, dim int, out []float64) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	n := len(targets) / dim
	if n > len(out) {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		out[i] = squaredL2Impl(q, targets[offset:offset+dim])
	}
}

func scaleGeneric(a []float64, scalar float64) {
	for i := range a {
		a[i] *= scalar
	}
}
