package topo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNeighbors is returned when the neighbor count is not positive.
	ErrInvalidNeighbors = errors.New("neighbors must be positive")

	// ErrInvalidMaxDim is returned when the homology dimension is not 0 or 1.
	ErrInvalidMaxDim = errors.New("max homology dimension must be 0 or 1")

	// ErrEmptyCloud is returned when the point cloud has too few points for
	// the requested computation.
	ErrEmptyCloud = errors.New("point cloud needs at least 2 points")
)

// ErrInvalidCloudShape indicates that the flat point buffer does not match
// the declared (n, dim) shape.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidCloudShape struct {
	N     int
	Dim   int
	Have  int
	cause error
}

func (e *ErrInvalidCloudShape) Error() string {
	return fmt.Sprintf("invalid cloud shape: need %d values for %d points of dimension %d, have %d",
		e.N*e.Dim, e.N, e.Dim, e.Have)
}

func (e *ErrInvalidCloudShape) Unwrap() error { return e.cause }
