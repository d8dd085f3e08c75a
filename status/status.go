// Package status defines the closed set of outcome codes shared by every
// kernel operation, together with the sentinel errors that map onto them.
//
// Codes mirror the numeric values of the original C ABI so that results
// recorded by older tooling remain comparable.
package status

import "errors"

// Code is the outcome of a kernel operation.
type Code int

const (
	// Success means the operation completed and outputs are valid.
	Success Code = 0
	// InvalidArgument means an input violated a documented precondition.
	InvalidArgument Code = 1
	// AllocationFailure means device or working memory could not be allocated.
	AllocationFailure Code = 2
	// TransferFailure means a host/device data transfer failed.
	TransferFailure Code = 3
	// KernelFailure means a dispatched parallel kernel reported a fault.
	KernelFailure Code = 4
	// BackendUnavailable means no compatible compute backend is present.
	BackendUnavailable Code = 5
	// Internal is an unclassified internal fault.
	Internal Code = 99
)

// String returns the human-readable description for the code.
func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case InvalidArgument:
		return "invalid argument"
	case AllocationFailure:
		return "memory allocation failed"
	case TransferFailure:
		return "data transfer failed"
	case KernelFailure:
		return "kernel execution failed"
	case BackendUnavailable:
		return "no compute backend available"
	case Internal:
		return "internal error"
	default:
		return "unknown error"
	}
}

var (
	// ErrInvalidArgument is returned when an input violates a documented
	// precondition (bad size, nil required buffer, out-of-range index).
	ErrInvalidArgument = errors.New("topo: invalid argument")

	// ErrAllocationFailure is returned when working memory cannot be acquired.
	ErrAllocationFailure = errors.New("topo: allocation failure")

	// ErrTransferFailure is returned when moving data to or from a compute
	// device fails.
	ErrTransferFailure = errors.New("topo: transfer failure")

	// ErrKernelFailure is returned when a dispatched kernel faults.
	ErrKernelFailure = errors.New("topo: kernel failure")

	// ErrBackendUnavailable is returned when no compute backend is registered
	// or the registered backend reports itself unavailable.
	ErrBackendUnavailable = errors.New("topo: compute backend unavailable")

	// ErrInternal is returned for unclassified internal faults.
	ErrInternal = errors.New("topo: internal error")
)

// CodeOf classifies err into a Code. A nil error is Success; errors that do
// not wrap one of the package sentinels are Internal.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInvalidArgument):
		return InvalidArgument
	case errors.Is(err, ErrAllocationFailure):
		return AllocationFailure
	case errors.Is(err, ErrTransferFailure):
		return TransferFailure
	case errors.Is(err, ErrKernelFailure):
		return KernelFailure
	case errors.Is(err, ErrBackendUnavailable):
		return BackendUnavailable
	default:
		return Internal
	}
}

// Err returns the sentinel error for the code, or nil for Success.
func (c Code) Err() error {
	switch c {
	case Success:
		return nil
	case InvalidArgument:
		return ErrInvalidArgument
	case AllocationFailure:
		return ErrAllocationFailure
	case TransferFailure:
		return ErrTransferFailure
	case KernelFailure:
		return ErrKernelFailure
	case BackendUnavailable:
		return ErrBackendUnavailable
	default:
		return ErrInternal
	}
}
