package compute

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topostreams/topo/status"
)

func TestCPUDispatchCoversRange(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
	}{
		{"SingleWorker", 1, 100},
		{"MoreWorkersThanItems", 16, 3},
		{"Even", 4, 64},
		{"Uneven", 4, 67},
		{"Empty", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			b := NewCPU(tt.workers)
			err := b.Dispatch(context.Background(), tt.n, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			require.NoError(t, err)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d", i)
			}
		})
	}
}

func TestCPUDispatchPanicIsKernelFailure(t *testing.T) {
	b := NewCPU(2)
	err := b.Dispatch(context.Background(), 8, func(lo, hi int) {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, status.KernelFailure, status.CodeOf(err))
}

func TestCPUDispatchCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewCPU(2)
	err := b.Dispatch(ctx, 8, func(lo, hi int) {})
	require.Error(t, err)
	assert.Equal(t, status.KernelFailure, status.CodeOf(err))
}

func TestRegistry(t *testing.T) {
	orig, ok := Current()
	require.True(t, ok)
	defer Register(orig)

	Register(nil)
	_, ok = Current()
	assert.False(t, ok)

	err := Dispatch(context.Background(), 4, func(lo, hi int) {})
	assert.ErrorIs(t, err, status.ErrBackendUnavailable)

	Register(NewCPU(2))
	var total atomic.Int32
	err = Dispatch(context.Background(), 4, func(lo, hi int) {
		total.Add(int32(hi - lo))
	})
	require.NoError(t, err)
	assert.Equal(t, int32(4), total.Load())
}
