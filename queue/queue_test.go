package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopKKeepsSmallest(t *testing.T) {
	tk := NewTopK(3)
	for _, c := range []Candidate{
		{Index: 0, Distance: 5},
		{Index: 1, Distance: 1},
		{Index: 2, Distance: 4},
		{Index: 3, Distance: 2},
		{Index: 4, Distance: 3},
	} {
		tk.Push(c)
	}

	out := make([]Candidate, tk.Len())
	n := tk.Drain(out)
	require.Equal(t, 3, n)
	assert.Equal(t, []Candidate{
		{Index: 1, Distance: 1},
		{Index: 3, Distance: 2},
		{Index: 4, Distance: 3},
	}, out)
}

func TestTopKTieBreakByIndex(t *testing.T) {
	tk := NewTopK(2)
	for _, c := range []Candidate{
		{Index: 7, Distance: 1},
		{Index: 3, Distance: 1},
		{Index: 5, Distance: 1},
	} {
		tk.Push(c)
	}

	out := make([]Candidate, tk.Len())
	tk.Drain(out)
	assert.Equal(t, []Candidate{
		{Index: 3, Distance: 1},
		{Index: 5, Distance: 1},
	}, out)
}

func TestTopKZero(t *testing.T) {
	tk := NewTopK(0)
	tk.Push(Candidate{Index: 1, Distance: 1})
	assert.Equal(t, 0, tk.Len())
}

func TestTopKFewerThanK(t *testing.T) {
	tk := NewTopK(10)
	tk.Push(Candidate{Index: 1, Distance: 2})
	tk.Push(Candidate{Index: 0, Distance: 1})

	out := make([]Candidate, tk.Len())
	n := tk.Drain(out)
	require.Equal(t, 2, n)
	assert.Equal(t, int32(0), out[0].Index)
	assert.Equal(t, int32(1), out[1].Index)
}
