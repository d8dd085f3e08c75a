// Package queue provides the bounded candidate heap used for top-k neighbor
// selection.
package queue

import "container/heap"

// Candidate is a (distance, index) pair under consideration.
type Candidate struct {
	Index    int32   // Candidate point index.
	Distance float64 // Distance to the query point.
}

// less orders candidates ascending by distance, ties broken by ascending
// index. This total order is what makes neighbor results deterministic.
func less(a, b Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Index < b.Index
}

// TopK keeps the k smallest candidates seen so far under the (distance,
// index) order. Internally it is a max-heap whose root is the current worst
// kept candidate.
type TopK struct {
	k     int
	items maxHeap
}

// NewTopK creates a TopK selector for k candidates. k must be >= 0.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make(maxHeap, 0, k),
	}
}

// Push offers a candidate. It is kept only if fewer than k candidates are
// held or it beats the current worst.
func (t *TopK) Push(c Candidate) {
	if t.k == 0 {
		return
	}
	if len(t.items) < t.k {
		heap.Push(&t.items, c)
		return
	}
	if less(c, t.items[0]) {
		t.items[0] = c
		heap.Fix(&t.items, 0)
	}
}

// Len returns the number of candidates currently held.
func (t *TopK) Len() int { return len(t.items) }

// Drain empties the selector into dst in ascending (distance, index) order.
// dst must have length >= t.Len(). It returns the number of items written.
func (t *TopK) Drain(dst []Candidate) int {
	n := len(t.items)
	for i := n - 1; i >= 0; i-- {
		dst[i] = heap.Pop(&t.items).(Candidate)
	}
	return n
}

// Compile time check to ensure maxHeap satisfies the heap interface.
var _ heap.Interface = (*maxHeap)(nil)

type maxHeap []Candidate

func (h maxHeap) Len() int { return len(h) }

// Less inverts the candidate order so the root is the worst kept candidate.
func (h maxHeap) Less(i, j int) bool { return less(h[j], h[i]) }

func (h maxHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *maxHeap) Push(x any) {
	*h = append(*h, x.(Candidate))
}

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
