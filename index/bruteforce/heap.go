package bruteforce

import (
	"container/heap"

	"github.com/viant/sqlite-knn/index"
)

// worse reports whether a ranks after b: larger distance, or equal distance
// and larger index.
func worse(a, b index.Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Index > b.Index
}

// candidates implements heap.Interface with the worst neighbor on top
// (max-heap), so the current k-th best is always at position 0.
type candidates []index.Neighbor

func (h candidates) Len() int           { return len(h) }
func (h candidates) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h candidates) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidates) Push(x interface{}) {
	*h = append(*h, x.(index.Neighbor))
}

func (h *candidates) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// pushBounded offers n to a heap holding at most capacity items. When full,
// n replaces the top only if it ranks strictly better.
func (h *candidates) pushBounded(n index.Neighbor, capacity int) {
	if h.Len() < capacity {
		heap.Push(h, n)
		return
	}
	if worse((*h)[0], n) {
		(*h)[0] = n
		heap.Fix(h, 0)
	}
}

// sorted drains the heap into ascending rank order.
func (h *candidates) sorted() []index.Neighbor {
	out := make([]index.Neighbor, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(index.Neighbor)
	}
	return out
}
