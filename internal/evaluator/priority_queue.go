package evaluator

import "container/heap"

// priorityItem is one zero-in-degree task waiting to be popped by the
// topological pass, ordered by (priority desc, index asc) — higher
// priority first, lower dense index first on ties, for a strict
// deterministic order. Grounded on the container/heap-based EFT list
// scheduler idiom found across the scheduling corpus: a priority queue
// is the natural fit here and no third-party priority-queue library
// appears anywhere in it, so this stays on the standard library.
type priorityItem struct {
	index    int
	priority float64
}

type priorityQueue []priorityItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority > pq[j].priority
	}
	return pq[i].index < pq[j].index
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(priorityItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

var _ heap.Interface = (*priorityQueue)(nil)
