package probe

import "container/heap"

// queueItem pairs a probePoint with its real search cost, grounded on the
// value-based priority queue item shape used elsewhere in this codebase's
// lineage, adapted here to ascending (min-heap) ordering.
type queueItem struct {
	point *probePoint
	cost  int64
}

type itemHeap []queueItem

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(queueItem)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// probeQueue is a min-heap of probePoints ordered by ascending real cost.
type probeQueue struct {
	h itemHeap
}

func newProbeQueue() *probeQueue {
	return &probeQueue{}
}

func (q *probeQueue) Len() int {
	return len(q.h)
}

// PushItem adds a candidate point with the given cost.
func (q *probeQueue) PushItem(p *probePoint, cost int64) {
	heap.Push(&q.h, queueItem{point: p, cost: cost})
}

// PopItem removes and returns the lowest-cost candidate.
func (q *probeQueue) PopItem() (*probePoint, int64) {
	item := heap.Pop(&q.h).(queueItem)
	return item.point, item.cost
}
