package ledger

import (
	"container/heap"
	"time"
)

type wakeKind int

const (
	wakeKickoff wakeKind = iota // pending -> preparing
	wakeReady                   // preparing -> ready
	wakePurge                   // drop a picked-up order
)

func (k wakeKind) String() string {
	switch k {
	case wakeKickoff:
		return "kickoff"
	case wakeReady:
		return "ready"
	case wakePurge:
		return "purge"
	default:
		return "unknown"
	}
}

type wake struct {
	orderID int
	kind    wakeKind
	at      time.Time
	seq     uint64
	index   int
}

// wakeQueue holds at most one pending wake per order, ordered by due time.
// Scheduling an order that already has a wake replaces it.
type wakeQueue struct {
	items   wakeHeap
	byOrder map[int]*wake
	seq     uint64
}

func newWakeQueue() wakeQueue {
	return wakeQueue{byOrder: make(map[int]*wake)}
}

func (q *wakeQueue) schedule(orderID int, kind wakeKind, at time.Time) {
	q.cancel(orderID)
	q.seq++
	w := &wake{orderID: orderID, kind: kind, at: at, seq: q.seq}
	heap.Push(&q.items, w)
	q.byOrder[orderID] = w
}

func (q *wakeQueue) cancel(orderID int) bool {
	w, ok := q.byOrder[orderID]
	if !ok {
		return false
	}
	heap.Remove(&q.items, w.index)
	delete(q.byOrder, orderID)
	return true
}

// popDue removes and returns the earliest wake due at or before now.
func (q *wakeQueue) popDue(now time.Time) (wake, bool) {
	if len(q.items) == 0 || q.items[0].at.After(now) {
		return wake{}, false
	}
	w := heap.Pop(&q.items).(*wake)
	delete(q.byOrder, w.orderID)
	return *w, true
}

func (q *wakeQueue) pending(orderID int) (wakeKind, time.Time, bool) {
	w, ok := q.byOrder[orderID]
	if !ok {
		return 0, time.Time{}, false
	}
	return w.kind, w.at, true
}

// next returns the earliest due time, if any.
func (q *wakeQueue) next() (time.Time, bool) {
	if len(q.items) == 0 {
		return time.Time{}, false
	}
	return q.items[0].at, true
}

func (q *wakeQueue) reset() {
	q.items = nil
	q.byOrder = make(map[int]*wake)
}

type wakeHeap []*wake

func (h wakeHeap) Len() int { return len(h) }

func (h wakeHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h wakeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *wakeHeap) Push(x any) {
	w := x.(*wake)
	w.index = len(*h)
	*h = append(*h, w)
}

func (h *wakeHeap) Pop() any {
	old := *h
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	w.index = -1
	*h = old[:n-1]
	return w
}
