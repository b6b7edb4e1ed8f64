package solver

import "container/heap"

// Deque is the double-ended frontier for the uninformed strategies:
// breadth-first pops the front, depth-first pops the back, both push at
// the back.
type Deque struct {
	items []*State
	head  int
}

func (d *Deque) Len() int { return len(d.items) - d.head }

func (d *Deque) PushBack(s *State) {
	d.items = append(d.items, s)
}

func (d *Deque) PopFront() (*State, bool) {
	if d.head >= len(d.items) {
		return nil, false
	}
	s := d.items[d.head]
	d.items[d.head] = nil
	d.head++
	// reclaim the drained prefix once it dominates the backing array
	if d.head > 1024 && d.head*2 >= len(d.items) {
		n := copy(d.items, d.items[d.head:])
		clear(d.items[n:])
		d.items = d.items[:n]
		d.head = 0
	}
	return s, true
}

func (d *Deque) PopBack() (*State, bool) {
	if d.head >= len(d.items) {
		return nil, false
	}
	n := len(d.items) - 1
	s := d.items[n]
	d.items[n] = nil
	d.items = d.items[:n]
	return s, true
}

// stateHeap orders the informed frontier by rank (g+h), lowest first.
type stateHeap []*State

func (h stateHeap) Len() int { return len(h) }

func (h stateHeap) Less(i, j int) bool {
	if h[i].rank != h[j].rank {
		return h[i].rank < h[j].rank
	}
	// equal rank: pop the deeper state first
	return len(h[i].history) > len(h[j].history)
}

func (h stateHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *stateHeap) Push(x any) {
	*h = append(*h, x.(*State))
}

func (h *stateHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return s
}

// PQueue is the priority frontier for informed search.
type PQueue struct {
	h stateHeap
}

func (q *PQueue) Len() int { return len(q.h) }

func (q *PQueue) Push(s *State) {
	heap.Push(&q.h, s)
}

func (q *PQueue) Pop() (*State, bool) {
	if len(q.h) == 0 {
		return nil, false
	}
	return heap.Pop(&q.h).(*State), true
}
