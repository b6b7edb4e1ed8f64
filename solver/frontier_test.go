package solver

import (
	"testing"

	"github.com/matryer/is"

	"github.com/pzielasko/taquin/puzzle"
)

func depthState(depth int) *State {
	return &State{history: make([]puzzle.Direction, depth)}
}

func TestDequeFIFOAndLIFO(t *testing.T) {
	is := is.New(t)
	var d Deque
	a, b, c := depthState(1), depthState(2), depthState(3)
	d.PushBack(a)
	d.PushBack(b)
	d.PushBack(c)
	is.Equal(d.Len(), 3)

	front, ok := d.PopFront()
	is.True(ok)
	is.Equal(front, a)

	back, ok := d.PopBack()
	is.True(ok)
	is.Equal(back, c)

	last, ok := d.PopFront()
	is.True(ok)
	is.Equal(last, b)

	_, ok = d.PopFront()
	is.True(!ok)
	_, ok = d.PopBack()
	is.True(!ok)
	is.Equal(d.Len(), 0)
}

func TestDequeReclaimsDrainedPrefix(t *testing.T) {
	is := is.New(t)
	var d Deque
	for i := 0; i < 5000; i++ {
		d.PushBack(depthState(i))
	}
	for i := 0; i < 5000; i++ {
		s, ok := d.PopFront()
		is.True(ok)
		is.Equal(s.Depth(), i)
	}
	is.Equal(d.Len(), 0)
}

func TestPQueueOrdersByRank(t *testing.T) {
	is := is.New(t)
	var q PQueue
	ranks := []int{9, 3, 7, 1, 5}
	for _, r := range ranks {
		q.Push(&State{rank: r})
	}
	want := []int{1, 3, 5, 7, 9}
	for _, w := range want {
		s, ok := q.Pop()
		is.True(ok)
		is.Equal(s.rank, w)
	}
	_, ok := q.Pop()
	is.True(!ok)
}

func TestPQueueTieBreaksDeeper(t *testing.T) {
	is := is.New(t)
	var q PQueue
	shallow := depthState(2)
	shallow.rank = 4
	deep := depthState(4)
	deep.rank = 4
	q.Push(shallow)
	q.Push(deep)

	first, ok := q.Pop()
	is.True(ok)
	is.Equal(first, deep)
	second, ok := q.Pop()
	is.True(ok)
	is.Equal(second, shallow)
}
