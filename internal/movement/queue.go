package movement

import (
	"container/heap"

	"github.com/talgya/hex-tactics/internal/world"
)

// node is a frontier entry. priority is the accumulated cost for Dijkstra
// and cost + heuristic for A*.
type node struct {
	coord    world.HexCoord
	cost     int
	priority int
	seq      int // insertion order, keeps pops deterministic on ties
}

type frontier []*node

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(*node))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// queue wraps the heap with a sequence counter.
type queue struct {
	items frontier
	seq   int
}

func (q *queue) push(c world.HexCoord, cost, priority int) {
	q.seq++
	heap.Push(&q.items, &node{coord: c, cost: cost, priority: priority, seq: q.seq})
}

func (q *queue) pop() *node {
	return heap.Pop(&q.items).(*node)
}

func (q *queue) empty() bool {
	return q.items.Len() == 0
}
