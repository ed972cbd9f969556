package query

import (
	"container/heap"

	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

// searchState is everything one FindPath call mutates. It is never shared.
type searchState struct {
	start octree.Link
	goal  octree.Link

	open     nodeHeap
	inOpen   map[octree.Link]*heapNode
	closed   map[octree.Link]struct{}
	cameFrom map[octree.Link]octree.Link
	gScore   map[octree.Link]float32
	fScore   map[octree.Link]float32

	current    octree.Link
	seq        uint64
	found      bool
	iterations int
	opened     int
}

func newSearchState(start, goal octree.Link) *searchState {
	return &searchState{
		start:    start,
		goal:     goal,
		current:  octree.InvalidLink,
		inOpen:   make(map[octree.Link]*heapNode),
		closed:   make(map[octree.Link]struct{}),
		cameFrom: make(map[octree.Link]octree.Link),
		gScore:   make(map[octree.Link]float32),
		fScore:   make(map[octree.Link]float32),
	}
}

func (s *searchState) isOpen(link octree.Link) bool {
	_, ok := s.inOpen[link]
	return ok
}

func (s *searchState) isClosed(link octree.Link) bool {
	_, ok := s.closed[link]
	return ok
}

// g returns the best known cost to link, +Inf when unknown.
func (s *searchState) g(link octree.Link) float32 {
	if v, ok := s.gScore[link]; ok {
		return v
	}
	return math32.Inf()
}

// push opens link with its current f-score, or +Inf.
func (s *searchState) push(link octree.Link) {
	f, ok := s.fScore[link]
	if !ok {
		f = math32.Inf()
	}
	item := &heapNode{link: link, fScore: f, seq: s.seq}
	s.seq++
	s.inOpen[link] = item
	s.opened++
	heap.Push(&s.open, item)
}

// rekey updates the f-score of an open link and restores heap order.
// The link keeps its insertion sequence.
func (s *searchState) rekey(link octree.Link, f float32) {
	s.fScore[link] = f
	if item, ok := s.inOpen[link]; ok {
		item.fScore = f
		heap.Fix(&s.open, item.index)
	}
}

// peek returns the best open link without removing it.
func (s *searchState) peek() octree.Link {
	return s.open[0].link
}

// pop moves the best open link to the closed set.
func (s *searchState) pop() octree.Link {
	item := heap.Pop(&s.open).(*heapNode)
	delete(s.inOpen, item.link)
	s.closed[item.link] = struct{}{}
	return item.link
}
