package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

func TestOpenSetBreaksTiesByInsertionOrder(t *testing.T) {
	a := octree.NewLink(0, 1, 0)
	b := octree.NewLink(0, 2, 0)
	c := octree.NewLink(0, 3, 0)

	s := newSearchState(a, c)
	for _, l := range []octree.Link{a, b, c} {
		s.fScore[l] = 1
		s.push(l)
	}
	s.rekey(c, 1)

	assert.Equal(t, a, s.pop())
	assert.Equal(t, b, s.pop())
	assert.Equal(t, c, s.pop())
	assert.Zero(t, s.open.Len())
	assert.True(t, s.isClosed(a))
	assert.False(t, s.isOpen(a))
}

func TestOpenSetRekey(t *testing.T) {
	a := octree.NewLink(0, 1, 0)
	b := octree.NewLink(0, 2, 0)
	c := octree.NewLink(0, 3, 0)

	s := newSearchState(a, c)
	s.fScore[a] = 2
	s.push(a)
	s.push(b)
	s.fScore[c] = 3
	s.push(c)

	assert.Equal(t, math32.Inf(), s.open[s.inOpen[b].index].fScore, "unknown f-score opens at +Inf")

	s.rekey(b, 1)
	s.rekey(c, 1.5)
	assert.Equal(t, b, s.pop())
	assert.Equal(t, c, s.pop())
	assert.Equal(t, a, s.pop())
	assert.Equal(t, 3, s.opened)
}

func TestUnknownGScoreIsInfinite(t *testing.T) {
	s := newSearchState(octree.NewLink(0, 1, 0), octree.NewLink(0, 2, 0))
	assert.Equal(t, math32.Inf(), s.g(octree.NewLink(0, 9, 0)))
}
