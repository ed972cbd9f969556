package query

import (
	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

// Graph is the read-only view of a navigation volume the search runs on.
// *octree.Volume implements it.
type Graph interface {
	GetNode(link octree.Link) (*octree.Node, bool)
	Neighbours(link octree.Link) []octree.Link
	LeafNeighbours(link octree.Link) []octree.Link
	LinkPosition(link octree.Link) (math32.Vector3, bool)
	NumLayers() int
}

var _ Graph = (*octree.Volume)(nil)

// OpenNodeObserver receives every link the search opens, with its position.
type OpenNodeObserver func(link octree.Link, pos math32.Vector3)
