package query

import (
	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

// layerDiscount shrinks scores toward coarse layers so the search prefers
// crossing open space in large cells.
func (pf *Pathfinder) layerDiscount(layer uint8) float32 {
	numLayers := pf.graph.NumLayers()
	if numLayers <= 0 {
		return 1
	}
	return 1 - (float32(layer)/float32(numLayers))*pf.settings.NodeSizeCompensation
}

// HeuristicScore estimates the remaining cost from a to b.
// It is not admissible when NodeSizeCompensation is positive.
func (pf *Pathfinder) HeuristicScore(a, b octree.Link) float32 {
	posA, _ := pf.graph.LinkPosition(a)
	posB, _ := pf.graph.LinkPosition(b)
	return pf.heuristic(posA, posB) * pf.layerDiscount(b.Layer)
}

func (pf *Pathfinder) heuristic(a, b math32.Vector3) float32 {
	if pf.settings.PathCostType == Manhattan {
		return a.ManhattanDistance(b)
	}
	return a.Distance(b)
}

// GetCost returns the cost of stepping from a to its neighbour b.
func (pf *Pathfinder) GetCost(a, b octree.Link) float32 {
	var cost float32
	if pf.settings.UseUnitCost {
		cost = pf.settings.UnitCost
	} else {
		posA, _ := pf.graph.LinkPosition(a)
		posB, _ := pf.graph.LinkPosition(b)
		cost = posA.Distance(posB)
	}
	return cost * pf.layerDiscount(b.Layer)
}
