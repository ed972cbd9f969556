package query

import (
	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

// corridorCos bounds the cosine band in which a waypoint counts as redundant.
const corridorCos = 0.5

// Path is an ordered list of waypoints from start to goal.
type Path struct {
	Points []math32.Vector3 `json:"points"`
}

// Len returns the number of waypoints.
func (p *Path) Len() int {
	return len(p.Points)
}

// Length returns the polyline length.
func (p *Path) Length() float32 {
	var total float32
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Distance(p.Points[i])
	}
	return total
}

// Reset drops all waypoints, keeping the backing array.
func (p *Path) Reset() {
	p.Points = p.Points[:0]
}

// BuildPath reconstructs the route ending at goal from cameFrom, snaps its
// endpoints to startPos and goalPos, smooths and prunes it, and appends the
// result to path in start-to-goal order. A nil path is a no-op.
//
// The start is the link without a cameFrom entry. When start and goal are
// the same link the result is the segment [startPos, goalPos].
func BuildPath(graph Graph, cameFrom map[octree.Link]octree.Link, goal octree.Link, startPos, goalPos math32.Vector3, smoothingIterations int, path *Path) {
	if path == nil {
		return
	}

	// goal first
	points := make([]math32.Vector3, 0, 16)
	current := goal
	for steps := 0; steps <= len(cameFrom); steps++ {
		pos, _ := graph.LinkPosition(current)
		points = append(points, pos)

		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}

	if len(points) < 2 {
		path.Points = append(path.Points, startPos, goalPos)
		return
	}
	points[0] = goalPos
	points[len(points)-1] = startPos

	points = SmoothChaikin(points, smoothingIterations)
	path.Points = append(path.Points, PrunePath(points, goalPos)...)
}

// PrunePath drops near-collinear interior waypoints from a goal-first point
// list and returns the survivors start-first.
//
// A point is dropped, together with the one after it, when both have an X/Y
// cosine similarity with goal strictly inside (-0.5, 0.5) and not exactly
// zero. The last interior point has no interior successor and is dropped on
// its own cosine. The test compares positions, not segment directions, so it
// is only meaningful on corridors that roughly face the goal. Both endpoints
// are always kept.
func PrunePath(points []math32.Vector3, goal math32.Vector3) []math32.Vector3 {
	n := len(points)
	if n <= 2 {
		out := make([]math32.Vector3, n)
		for i := range points {
			out[i] = points[n-1-i]
		}
		return out
	}

	out := make([]math32.Vector3, 0, n)
	out = append(out, points[n-1])
	for i := n - 2; i >= 1; i-- {
		if inCorridor(cosineXY(points[i], goal)) && (i == 1 || inCorridor(cosineXY(points[i-1], goal))) {
			// skip the partner too
			i--
			continue
		}
		out = append(out, points[i])
	}
	return append(out, points[0])
}

func cosineXY(p, goal math32.Vector3) float32 {
	a, b := p.Horizontal(), goal.Horizontal()
	den := a.Len() * b.Len()
	if den == 0 {
		return 0
	}
	return a.Dot(b) / den
}

func inCorridor(v float32) bool {
	return v > -corridorCos && v < corridorCos && v != 0
}
