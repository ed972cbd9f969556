package query

import (
	"context"

	"github.com/pkg/errors"

	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

// contextCheckInterval is how many expansions run between context checks.
const contextCheckInterval = 256

// Result summarizes one search.
type Result struct {
	Found bool `json:"found"`
	// Iterations counts expanded links; reaching the goal is not an expansion.
	Iterations int `json:"iterations"`
	// Opened counts links ever opened, the start included.
	Opened int     `json:"opened"`
	Cost   float32 `json:"cost"`
}

// Pathfinder runs A* over a Graph. It keeps no per-search state, so one
// Pathfinder may serve concurrent FindPath calls.
type Pathfinder struct {
	graph    Graph
	settings Settings
	observer OpenNodeObserver
}

// PathfinderOption configures a Pathfinder.
type PathfinderOption func(*Pathfinder)

// WithObserver installs the observer fed when Settings.DebugOpenNodes is set.
func WithObserver(observer OpenNodeObserver) PathfinderOption {
	return func(pf *Pathfinder) {
		pf.observer = observer
	}
}

// NewPathfinder 创建新的寻路器
func NewPathfinder(graph Graph, settings Settings, opts ...PathfinderOption) *Pathfinder {
	pf := &Pathfinder{
		graph:    graph,
		settings: settings,
	}
	for _, opt := range opts {
		opt(pf)
	}
	return pf
}

// Settings returns the settings the pathfinder was built with.
func (pf *Pathfinder) Settings() Settings {
	return pf.settings
}

// FindPath searches from start to goal. On success the smoothed and pruned
// waypoints, from startPos to goalPos, are appended to path (which may be nil).
// On failure path is left untouched.
//
// Invalid or unknown start and goal links fail without an error. A non-nil
// error is returned only when ctx is done or MaxIterations is exhausted.
func (pf *Pathfinder) FindPath(ctx context.Context, start, goal octree.Link, startPos, goalPos math32.Vector3, path *Path) (Result, error) {
	if _, ok := pf.graph.GetNode(start); !ok {
		return Result{}, nil
	}
	if _, ok := pf.graph.GetNode(goal); !ok {
		return Result{}, nil
	}

	s := pf.newSearch(start, goal)
	for s.open.Len() > 0 {
		// popping the goal is not an expansion
		if pf.settings.MaxIterations > 0 && s.iterations >= pf.settings.MaxIterations && s.peek() != goal {
			return s.result(), ErrIterationLimit
		}
		if s.iterations%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return s.result(), errors.Wrap(err, "search aborted")
			}
		}

		pf.step(s)
		if s.found {
			BuildPath(pf.graph, s.cameFrom, goal, startPos, goalPos, pf.settings.SmoothingIterations, path)
			return s.result(), nil
		}
	}
	return s.result(), nil
}

func (pf *Pathfinder) newSearch(start, goal octree.Link) *searchState {
	s := newSearchState(start, goal)
	s.gScore[start] = 0
	s.fScore[start] = pf.settings.EstimateWeight * pf.HeuristicScore(start, goal)
	s.push(start)
	return s
}

// step pops the best open link and, unless it is the goal, relaxes its neighbours.
func (pf *Pathfinder) step(s *searchState) {
	s.current = s.pop()
	if s.current == s.goal {
		s.found = true
		return
	}

	node, ok := pf.graph.GetNode(s.current)
	if !ok {
		return
	}

	var neighbours []octree.Link
	if s.current.Layer == 0 && node.HasChildren() {
		neighbours = pf.graph.LeafNeighbours(s.current)
	} else {
		neighbours = pf.graph.Neighbours(s.current)
	}
	for _, nb := range neighbours {
		pf.processLink(s, nb)
	}
	s.iterations++
}

// processLink relaxes the edge from the current link to neighbour.
func (pf *Pathfinder) processLink(s *searchState, neighbour octree.Link) {
	if !neighbour.IsValid() || s.isClosed(neighbour) {
		return
	}

	if !s.isOpen(neighbour) {
		s.push(neighbour)
		if pf.settings.DebugOpenNodes && pf.observer != nil {
			if pos, ok := pf.graph.LinkPosition(neighbour); ok {
				pf.observer(neighbour, pos)
			}
		}
	}

	if _, ok := s.gScore[s.current]; !ok {
		s.gScore[s.current] = math32.Inf()
	}
	tentative := s.g(s.current) + pf.GetCost(s.current, neighbour)
	if tentative >= s.g(neighbour) {
		return
	}

	s.cameFrom[neighbour] = s.current
	s.gScore[neighbour] = tentative
	s.rekey(neighbour, tentative+pf.settings.EstimateWeight*pf.HeuristicScore(neighbour, s.goal))
}

func (s *searchState) result() Result {
	r := Result{
		Found:      s.found,
		Iterations: s.iterations,
		Opened:     s.opened,
	}
	if s.found {
		r.Cost = s.g(s.goal)
	}
	return r
}
