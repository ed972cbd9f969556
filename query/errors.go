package query

import "errors"

var (
	// ErrIterationLimit is returned when Settings.MaxIterations expansions did not reach the goal.
	ErrIterationLimit = errors.New("search iteration limit reached")

	// ErrInvalidLink is returned when a position does not resolve to a free cell.
	ErrInvalidLink = errors.New("position does not resolve to a free cell")

	// ErrNoPath is returned by NavigationQuery when the search exhausts the graph.
	ErrNoPath = errors.New("no path found")
)
