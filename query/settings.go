package query

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// PathCostType selects the heuristic distance metric.
type PathCostType uint8

const (
	Manhattan PathCostType = iota
	Euclidean
)

func (t PathCostType) String() string {
	switch t {
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	}
	return fmt.Sprintf("PathCostType(%d)", uint8(t))
}

// ParsePathCostType parses "manhattan" or "euclidean".
func ParsePathCostType(s string) (PathCostType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manhattan":
		return Manhattan, nil
	case "euclidean":
		return Euclidean, nil
	}
	return 0, errors.Errorf("unknown path cost type %q", s)
}

// Settings tunes one search. The search only reads it.
type Settings struct {
	PathCostType PathCostType `json:"path_cost_type"`

	// UseUnitCost charges UnitCost per step instead of the distance between cells.
	UseUnitCost bool    `json:"use_unit_cost"`
	UnitCost    float32 `json:"unit_cost"`

	// EstimateWeight scales the heuristic; values above 1 trade optimality for speed.
	EstimateWeight float32 `json:"estimate_weight"`

	// NodeSizeCompensation discounts cost and heuristic for coarse cells.
	NodeSizeCompensation float32 `json:"node_size_compensation"`

	SmoothingIterations int  `json:"smoothing_iterations"`
	DebugOpenNodes      bool `json:"debug_open_nodes"`

	// MaxIterations caps expansions; 0 is unlimited.
	MaxIterations int `json:"max_iterations"`
}

// DefaultSettings 返回默认的寻路配置
func DefaultSettings() Settings {
	return Settings{
		PathCostType:         Euclidean,
		UnitCost:             1,
		EstimateWeight:       1,
		NodeSizeCompensation: 1,
	}
}

// Validate rejects settings that would break the search.
func (s Settings) Validate() error {
	if s.PathCostType > Euclidean {
		return errors.Errorf("invalid path cost type %d", s.PathCostType)
	}
	if s.UseUnitCost && s.UnitCost <= 0 {
		return errors.New("unit cost must be positive")
	}
	if s.EstimateWeight < 0 {
		return errors.New("estimate weight must not be negative")
	}
	if s.NodeSizeCompensation < 0 || s.NodeSizeCompensation > 1 {
		return errors.New("node size compensation must be within [0, 1]")
	}
	if s.SmoothingIterations < 0 {
		return errors.New("smoothing iterations must not be negative")
	}
	if s.MaxIterations < 0 {
		return errors.New("max iterations must not be negative")
	}
	return nil
}
