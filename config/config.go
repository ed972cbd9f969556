// Package config loads the YAML configuration shared by the CLI and server.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/o0olele/svon-go/geometry"
	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
	"github.com/o0olele/svon-go/query"
)

// Config is the root of a configuration file.
type Config struct {
	// Search tunes every path search.
	Search SearchConfig `json:"search" yaml:"search"`

	// Volume describes the scene to rasterize.
	Volume VolumeConfig `json:"volume" yaml:"volume"`

	// Server configures the HTTP API.
	Server ServerConfig `json:"server" yaml:"server"`
}

type SearchConfig struct {
	PathCostType         string  `json:"path_cost_type" yaml:"path_cost_type"`
	UseUnitCost          bool    `json:"use_unit_cost" yaml:"use_unit_cost"`
	UnitCost             float32 `json:"unit_cost" yaml:"unit_cost"`
	EstimateWeight       float32 `json:"estimate_weight" yaml:"estimate_weight"`
	NodeSizeCompensation float32 `json:"node_size_compensation" yaml:"node_size_compensation"`
	SmoothingIterations  int     `json:"smoothing_iterations" yaml:"smoothing_iterations"`
	DebugOpenNodes       bool    `json:"debug_open_nodes" yaml:"debug_open_nodes"`
	MaxIterations        int     `json:"max_iterations" yaml:"max_iterations"`
}

type VolumeConfig struct {
	Bounds    geometry.AABB  `json:"bounds" yaml:"bounds"`
	Layers    int            `json:"layers" yaml:"layers"`
	Obstacles []geometry.Box `json:"obstacles" yaml:"obstacles"`
}

type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	NavFile        string   `json:"nav_file" yaml:"nav_file"`
	BatchLimit     int      `json:"batch_limit" yaml:"batch_limit"`
}

// DefaultConfig returns a configuration for a 64-unit scene with no obstacles.
func DefaultConfig() Config {
	defaults := query.DefaultSettings()
	return Config{
		Search: SearchConfig{
			PathCostType:         defaults.PathCostType.String(),
			UseUnitCost:          defaults.UseUnitCost,
			UnitCost:             defaults.UnitCost,
			EstimateWeight:       defaults.EstimateWeight,
			NodeSizeCompensation: defaults.NodeSizeCompensation,
			SmoothingIterations:  defaults.SmoothingIterations,
			DebugOpenNodes:       defaults.DebugOpenNodes,
			MaxIterations:        defaults.MaxIterations,
		},
		Volume: VolumeConfig{
			Bounds: geometry.AABB{
				Min: math32.Vector3{X: -32, Y: -32, Z: -32},
				Max: math32.Vector3{X: 32, Y: 32, Z: 32},
			},
			Layers: 4,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			BatchLimit:     8,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "validate config %s", path)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Search.Settings(); err != nil {
		return errors.Wrap(err, "search")
	}
	if c.Volume.Bounds.IsEmpty() || !c.Volume.Bounds.IsCube() {
		return errors.Wrap(octree.ErrInvalidBounds, "volume")
	}
	if c.Volume.Layers < 1 || c.Volume.Layers > octree.MaxLayers {
		return errors.Wrapf(octree.ErrInvalidLayers, "volume: %d", c.Volume.Layers)
	}
	for i, box := range c.Volume.Obstacles {
		if box.Size.X <= 0 || box.Size.Y <= 0 || box.Size.Z <= 0 {
			return errors.Errorf("volume: obstacle %d has a non-positive size", i)
		}
	}
	if c.Server.BatchLimit < 0 {
		return errors.New("server: batch limit must not be negative")
	}
	return nil
}

// Settings converts the section to search settings.
func (s SearchConfig) Settings() (query.Settings, error) {
	costType, err := query.ParsePathCostType(s.PathCostType)
	if err != nil {
		return query.Settings{}, err
	}
	settings := query.Settings{
		PathCostType:         costType,
		UseUnitCost:          s.UseUnitCost,
		UnitCost:             s.UnitCost,
		EstimateWeight:       s.EstimateWeight,
		NodeSizeCompensation: s.NodeSizeCompensation,
		SmoothingIterations:  s.SmoothingIterations,
		DebugOpenNodes:       s.DebugOpenNodes,
		MaxIterations:        s.MaxIterations,
	}
	return settings, settings.Validate()
}
