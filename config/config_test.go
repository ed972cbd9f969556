package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o0olele/svon-go/octree"
	"github.com/o0olele/svon-go/query"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	settings, err := cfg.Search.Settings()
	require.NoError(t, err)
	assert.Equal(t, query.DefaultSettings(), settings)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svon.yaml")
	writeConfig(t, path, `
search:
  path_cost_type: manhattan
  smoothing_iterations: 2
volume:
  bounds:
    min: {x: 0, y: 0, z: 0}
    max: {x: 16, y: 16, z: 16}
  layers: 3
  obstacles:
    - center: {x: 8, y: 8, z: 8}
      size: {x: 2, y: 2, z: 16}
server:
  addr: ":9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	settings, err := cfg.Search.Settings()
	require.NoError(t, err)
	assert.Equal(t, query.Manhattan, settings.PathCostType)
	assert.Equal(t, 2, settings.SmoothingIterations)
	assert.Equal(t, float32(1), settings.EstimateWeight, "untouched fields keep defaults")

	assert.Equal(t, 3, cfg.Volume.Layers)
	assert.Equal(t, float32(16), cfg.Volume.Bounds.Max.X)
	require.Len(t, cfg.Volume.Obstacles, 1)
	assert.Equal(t, float32(2), cfg.Volume.Obstacles[0].Size.X)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Server.BatchLimit)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"layers", "volume:\n  layers: 0\n", octree.ErrInvalidLayers},
		{"bounds", "volume:\n  bounds:\n    min: {x: 0, y: 0, z: 0}\n    max: {x: 4, y: 8, z: 4}\n", octree.ErrInvalidBounds},
		{"cost type", "search:\n  path_cost_type: chebyshev\n", nil},
		{"compensation", "search:\n  node_size_compensation: 3\n", nil},
		{"obstacle", "volume:\n  obstacles:\n    - center: {x: 0, y: 0, z: 0}\n      size: {x: 0, y: 1, z: 1}\n", nil},
		{"batch limit", "server:\n  batch_limit: -1\n", nil},
		{"syntax", "search: [\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "svon.yaml")
			writeConfig(t, path, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svon.yaml")
	writeConfig(t, path, "search:\n  smoothing_iterations: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var smoothing atomic.Int64
	smoothing.Store(-1)
	require.NoError(t, Watch(ctx, path, nil, func(cfg Config) {
		smoothing.Store(int64(cfg.Search.SmoothingIterations))
	}))

	// a broken file is skipped
	writeConfig(t, path, "search: [\n")
	writeConfig(t, path, "search:\n  smoothing_iterations: 3\n")

	require.Eventually(t, func() bool {
		return smoothing.Load() == 3
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "svon.yaml"), nil, func(Config) {})
	assert.Error(t, err)
}
