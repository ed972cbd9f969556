package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

// NavigationQuery 导航查询器，只负责运行时查询
//
// It resolves world positions to links and runs a Pathfinder per call, so
// it is safe for concurrent use. Settings may be swapped at any time; a
// running search keeps the settings it started with.
type NavigationQuery struct {
	volume   *octree.Volume
	logger   *slog.Logger
	observer OpenNodeObserver

	mu       sync.RWMutex
	settings Settings
}

// NewNavigationQuery 创建新的导航查询器
func NewNavigationQuery(volume *octree.Volume, opts ...Option) (*NavigationQuery, error) {
	if volume == nil {
		return nil, errors.New("nil volume")
	}
	if err := volume.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid navigation data")
	}

	nq := &NavigationQuery{
		volume:   volume,
		logger:   slog.Default(),
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(nq)
	}
	if err := nq.settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	return nq, nil
}

// GetVolume returns the queried volume.
func (nq *NavigationQuery) GetVolume() *octree.Volume {
	return nq.volume
}

// Settings returns the current search settings.
func (nq *NavigationQuery) Settings() Settings {
	nq.mu.RLock()
	defer nq.mu.RUnlock()
	return nq.settings
}

// SetSettings validates and installs new search settings.
func (nq *NavigationQuery) SetSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return errors.Wrap(err, "invalid settings")
	}
	nq.mu.Lock()
	nq.settings = settings
	nq.mu.Unlock()
	return nil
}

// FindPath 查找路径
//
// Errors wrap ErrInvalidLink when an endpoint lies outside the volume or in
// an obstacle, ErrNoPath when the endpoints are disconnected, and
// ErrIterationLimit or the context error when the search was cut short.
func (nq *NavigationQuery) FindPath(ctx context.Context, start, end math32.Vector3) (*Path, Result, error) {
	ctx, span := startFindPathSpan(ctx, start, end)
	defer span.End()

	startTime := time.Now()
	path, res, result, err := nq.findPath(ctx, start, end)
	elapsed := time.Since(startTime)

	recordSearchMetrics(result, res, elapsed, path.Len())
	setFindPathSpanResult(span, res, path.Len(), err)

	if err != nil {
		nq.logger.Info("pathfinding failed",
			"error", err,
			"iterations", res.Iterations,
			"elapsed", elapsed)
		return nil, res, err
	}
	nq.logger.Info("pathfinding complete",
		"iterations", res.Iterations,
		"points", path.Len(),
		"cost", res.Cost,
		"elapsed", elapsed)
	return path, res, nil
}

func (nq *NavigationQuery) findPath(ctx context.Context, start, end math32.Vector3) (*Path, Result, string, error) {
	path := &Path{}

	startLink, ok := nq.volume.LinkFromPosition(start)
	if !ok {
		return path, Result{}, resultInvalid, errors.Wrapf(ErrInvalidLink, "start %s", start)
	}
	endLink, ok := nq.volume.LinkFromPosition(end)
	if !ok {
		return path, Result{}, resultInvalid, errors.Wrapf(ErrInvalidLink, "end %s", end)
	}

	pf := NewPathfinder(nq.volume, nq.Settings(), WithObserver(nq.observer))
	res, err := pf.FindPath(ctx, startLink, endLink, start, end, path)
	if err != nil {
		return path, res, resultAborted, err
	}
	if !res.Found {
		return path, res, resultNotFound, ErrNoPath
	}
	return path, res, resultFound, nil
}

// FindNearestLink returns the link of the free cell containing pos.
func (nq *NavigationQuery) FindNearestLink(pos math32.Vector3) (octree.Link, error) {
	link, ok := nq.volume.LinkFromPosition(pos)
	if !ok {
		return octree.InvalidLink, errors.Wrapf(ErrInvalidLink, "position %s", pos)
	}
	return link, nil
}

// IsWalkable reports whether pos lies in free space inside the volume.
func (nq *NavigationQuery) IsWalkable(pos math32.Vector3) bool {
	_, ok := nq.volume.LinkFromPosition(pos)
	return ok
}

// QueryStats 查询器统计信息
type QueryStats struct {
	NumLayers  int               `json:"num_layers"`
	NodeCount  int               `json:"node_count"`
	LayerSizes []int             `json:"layer_sizes"`
	VoxelSize  float32           `json:"voxel_size"`
	Cache      math32.CacheStats `json:"cache"`
	Settings   Settings          `json:"settings"`
}

// GetStats 获取查询器统计信息
func (nq *NavigationQuery) GetStats() QueryStats {
	stats := QueryStats{
		NumLayers:  nq.volume.NumLayers(),
		NodeCount:  nq.volume.NodeCount(),
		LayerSizes: make([]int, nq.volume.NumLayers()),
		VoxelSize:  nq.volume.VoxelSize(),
		Cache:      nq.volume.CacheStats(),
		Settings:   nq.Settings(),
	}
	for i, nodes := range nq.volume.Layers {
		stats.LayerSizes[i] = len(nodes)
	}
	return stats
}
