package builder

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/o0olele/svon-go/geometry"
	"github.com/o0olele/svon-go/octree"
)

// Builder rasterizes box obstacles into a sparse voxel octree.
type Builder struct {
	bounds    geometry.AABB
	numLayers int
	boxes     []geometry.Box
	logger    *slog.Logger
	volume    *octree.Volume
}

// NewBuilder 创建新的体素八叉树构建器
func NewBuilder(bounds geometry.AABB, numLayers int) *Builder {
	return &Builder{
		bounds:    bounds,
		numLayers: numLayers,
		logger:    slog.Default(),
	}
}

// SetLogger replaces the build logger.
func (b *Builder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// AddBox adds one obstacle.
func (b *Builder) AddBox(box geometry.Box) {
	b.boxes = append(b.boxes, box)
}

// AddBoxes 批量添加障碍物
func (b *Builder) AddBoxes(boxes []geometry.Box) {
	b.boxes = append(b.boxes, boxes...)
}

// GetVolume returns the last built volume, or nil.
func (b *Builder) GetVolume() *octree.Volume {
	return b.volume
}

// Build rasterizes the obstacles, links neighbours and returns the volume.
func (b *Builder) Build() (*octree.Volume, error) {
	startTime := time.Now()

	volume, err := octree.NewVolume(b.bounds, b.numLayers)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create volume")
	}

	b.logger.Info("rasterizing volume",
		"layers", b.numLayers,
		"obstacles", len(b.boxes),
		"voxel_size", volume.VoxelSize())

	rasterStart := time.Now()
	top := uint8(b.numLayers - 1)
	b.rasterize(volume, top, 0, octree.InvalidLink)
	volume.BuildIndexes()
	b.logger.Debug("rasterized", "nodes", volume.NodeCount(), "elapsed", time.Since(rasterStart))

	linkStart := time.Now()
	linkNeighbours(volume)
	b.logger.Debug("linked neighbours", "elapsed", time.Since(linkStart))

	if err := volume.Validate(); err != nil {
		return nil, errors.Wrap(err, "built volume is inconsistent")
	}

	b.volume = volume
	b.logger.Info("volume built", "nodes", volume.NodeCount(), "elapsed", time.Since(startTime))
	return volume, nil
}

// rasterize appends the node at layer/code and, when an obstacle reaches
// into it, its whole subtree.
func (b *Builder) rasterize(volume *octree.Volume, layer uint8, code octree.MortonCode, parent octree.Link) {
	node := octree.Node{
		Link:       octree.NewLink(layer, code, 0),
		Parent:     parent,
		FirstChild: octree.InvalidLink,
	}
	for i := range node.Neighbours {
		node.Neighbours[i] = octree.InvalidLink
	}

	if b.blocked(volume.NodeBounds(layer, code)) {
		if layer == 0 {
			node.FirstChild = octree.NewLink(0, code, 0)
			node.Leaf = b.leafMask(volume, code)
		} else {
			node.FirstChild = octree.NewLink(layer-1, code.Child(0), 0)
			for i := 0; i < 8; i++ {
				b.rasterize(volume, layer-1, code.Child(i), node.Link)
			}
		}
	}

	volume.Layers[layer] = append(volume.Layers[layer], node)
}

func (b *Builder) leafMask(volume *octree.Volume, code octree.MortonCode) uint64 {
	var mask uint64
	for sub := 0; sub < octree.LeafSubnodes; sub++ {
		if b.blocked(volume.SubnodeBounds(code, uint8(sub))) {
			mask |= 1 << sub
		}
	}
	return mask
}

func (b *Builder) blocked(aabb geometry.AABB) bool {
	for i := range b.boxes {
		if b.boxes[i].BlocksAABB(aabb) {
			return true
		}
	}
	return false
}

// GetMemoryUsage 获取构建过程的内存使用情况
func (b *Builder) GetMemoryUsage() BuildMemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := BuildMemoryStats{
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		HeapAlloc:  m.HeapAlloc,
		HeapSys:    m.HeapSys,
		NumGC:      m.NumGC,
	}

	if b.volume != nil {
		stats.Nodes = b.volume.NodeCount()
		for _, node := range b.volume.Layers[0] {
			if node.HasChildren() {
				stats.Leaves++
			}
		}
	}

	return stats
}

// BuildMemoryStats 构建过程的内存统计
type BuildMemoryStats struct {
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	NumGC      uint32 `json:"num_gc"`
	Nodes      int    `json:"nodes"`  // 八叉树节点数量
	Leaves     int    `json:"leaves"` // 细分的叶子数量
}
