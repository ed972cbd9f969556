package octree

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/o0olele/svon-go/geometry"
	"github.com/o0olele/svon-go/math32"
)

const defaultPositionCacheSize = 4096

// Volume is a built sparse voxel octree over a cubic region.
//
// Layer NumLayers()-1 holds the single root node; layer 0 holds the finest
// nodes, each of which may carry a 4x4x4 leaf of subvoxels. A node at layer
// L exists iff its parent at L+1 is subdivided.
//
// After BuildIndexes a Volume is read-only and safe for concurrent queries.
type Volume struct {
	Bounds geometry.AABB
	Layers [][]Node

	index       []map[MortonCode]int32
	positions   *math32.Cache[Link, math32.Vector3]
	initialized bool
}

// NewVolume creates an empty volume; fill Layers then call BuildIndexes.
func NewVolume(bounds geometry.AABB, numLayers int) (*Volume, error) {
	if bounds.IsEmpty() || !bounds.IsCube() {
		return nil, ErrInvalidBounds
	}
	if numLayers < 1 || numLayers > MaxLayers {
		return nil, errors.Wrapf(ErrInvalidLayers, "%d", numLayers)
	}
	return &Volume{
		Bounds: bounds,
		Layers: make([][]Node, numLayers),
	}, nil
}

// BuildIndexes sorts every layer by code and builds the lookup tables.
func (v *Volume) BuildIndexes() {
	if v.initialized {
		return
	}

	v.index = make([]map[MortonCode]int32, len(v.Layers))
	for layer := range v.Layers {
		nodes := v.Layers[layer]
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Link.Code < nodes[j].Link.Code })

		v.index[layer] = make(map[MortonCode]int32, len(nodes))
		for i := range nodes {
			v.index[layer][nodes[i].Link.Code] = int32(i)
		}
	}
	v.positions = math32.NewCache[Link, math32.Vector3](defaultPositionCacheSize)
	v.initialized = true
}

// NumLayers returns the number of node layers.
func (v *Volume) NumLayers() int {
	return len(v.Layers)
}

// NodeCount returns the number of nodes across all layers.
func (v *Volume) NodeCount() int {
	count := 0
	for _, nodes := range v.Layers {
		count += len(nodes)
	}
	return count
}

// GridSize returns the number of cells per axis at a layer.
func (v *Volume) GridSize(layer uint8) int32 {
	return 1 << (len(v.Layers) - 1 - int(layer))
}

// NodeSize returns the edge length of a node at a layer.
func (v *Volume) NodeSize(layer uint8) float32 {
	return v.Bounds.Size().X / float32(v.GridSize(layer))
}

// VoxelSize returns the edge length of a leaf subvoxel.
func (v *Volume) VoxelSize() float32 {
	return v.NodeSize(0) / LeafResolution
}

// NodeBounds returns the world box of the node at layer and code.
func (v *Volume) NodeBounds(layer uint8, code MortonCode) geometry.AABB {
	size := v.NodeSize(layer)
	return geometry.Cube(v.cellMin(DecodeCoord(code), size), size)
}

// SubnodeBounds returns the world box of one subvoxel of a layer-0 node.
func (v *Volume) SubnodeBounds(code MortonCode, sub uint8) geometry.AABB {
	voxel := v.VoxelSize()
	nodeMin := v.cellMin(DecodeCoord(code), v.NodeSize(0))
	return geometry.Cube(nodeMin.Add(scaleCoord(DecodeCoord(MortonCode(sub)), voxel)), voxel)
}

func (v *Volume) cellMin(c math32.Vector3i, size float32) math32.Vector3 {
	return v.Bounds.Min.Add(scaleCoord(c, size))
}

func scaleCoord(c math32.Vector3i, size float32) math32.Vector3 {
	return math32.Vector3{
		X: float32(c.X) * size,
		Y: float32(c.Y) * size,
		Z: float32(c.Z) * size,
	}
}

// GetNode returns the node a link addresses. The subnode is ignored.
func (v *Volume) GetNode(link Link) (*Node, bool) {
	if !link.IsValid() || int(link.Layer) >= len(v.Layers) {
		return nil, false
	}
	if !v.initialized {
		v.BuildIndexes()
	}
	i, ok := v.index[link.Layer][link.Code]
	if !ok {
		return nil, false
	}
	return &v.Layers[link.Layer][i], true
}

// LinkPosition returns the world center of the cell a link addresses.
func (v *Volume) LinkPosition(link Link) (math32.Vector3, bool) {
	node, ok := v.GetNode(link)
	if !ok {
		return math32.Vector3{}, false
	}
	if pos, ok := v.positions.Get(link); ok {
		return pos, true
	}

	var bounds geometry.AABB
	if link.Layer == 0 && node.HasChildren() {
		bounds = v.SubnodeBounds(link.Code, link.Subnode)
	} else {
		bounds = v.NodeBounds(link.Layer, link.Code)
	}
	pos := bounds.Center()
	v.positions.Put(link, pos)
	return pos, true
}

// LinkFromPosition descends from the root to the finest free cell containing
// pos. It fails outside the bounds and inside blocked subvoxels.
func (v *Volume) LinkFromPosition(pos math32.Vector3) (Link, bool) {
	if len(v.Layers) == 0 || !v.Bounds.Contains(pos) {
		return InvalidLink, false
	}

	layer := uint8(len(v.Layers) - 1)
	link := NewLink(layer, v.codeAt(pos, layer), 0)
	for {
		node, ok := v.GetNode(link)
		if !ok {
			return InvalidLink, false
		}
		if !node.HasChildren() {
			return link, true
		}
		if link.Layer == 0 {
			sub := v.subnodeAt(link.Code, pos)
			if node.IsSubnodeBlocked(sub) {
				return InvalidLink, false
			}
			return NewLink(0, link.Code, sub), true
		}
		link = NewLink(link.Layer-1, v.codeAt(pos, link.Layer-1), 0)
	}
}

func (v *Volume) codeAt(pos math32.Vector3, layer uint8) MortonCode {
	return EncodeCoord(gridCoord(pos.Sub(v.Bounds.Min), v.NodeSize(layer), v.GridSize(layer)))
}

func (v *Volume) subnodeAt(code MortonCode, pos math32.Vector3) uint8 {
	nodeMin := v.cellMin(DecodeCoord(code), v.NodeSize(0))
	return uint8(EncodeCoord(gridCoord(pos.Sub(nodeMin), v.VoxelSize(), LeafResolution)))
}

func gridCoord(rel math32.Vector3, size float32, resolution int32) math32.Vector3i {
	return math32.Vector3i{
		X: math32.Clamp(math32.FloorToInt(rel.X/size), 0, resolution-1),
		Y: math32.Clamp(math32.FloorToInt(rel.Y/size), 0, resolution-1),
		Z: math32.Clamp(math32.FloorToInt(rel.Z/size), 0, resolution-1),
	}
}

// CacheStats reports usage of the position cache.
func (v *Volume) CacheStats() math32.CacheStats {
	if v.positions == nil {
		return math32.CacheStats{}
	}
	return v.positions.GetStats()
}

// Validate checks the structural invariants of a loaded volume.
func (v *Volume) Validate() error {
	if v.Bounds.IsEmpty() || !v.Bounds.IsCube() {
		return ErrInvalidBounds
	}
	if len(v.Layers) < 1 || len(v.Layers) > MaxLayers {
		return errors.Wrapf(ErrInvalidLayers, "%d", len(v.Layers))
	}
	if top := v.Layers[len(v.Layers)-1]; len(top) != 1 || top[0].Link.Code != 0 {
		return errors.Wrap(ErrInvalidVolume, "top layer must hold exactly the root")
	}

	v.BuildIndexes()
	for layer, nodes := range v.Layers {
		grid := v.GridSize(uint8(layer))
		for i := range nodes {
			node := &nodes[i]
			if int(node.Link.Layer) != layer {
				return errors.Wrapf(ErrInvalidVolume, "node %d on layer %d claims layer %d", i, layer, node.Link.Layer)
			}
			if !DecodeCoord(node.Link.Code).InRange(grid) {
				return errors.Wrapf(ErrInvalidVolume, "node %s outside grid", node.Link)
			}
			if layer > 0 && node.HasChildren() {
				for c := 0; c < 8; c++ {
					if _, ok := v.GetNode(NewLink(uint8(layer-1), node.Link.Code.Child(c), 0)); !ok {
						return errors.Wrapf(ErrInvalidVolume, "node %s is missing child %d", node.Link, c)
					}
				}
			}
		}
	}
	return nil
}
