package octree

import (
	"fmt"

	"github.com/o0olele/svon-go/math32"
)

const (
	invalidLayer = 0xFF

	// LeafResolution is the number of subvoxels along each axis of a leaf.
	LeafResolution = 4

	// LeafSubnodes is the number of subvoxels in a leaf.
	LeafSubnodes = LeafResolution * LeafResolution * LeafResolution
)

// Link addresses one cell of the volume: a node at some layer, or for a
// subdivided layer-0 node one of its 64 leaf subvoxels. Subnode is zero for
// every other cell so that equal cells compare equal.
type Link struct {
	Layer   uint8
	Code    MortonCode
	Subnode uint8
}

// InvalidLink is the zero-target link; it never addresses a cell.
var InvalidLink = Link{Layer: invalidLayer}

// NewLink builds a link.
func NewLink(layer uint8, code MortonCode, subnode uint8) Link {
	return Link{Layer: layer, Code: code, Subnode: subnode}
}

// IsValid reports whether the link may address a cell.
func (l Link) IsValid() bool {
	return l.Layer != invalidLayer
}

// NodeLink strips the subnode, yielding the link of the containing node.
func (l Link) NodeLink() Link {
	return Link{Layer: l.Layer, Code: l.Code}
}

func (l Link) String() string {
	if !l.IsValid() {
		return "link(invalid)"
	}
	return fmt.Sprintf("link(%d:%d:%d)", l.Layer, l.Code, l.Subnode)
}

// Direction is one of the six face directions.
type Direction uint8

const (
	PosX Direction = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ

	numDirections = 6
)

var directionOffsets = [numDirections]math32.Vector3i{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Offset returns the unit grid step for the direction.
func (d Direction) Offset() math32.Vector3i {
	return directionOffsets[d]
}

// Axis returns 0, 1 or 2 for X, Y or Z.
func (d Direction) Axis() int {
	return int(d) / 2
}

// Positive reports whether the direction points along the positive axis.
func (d Direction) Positive() bool {
	return d%2 == 0
}

// Directions lists all six face directions in a fixed order.
func Directions() [numDirections]Direction {
	return [numDirections]Direction{PosX, NegX, PosY, NegY, PosZ, NegZ}
}
