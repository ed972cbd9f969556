package geometry

import "github.com/o0olele/svon-go/math32"

// Box is a solid obstacle given by its center and full extents.
type Box struct {
	Center math32.Vector3 `json:"center" yaml:"center"`
	Size   math32.Vector3 `json:"size" yaml:"size"`
}

// GetBounds returns the bounding box of the box
func (b *Box) GetBounds() AABB {
	halfSize := b.Size.Scale(0.5)
	return AABB{
		b.Center.Sub(halfSize),
		b.Center.Add(halfSize),
	}
}

// BlocksAABB reports whether the box fills part of the interior of aabb.
func (b *Box) BlocksAABB(aabb AABB) bool {
	bounds := b.GetBounds()
	return bounds.Overlaps(aabb)
}

// ContainsPoint checks if the point is inside the box
func (b *Box) ContainsPoint(point math32.Vector3) bool {
	bounds := b.GetBounds()
	return bounds.Contains(point)
}
