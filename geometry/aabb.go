package geometry

import "github.com/o0olele/svon-go/math32"

// AABB is axis-aligned bounding box
type AABB struct {
	Min math32.Vector3 `json:"min" yaml:"min"`
	Max math32.Vector3 `json:"max" yaml:"max"`
}

// Contains checks if the point is inside the AABB, faces included.
func (aabb *AABB) Contains(point math32.Vector3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}

// Center returns the center of the AABB
func (aabb *AABB) Center() math32.Vector3 {
	return math32.Vector3{
		X: (aabb.Min.X + aabb.Max.X) / 2,
		Y: (aabb.Min.Y + aabb.Max.Y) / 2,
		Z: (aabb.Min.Z + aabb.Max.Z) / 2,
	}
}

// Size returns the size of the AABB
func (aabb *AABB) Size() math32.Vector3 {
	return aabb.Max.Sub(aabb.Min)
}

// Overlaps reports whether the interiors of the two boxes intersect.
// Boxes that only share a face do not overlap.
func (aabb *AABB) Overlaps(other AABB) bool {
	return aabb.Min.X < other.Max.X && aabb.Max.X > other.Min.X &&
		aabb.Min.Y < other.Max.Y && aabb.Max.Y > other.Min.Y &&
		aabb.Min.Z < other.Max.Z && aabb.Max.Z > other.Min.Z
}

// IsEmpty checks if the AABB is empty (invalid)
func (aabb *AABB) IsEmpty() bool {
	return aabb.Min.X >= aabb.Max.X || aabb.Min.Y >= aabb.Max.Y || aabb.Min.Z >= aabb.Max.Z
}

// IsCube reports whether all three extents are equal.
func (aabb *AABB) IsCube() bool {
	size := aabb.Size()
	return math32.Abs(size.X-size.Y) < 1e-4 && math32.Abs(size.X-size.Z) < 1e-4
}

// Cube returns the box of edge length size whose minimum corner is min.
func Cube(min math32.Vector3, size float32) AABB {
	return AABB{Min: min, Max: min.Add(math32.Vector3{X: size, Y: size, Z: size})}
}
