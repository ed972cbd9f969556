package math32

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vector3 represents a 3D vector.
type Vector3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// Add adds two vectors.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub subtracts two vectors.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale scales a vector by a scalar.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Distance calculates the straight-line distance between two vectors.
func (v Vector3) Distance(other Vector3) float32 {
	diff := v.Sub(other)
	return float32(math.Sqrt(float64(diff.X*diff.X + diff.Y*diff.Y + diff.Z*diff.Z)))
}

// ManhattanDistance sums the absolute per-axis deltas.
func (v Vector3) ManhattanDistance(other Vector3) float32 {
	return Abs(v.X-other.X) + Abs(v.Y-other.Y) + Abs(v.Z-other.Z)
}

// Length calculates the length of a vector.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Lerp interpolates linearly from v to other; t=0 yields v, t=1 yields other.
func (v Vector3) Lerp(other Vector3, t float32) Vector3 {
	return Vector3{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
		Z: v.Z + (other.Z-v.Z)*t,
	}
}

// Vec3 converts to a mathgl vector.
func (v Vector3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Horizontal drops the Z component.
func (v Vector3) Horizontal() mgl32.Vec2 {
	return mgl32.Vec2{v.X, v.Y}
}

// FromVec3 converts a mathgl vector.
func FromVec3(v mgl32.Vec3) Vector3 {
	return Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// ApproxEqual compares two vectors component-wise within mathgl's default epsilon.
func (v Vector3) ApproxEqual(other Vector3) bool {
	return v.Vec3().ApproxEqual(other.Vec3())
}

// String returns a string representation of the vector.
func (v Vector3) String() string {
	return fmt.Sprintf("[%2f,%2f,%2f]", v.X, v.Y, v.Z)
}

// Get returns the value of the vector at the given axis index.
func (v Vector3) Get(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return 0
}
