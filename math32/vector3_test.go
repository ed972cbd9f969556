package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector3Lerp(t *testing.T) {
	a := Vector3{X: 0, Y: 0, Z: 0}
	b := Vector3{X: 4, Y: -8, Z: 2}

	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, Vector3{X: 1, Y: -2, Z: 0.5}, a.Lerp(b, 0.25))
	assert.Equal(t, Vector3{X: 3, Y: -6, Z: 1.5}, a.Lerp(b, 0.75))
}

func TestVector3Distances(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 4, Y: 6, Z: 3}

	assert.InDelta(t, 5, a.Distance(b), 1e-6)
	assert.InDelta(t, 7, a.ManhattanDistance(b), 1e-6)
	assert.Zero(t, a.Distance(a))
	assert.Zero(t, a.ManhattanDistance(a))
}

func TestVector3MathglConversion(t *testing.T) {
	v := Vector3{X: 1.5, Y: -2, Z: 3}

	assert.Equal(t, v, FromVec3(v.Vec3()))
	assert.Equal(t, float32(1.5), v.Horizontal().X())
	assert.Equal(t, float32(-2), v.Horizontal().Y())
	assert.True(t, v.ApproxEqual(Vector3{X: 1.5, Y: -2, Z: 3.0000001}))
	assert.False(t, v.ApproxEqual(Vector3{X: 1.5, Y: -2, Z: 3.1}))
}

func TestVector3iHelpers(t *testing.T) {
	v := Vector3i{X: 5, Y: 2, Z: 7}

	assert.Equal(t, Vector3i{X: 2, Y: 1, Z: 3}, v.Shr(1))
	assert.True(t, v.InRange(8))
	assert.False(t, v.InRange(7))
	assert.False(t, v.Add(Vector3i{X: -6}).InRange(8))
	assert.Equal(t, Vector3i{X: 5, Y: 9, Z: 7}, v.Set(1, 9))
	assert.Equal(t, int32(7), v.Get(2))
}

func TestClampAndFloor(t *testing.T) {
	assert.Equal(t, int32(0), Clamp[int32](-3, 0, 3))
	assert.Equal(t, int32(3), Clamp[int32](9, 0, 3))
	assert.Equal(t, float32(1.5), Clamp[float32](1.5, 0, 3))
	assert.Equal(t, int32(-1), FloorToInt(-0.5))
	assert.Equal(t, int32(2), FloorToInt(2.99))
}
