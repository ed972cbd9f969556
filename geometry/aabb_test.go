package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/o0olele/svon-go/math32"
)

func TestAABBOverlapsIgnoresSharedFaces(t *testing.T) {
	a := Cube(math32.Vector3{}, 4)

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"inside", Cube(math32.Vector3{X: 1, Y: 1, Z: 1}, 1), true},
		{"partial", Cube(math32.Vector3{X: 3, Y: 3, Z: 3}, 2), true},
		{"shared face", Cube(math32.Vector3{X: 4}, 4), false},
		{"shared edge", Cube(math32.Vector3{X: 4, Y: 4}, 4), false},
		{"apart", Cube(math32.Vector3{X: 10}, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(a))
		})
	}
}

func TestAABBShape(t *testing.T) {
	cube := Cube(math32.Vector3{X: -2, Y: -2, Z: -2}, 4)
	assert.True(t, cube.IsCube())
	assert.False(t, cube.IsEmpty())
	assert.Equal(t, math32.Vector3{}, cube.Center())
	assert.True(t, cube.Contains(math32.Vector3{X: 2, Y: -2, Z: 0}))
	assert.False(t, cube.Contains(math32.Vector3{X: 2.1}))

	flat := AABB{Max: math32.Vector3{X: 1, Y: 1}}
	assert.True(t, flat.IsEmpty())

	box := AABB{Max: math32.Vector3{X: 1, Y: 2, Z: 1}}
	assert.False(t, box.IsCube())
}

func TestBoxBlocksAABB(t *testing.T) {
	box := Box{Center: math32.Vector3{X: 2.5, Y: 2.5, Z: 2.5}, Size: math32.Vector3{X: 1, Y: 1, Z: 1}}

	assert.Equal(t, AABB{
		Min: math32.Vector3{X: 2, Y: 2, Z: 2},
		Max: math32.Vector3{X: 3, Y: 3, Z: 3},
	}, box.GetBounds())
	assert.True(t, box.BlocksAABB(Cube(math32.Vector3{}, 4)))
	assert.True(t, box.BlocksAABB(Cube(math32.Vector3{X: 2, Y: 2, Z: 2}, 1)))
	assert.False(t, box.BlocksAABB(Cube(math32.Vector3{X: 1, Y: 2, Z: 2}, 1)))
	assert.True(t, box.ContainsPoint(math32.Vector3{X: 2.5, Y: 2.5, Z: 2.5}))
}
