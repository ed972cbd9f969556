package builder

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o0olele/svon-go/geometry"
	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

var testBounds = geometry.AABB{Max: math32.Vector3{X: 16, Y: 16, Z: 16}}

// voxelBox blocks exactly the subvoxel [2,3]^3 of the first leaf.
var voxelBox = geometry.Box{
	Center: math32.Vector3{X: 2.5, Y: 2.5, Z: 2.5},
	Size:   math32.Vector3{X: 1, Y: 1, Z: 1},
}

func build(t *testing.T, boxes ...geometry.Box) *octree.Volume {
	t.Helper()
	b := NewBuilder(testBounds, 3)
	b.AddBoxes(boxes)
	v, err := b.Build()
	require.NoError(t, err)
	require.Same(t, v, b.GetVolume())
	return v
}

func TestBuildSubdividesOnlyAroundObstacles(t *testing.T) {
	v := build(t, voxelBox)

	assert.Len(t, v.Layers[2], 1)
	assert.Len(t, v.Layers[1], 8)
	assert.Len(t, v.Layers[0], 8)

	root, ok := v.GetNode(octree.NewLink(2, 0, 0))
	require.True(t, ok)
	assert.True(t, root.HasChildren())
	assert.False(t, root.Parent.IsValid())

	leaf, ok := v.GetNode(octree.NewLink(0, 0, 0))
	require.True(t, ok)
	assert.True(t, leaf.HasChildren())
	assert.Equal(t, uint64(1)<<56, leaf.Leaf)
	assert.Equal(t, octree.NewLink(1, 0, 0), leaf.Parent)

	for code := octree.MortonCode(1); code < 8; code++ {
		n, ok := v.GetNode(octree.NewLink(1, code, 0))
		require.True(t, ok)
		assert.False(t, n.HasChildren(), "layer 1 node %d", code)
	}

	stats := NewBuilder(testBounds, 3).GetMemoryUsage()
	assert.Zero(t, stats.Nodes)
}

func TestBuildCountsLeaves(t *testing.T) {
	b := NewBuilder(testBounds, 3)
	b.AddBox(voxelBox)
	b.AddBox(geometry.Box{
		Center: math32.Vector3{X: 13.5, Y: 13.5, Z: 13.5},
		Size:   math32.Vector3{X: 1, Y: 1, Z: 1},
	})
	_, err := b.Build()
	require.NoError(t, err)

	stats := b.GetMemoryUsage()
	assert.Equal(t, 1+8+16, stats.Nodes)
	assert.Equal(t, 2, stats.Leaves)
}

func TestBuildRejectsBadBounds(t *testing.T) {
	b := NewBuilder(geometry.AABB{Max: math32.Vector3{X: 4, Y: 8, Z: 4}}, 3)
	_, err := b.Build()
	assert.ErrorIs(t, err, octree.ErrInvalidBounds)

	b = NewBuilder(testBounds, 0)
	_, err = b.Build()
	assert.ErrorIs(t, err, octree.ErrInvalidLayers)
}

func TestEncodeDecode(t *testing.T) {
	v := build(t, voxelBox)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, v))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, v.Bounds, got.Bounds)
	assert.Equal(t, v.Layers, got.Layers)

	link, ok := got.LinkFromPosition(math32.Vector3{X: 2.5, Y: 2.5, Z: 1.5})
	require.True(t, ok)
	assert.Equal(t, uint8(0), link.Layer)
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, FileHeader{Magic: 0xDEADBEEF, Version: NAVIGATION_FILE_VERSION}))
	_, err := Decode(&buf)
	assert.ErrorIs(t, err, ErrWrongMagic)

	buf.Reset()
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, FileHeader{Magic: NAVIGATION_FILE_MAGIC, Version: 99}))
	_, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrWrongVersion)
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	v := build(t, voxelBox)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, v))
	_, err := Decode(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	for _, compressed := range []bool{true, false} {
		name := "plain"
		if compressed {
			name = "gzip"
		}
		t.Run(name, func(t *testing.T) {
			UseGzip(compressed)
			t.Cleanup(func() { UseGzip(true) })

			v := build(t, voxelBox)
			file := filepath.Join(t.TempDir(), "scene.svon")
			require.NoError(t, Save(v, file))

			got, err := Load(file)
			require.NoError(t, err)
			assert.Equal(t, v.Layers, got.Layers)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.svon"))
	assert.Error(t, err)
}

func TestBuildAndSaveReportsFileInfo(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scene.svon")
	v, err := BuildAndSave(BuildConfig{
		Bounds:     testBounds,
		NumLayers:  3,
		Obstacles:  []geometry.Box{voxelBox},
		OutputFile: file,
	}, nil)
	require.NoError(t, err)

	info, err := GetFileInfo(file)
	require.NoError(t, err)
	assert.Equal(t, file, info.Filename)
	assert.Positive(t, info.FileSize)
	assert.Equal(t, uint32(NAVIGATION_FILE_VERSION), info.Version)
	assert.Equal(t, 3, info.NumLayers)
	assert.Equal(t, v.NodeCount(), info.NodeCount)
	assert.Equal(t, 1, info.LeafCount)
	assert.Equal(t, []int{8, 8, 1}, info.LayerSizes)
	assert.Equal(t, float32(1), info.VoxelSize)
}

func TestBatchBuild(t *testing.T) {
	dir := t.TempDir()
	configs := []BuildConfig{
		{Bounds: testBounds, NumLayers: 3, OutputFile: filepath.Join(dir, "empty.svon")},
		{Bounds: testBounds, NumLayers: 3, Obstacles: []geometry.Box{voxelBox}, OutputFile: filepath.Join(dir, "voxel.svon")},
	}
	require.NoError(t, BatchBuild(configs, nil))

	for _, cfg := range configs {
		_, err := Load(cfg.OutputFile)
		assert.NoError(t, err, cfg.OutputFile)
	}

	configs = append(configs, BuildConfig{Bounds: testBounds, NumLayers: 0, OutputFile: filepath.Join(dir, "bad.svon")})
	assert.ErrorIs(t, BatchBuild(configs, nil), octree.ErrInvalidLayers)
}
