package builder

import (
	"time"

	"github.com/o0olele/svon-go/geometry"
)

// 文件格式常量
const (
	NAVIGATION_FILE_MAGIC   = 0x53564F4E // "SVON"
	NAVIGATION_FILE_VERSION = 1
)

// FileHeader 导航文件头
type FileHeader struct {
	Magic   uint32 // 文件魔数
	Version uint32 // 版本号
}

// NavigationFileInfo 导航文件信息
type NavigationFileInfo struct {
	Filename   string        `json:"filename"`
	FileSize   int64         `json:"file_size"`
	Version    uint32        `json:"version"`
	Bounds     geometry.AABB `json:"bounds"`
	NumLayers  int           `json:"num_layers"`
	NodeCount  int           `json:"node_count"`
	LeafCount  int           `json:"leaf_count"`
	VoxelSize  float32       `json:"voxel_size"`
	LayerSizes []int         `json:"layer_sizes"`
	ModTime    time.Time     `json:"mod_time"`
}

// BuildConfig 构建配置
type BuildConfig struct {
	Bounds     geometry.AABB  `json:"bounds" yaml:"bounds"`
	NumLayers  int            `json:"num_layers" yaml:"num_layers"`
	Obstacles  []geometry.Box `json:"obstacles" yaml:"obstacles"`
	OutputFile string         `json:"output_file" yaml:"output_file"`
}
