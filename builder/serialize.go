package builder

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/o0olele/svon-go/octree"
)

var (
	ErrWrongMagic   = errors.New("invalid file format: magic number mismatch")
	ErrWrongVersion = errors.New("unsupported file version")
)

var useGzip = true

// UseGzip toggles compression for Save and Load.
func UseGzip(use bool) {
	useGzip = use
}

// Encode writes the volume in the binary navigation format.
func Encode(w io.Writer, volume *octree.Volume) error {
	header := FileHeader{
		Magic:   NAVIGATION_FILE_MAGIC,
		Version: NAVIGATION_FILE_VERSION,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	// write bounds
	if err := binary.Write(w, binary.LittleEndian, volume.Bounds); err != nil {
		return errors.Wrap(err, "failed to write bounds")
	}

	// write layer count
	if err := binary.Write(w, binary.LittleEndian, uint32(volume.NumLayers())); err != nil {
		return errors.Wrap(err, "failed to write layer count")
	}

	for layer, nodes := range volume.Layers {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(nodes))); err != nil {
			return errors.Wrapf(err, "failed to write node count of layer %d", layer)
		}
		if err := binary.Write(w, binary.LittleEndian, nodes); err != nil {
			return errors.Wrapf(err, "failed to write nodes of layer %d", layer)
		}
	}

	return nil
}

// Decode reads a volume written by Encode and validates it.
func Decode(r io.Reader) (*octree.Volume, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	if header.Magic != NAVIGATION_FILE_MAGIC {
		return nil, ErrWrongMagic
	}
	if header.Version != NAVIGATION_FILE_VERSION {
		return nil, errors.Wrapf(ErrWrongVersion, "version %d", header.Version)
	}

	volume := &octree.Volume{}
	if err := binary.Read(r, binary.LittleEndian, &volume.Bounds); err != nil {
		return nil, errors.Wrap(err, "failed to read bounds")
	}

	var numLayers uint32
	if err := binary.Read(r, binary.LittleEndian, &numLayers); err != nil {
		return nil, errors.Wrap(err, "failed to read layer count")
	}
	if numLayers == 0 || numLayers > octree.MaxLayers {
		return nil, errors.Wrapf(octree.ErrInvalidLayers, "layer count %d", numLayers)
	}

	volume.Layers = make([][]octree.Node, numLayers)
	for layer := range volume.Layers {
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, errors.Wrapf(err, "failed to read node count of layer %d", layer)
		}
		// a layer never holds more nodes than its grid has cells
		if maxNodes := uint64(1) << (3 * (numLayers - 1 - uint32(layer))); uint64(count) > maxNodes {
			return nil, errors.Wrapf(octree.ErrInvalidVolume, "layer %d claims %d nodes", layer, count)
		}
		volume.Layers[layer] = make([]octree.Node, count)
		if err := binary.Read(r, binary.LittleEndian, volume.Layers[layer]); err != nil {
			return nil, errors.Wrapf(err, "failed to read nodes of layer %d", layer)
		}
	}

	if err := volume.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid navigation data")
	}
	return volume, nil
}

// Save writes the volume to filename.
func Save(volume *octree.Volume, filename string) error {
	if err := volume.Validate(); err != nil {
		return errors.Wrap(err, "invalid navigation data")
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	var w io.Writer = buf
	var zw *gzip.Writer
	if useGzip {
		zw = gzip.NewWriter(buf)
		w = zw
	}

	if err := Encode(w, volume); err != nil {
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return errors.Wrap(err, "failed to finish compression")
		}
	}
	if err := buf.Flush(); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return file.Close()
}

// Load reads a volume saved by Save.
func Load(filename string) (*octree.Volume, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if useGzip {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decompress")
		}
		defer zr.Close()
		r = zr
	}

	return Decode(r)
}

// BuildAndSave 构建并保存导航数据（一步到位）
func BuildAndSave(config BuildConfig, logger *slog.Logger) (*octree.Volume, error) {
	b := NewBuilder(config.Bounds, config.NumLayers)
	b.SetLogger(logger)
	b.AddBoxes(config.Obstacles)

	volume, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build navigation data")
	}

	if err := Save(volume, config.OutputFile); err != nil {
		return nil, errors.Wrap(err, "failed to save navigation data")
	}
	return volume, nil
}

// GetFileInfo 获取导航文件信息
func GetFileInfo(filename string) (*NavigationFileInfo, error) {
	stat, err := os.Stat(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get file info")
	}

	volume, err := Load(filename)
	if err != nil {
		return nil, err
	}

	info := &NavigationFileInfo{
		Filename:   filename,
		FileSize:   stat.Size(),
		Version:    NAVIGATION_FILE_VERSION,
		Bounds:     volume.Bounds,
		NumLayers:  volume.NumLayers(),
		NodeCount:  volume.NodeCount(),
		VoxelSize:  volume.VoxelSize(),
		LayerSizes: make([]int, volume.NumLayers()),
		ModTime:    stat.ModTime(),
	}
	for layer, nodes := range volume.Layers {
		info.LayerSizes[layer] = len(nodes)
		if layer == 0 {
			for i := range nodes {
				if nodes[i].HasChildren() {
					info.LeafCount++
				}
			}
		}
	}
	return info, nil
}

// BatchBuild 批量构建多个导航文件
func BatchBuild(configs []BuildConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for i, config := range configs {
		logger.Info("building navigation file", "index", i+1, "total", len(configs), "output", config.OutputFile)
		if _, err := BuildAndSave(config, logger); err != nil {
			return errors.Wrapf(err, "failed to build %s", config.OutputFile)
		}
	}
	return nil
}
