package octree

import "github.com/pkg/errors"

// MaxLayers bounds the layer count; the top layer must fit a Morton code.
const MaxLayers = 16

var ErrInvalidVolume = errors.New("invalid volume")
var ErrInvalidBounds = errors.Wrap(ErrInvalidVolume, "bounds must be a non-empty cube")
var ErrInvalidLayers = errors.Wrap(ErrInvalidVolume, "layer count out of range")
