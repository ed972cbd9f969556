package builder

import "github.com/o0olele/svon-go/octree"

// linkNeighbours fills the six face links of every node. A link names the
// same-layer node across the face when one exists, else the smallest coarser
// node covering that cell. Faces on the volume border stay invalid.
func linkNeighbours(volume *octree.Volume) {
	numLayers := volume.NumLayers()
	for layer := range volume.Layers {
		grid := volume.GridSize(uint8(layer))
		nodes := volume.Layers[layer]
		for i := range nodes {
			node := &nodes[i]
			coord := octree.DecodeCoord(node.Link.Code)
			for _, d := range octree.Directions() {
				node.Neighbours[d] = octree.InvalidLink

				next := coord.Add(d.Offset())
				if !next.InRange(grid) {
					continue
				}
				for k := layer; k < numLayers; k++ {
					candidate := octree.NewLink(uint8(k), octree.EncodeCoord(next.Shr(uint(k-layer))), 0)
					if _, ok := volume.GetNode(candidate); ok {
						node.Neighbours[d] = candidate
						break
					}
				}
			}
		}
	}
}
