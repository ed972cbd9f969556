package octree

// Node is one cell of the sparse voxel octree.
//
// All fields are fixed size so that nodes can be streamed with encoding/binary.
type Node struct {
	Link   Link
	Parent Link

	// FirstChild is valid iff the node is subdivided. Above layer 0 it
	// addresses child 0 one layer down; at layer 0 it marks that Leaf holds
	// the subvoxel occupancy.
	FirstChild Link

	// Neighbours holds, per Direction, the same-layer node across that face,
	// or the smallest coarser node covering it. Invalid at the volume border.
	Neighbours [numDirections]Link

	// Leaf is the occupancy of the 4x4x4 subvoxels of a subdivided layer-0
	// node, one bit per subnode index; a set bit is blocked.
	Leaf uint64
}

// HasChildren reports whether the node is subdivided.
func (n *Node) HasChildren() bool {
	return n.FirstChild.IsValid()
}

// IsSubnodeBlocked reports whether subvoxel sub of a leaf is occupied.
func (n *Node) IsSubnodeBlocked(sub uint8) bool {
	return n.Leaf&(1<<(sub&(LeafSubnodes-1))) != 0
}

// IsFullyBlocked reports whether every subvoxel of a leaf is occupied.
func (n *Node) IsFullyBlocked() bool {
	return n.HasChildren() && n.Link.Layer == 0 && n.Leaf == ^uint64(0)
}
