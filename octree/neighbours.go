package octree

import "github.com/o0olele/svon-go/math32"

// Neighbours returns the cells adjacent to the node a link addresses.
//
// A neighbour that is subdivided is replaced by its finest cells touching
// the shared face: layer-0 nodes contribute their free face subvoxels.
func (v *Volume) Neighbours(link Link) []Link {
	node, ok := v.GetNode(link)
	if !ok {
		return nil
	}

	out := make([]Link, 0, numDirections)
	for _, d := range Directions() {
		nl := node.Neighbours[d]
		if !nl.IsValid() {
			continue
		}
		nb, ok := v.GetNode(nl)
		if !ok {
			continue
		}
		if nb.HasChildren() {
			out = v.appendFaceChildren(out, nb, d)
			continue
		}
		out = append(out, nl)
	}
	return out
}

// appendFaceChildren adds the finest cells of nb on the face that looks back
// along d.
func (v *Volume) appendFaceChildren(out []Link, nb *Node, d Direction) []Link {
	axis := d.Axis()
	var side int32
	if !d.Positive() {
		side = 1
	}

	if nb.Link.Layer == 0 {
		for a := int32(0); a < LeafResolution; a++ {
			for b := int32(0); b < LeafResolution; b++ {
				c := faceCoord(axis, side*(LeafResolution-1), a, b)
				sub := uint8(EncodeCoord(c))
				if !nb.IsSubnodeBlocked(sub) {
					out = append(out, NewLink(0, nb.Link.Code, sub))
				}
			}
		}
		return out
	}

	for i := 0; i < 8; i++ {
		if int32(i>>axis)&1 != side {
			continue
		}
		cl := NewLink(nb.Link.Layer-1, nb.Link.Code.Child(i), 0)
		child, ok := v.GetNode(cl)
		if !ok {
			continue
		}
		if child.HasChildren() {
			out = v.appendFaceChildren(out, child, d)
		} else {
			out = append(out, cl)
		}
	}
	return out
}

// faceCoord places fixed on axis and fills the other two axes with a and b.
func faceCoord(axis int, fixed, a, b int32) math32.Vector3i {
	switch axis {
	case 0:
		return math32.Vector3i{X: fixed, Y: a, Z: b}
	case 1:
		return math32.Vector3i{X: a, Y: fixed, Z: b}
	default:
		return math32.Vector3i{X: a, Y: b, Z: fixed}
	}
}

// LeafNeighbours returns the cells adjacent to one leaf subvoxel.
//
// Steps inside the leaf yield the free sibling subvoxel. Steps across the
// leaf face follow the node's neighbour link; when that lands on another
// subdivided layer-0 node the matching subvoxel on its far face is used.
func (v *Volume) LeafNeighbours(link Link) []Link {
	node, ok := v.GetNode(link)
	if !ok {
		return nil
	}

	coord := DecodeCoord(MortonCode(link.Subnode))
	out := make([]Link, 0, numDirections)
	for _, d := range Directions() {
		next := coord.Add(d.Offset())
		if next.InRange(LeafResolution) {
			sub := uint8(EncodeCoord(next))
			if !node.IsSubnodeBlocked(sub) {
				out = append(out, NewLink(0, link.Code, sub))
			}
			continue
		}

		nl := node.Neighbours[d]
		if !nl.IsValid() {
			continue
		}
		nb, ok := v.GetNode(nl)
		if !ok {
			continue
		}
		if nl.Layer == 0 && nb.HasChildren() {
			axis := d.Axis()
			wrapped := next.Set(axis, (next.Get(axis)+LeafResolution)%LeafResolution)
			sub := uint8(EncodeCoord(wrapped))
			if !nb.IsSubnodeBlocked(sub) {
				out = append(out, NewLink(0, nl.Code, sub))
			}
			continue
		}
		if nb.HasChildren() {
			// Coarser neighbours are never subdivided by construction.
			continue
		}
		out = append(out, nl)
	}
	return out
}
