package query

import (
	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
)

// fakeGraph is a hand-wired Graph: every cell is an unsubdivided node with
// explicit adjacency.
type fakeGraph struct {
	layers int
	pos    map[octree.Link]math32.Vector3
	adj    map[octree.Link][]octree.Link
}

func newFakeGraph(layers int) *fakeGraph {
	return &fakeGraph{
		layers: layers,
		pos:    make(map[octree.Link]math32.Vector3),
		adj:    make(map[octree.Link][]octree.Link),
	}
}

func (g *fakeGraph) add(layer uint8, code octree.MortonCode, pos math32.Vector3) octree.Link {
	link := octree.NewLink(layer, code, 0)
	g.pos[link] = pos
	return link
}

func (g *fakeGraph) connect(a, b octree.Link) {
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
}

func (g *fakeGraph) GetNode(link octree.Link) (*octree.Node, bool) {
	if _, ok := g.pos[link]; !ok {
		return nil, false
	}
	return &octree.Node{Link: link, Parent: octree.InvalidLink, FirstChild: octree.InvalidLink}, true
}

func (g *fakeGraph) Neighbours(link octree.Link) []octree.Link     { return g.adj[link] }
func (g *fakeGraph) LeafNeighbours(link octree.Link) []octree.Link { return g.adj[link] }
func (g *fakeGraph) NumLayers() int                                { return g.layers }

func (g *fakeGraph) LinkPosition(link octree.Link) (math32.Vector3, bool) {
	p, ok := g.pos[link]
	return p, ok
}

func vec(x, y, z float32) math32.Vector3 {
	return math32.Vector3{X: x, Y: y, Z: z}
}

// corridor is four cells on a line along X, start first.
func corridor() (*fakeGraph, []octree.Link) {
	g := newFakeGraph(3)
	links := []octree.Link{
		g.add(0, 1, vec(-12, 0.5, 0)),
		g.add(0, 2, vec(-8, 0.5, 0)),
		g.add(0, 3, vec(-4, 0.5, 0)),
		g.add(0, 4, vec(0, 0.5, 0)),
	}
	for i := 1; i < len(links); i++ {
		g.connect(links[i-1], links[i])
	}
	return g, links
}

// grid is an n x n four-connected lattice of unit spacing in the XY plane.
func grid(n int) (*fakeGraph, func(x, y int) octree.Link) {
	g := newFakeGraph(3)
	at := func(x, y int) octree.Link {
		return octree.NewLink(0, octree.MortonCode(x*n+y), 0)
	}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			g.add(0, octree.MortonCode(x*n+y), vec(float32(x), float32(y), 0))
		}
	}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if x+1 < n {
				g.connect(at(x, y), at(x+1, y))
			}
			if y+1 < n {
				g.connect(at(x, y), at(x, y+1))
			}
		}
	}
	return g, at
}
