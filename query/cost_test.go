package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o0olele/svon-go/octree"
)

func TestLayerDiscount(t *testing.T) {
	g := newFakeGraph(4)

	pf := NewPathfinder(g, DefaultSettings())
	assert.Equal(t, float32(1), pf.layerDiscount(0))
	assert.Equal(t, float32(0.5), pf.layerDiscount(2))

	settings := DefaultSettings()
	settings.NodeSizeCompensation = 0
	pf = NewPathfinder(g, settings)
	assert.Equal(t, float32(1), pf.layerDiscount(3))
}

func TestHeuristicScore(t *testing.T) {
	g := newFakeGraph(4)
	a := g.add(0, 1, vec(0, 0, 0))
	b := g.add(0, 2, vec(3, 4, 0))
	coarse := g.add(2, 2, vec(3, 4, 0))

	pf := NewPathfinder(g, DefaultSettings())
	assert.Zero(t, pf.HeuristicScore(a, a))
	assert.InDelta(t, 5, pf.HeuristicScore(a, b), 1e-5)
	assert.InDelta(t, 2.5, pf.HeuristicScore(a, coarse), 1e-5, "discounted by the goal's layer")

	settings := DefaultSettings()
	settings.PathCostType = Manhattan
	pf = NewPathfinder(g, settings)
	assert.InDelta(t, 7, pf.HeuristicScore(a, b), 1e-5)
}

func TestHeuristicScoreSameLinkIsZero(t *testing.T) {
	g := newFakeGraph(4)
	links := []octree.Link{
		g.add(0, 1, vec(3, -2, 7)),
		g.add(2, 5, vec(-6, 1, 0.5)),
	}

	for _, costType := range []PathCostType{Manhattan, Euclidean} {
		for _, compensation := range []float32{0, 0.25, 0.5, 1} {
			settings := DefaultSettings()
			settings.PathCostType = costType
			settings.NodeSizeCompensation = compensation
			pf := NewPathfinder(g, settings)
			for _, link := range links {
				assert.Zero(t, pf.HeuristicScore(link, link), "%s compensation %v %s", costType, compensation, link)
			}
		}
	}
}

func TestGetCost(t *testing.T) {
	g := newFakeGraph(4)
	a := g.add(0, 1, vec(0, 0, 0))
	b := g.add(0, 2, vec(3, 4, 0))
	coarse := g.add(2, 2, vec(3, 4, 0))

	pf := NewPathfinder(g, DefaultSettings())
	assert.InDelta(t, 5, pf.GetCost(a, b), 1e-5)
	assert.InDelta(t, 2.5, pf.GetCost(a, coarse), 1e-5)

	settings := DefaultSettings()
	settings.UseUnitCost = true
	settings.UnitCost = 2
	pf = NewPathfinder(g, settings)
	assert.Equal(t, float32(2), pf.GetCost(a, b))
	assert.Equal(t, float32(1), pf.GetCost(a, coarse))
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"cost type", func(s *Settings) { s.PathCostType = 7 }},
		{"unit cost", func(s *Settings) { s.UseUnitCost = true; s.UnitCost = 0 }},
		{"weight", func(s *Settings) { s.EstimateWeight = -1 }},
		{"compensation above one", func(s *Settings) { s.NodeSizeCompensation = 1.5 }},
		{"compensation below zero", func(s *Settings) { s.NodeSizeCompensation = -0.1 }},
		{"smoothing", func(s *Settings) { s.SmoothingIterations = -1 }},
		{"iterations", func(s *Settings) { s.MaxIterations = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestParsePathCostType(t *testing.T) {
	got, err := ParsePathCostType(" Manhattan ")
	require.NoError(t, err)
	assert.Equal(t, Manhattan, got)

	got, err = ParsePathCostType("euclidean")
	require.NoError(t, err)
	assert.Equal(t, Euclidean, got)
	assert.Equal(t, "euclidean", got.String())

	_, err = ParsePathCostType("chebyshev")
	assert.Error(t, err)
	assert.Equal(t, "PathCostType(9)", PathCostType(9).String())
}
