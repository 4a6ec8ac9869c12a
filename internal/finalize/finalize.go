// Package finalize performs the last pass over a resolved document
// graph: materializing sentinel index buffers, clamping per-face
// material indices, and flattening the node set into a single ordered
// list (spec.md §4.12, §4.4). It computes no transforms; the root
// package composes each node's matrices from this list.
package finalize

import (
	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/internal/resolve"
)

// MaxChildDepth bounds the hierarchy walk so a cyclic (malformed)
// Connections table cannot hang finalization.
const MaxChildDepth = 1 << 16

// ErrCyclicHierarchy is returned when walking the node tree from the
// root exceeds MaxChildDepth without terminating.
type ErrCyclicHierarchy struct{}

func (ErrCyclicHierarchy) Error() string { return "finalize: cyclic node hierarchy" }

// Node is one flattened scene-graph entry: an element id and its
// parent. Run leaves the matrix fields zero.
type Node struct {
	ID          readers.ElementID
	ParentID    readers.ElementID
	HasParent   bool
	ToParent    [16]float64 // local transform, see transform composition in the root package
	WorldMatrix [16]float64
}

// Result is everything finalize produces from a resolve.Graph.
type Result struct {
	Nodes []Node
}

// Run materializes sentinel buffers, clamps face materials, and
// computes the node list in parent-before-child order, with ToParent
// and WorldMatrix left zero (the root ufbx package's assembleScene
// composes the local matrices and the world matrices itself).
func Run(g *resolve.Graph) (*Result, error) {
	materializeSentinels(g)
	clampFaceMaterials(g)

	res := &Result{}
	if _, ok := nodeOf(g, g.RootID); ok {
		if err := walk(g, g.RootID, readers.ElementID(0), false, res, 0, map[readers.ElementID]bool{}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func nodeOf(g *resolve.Graph, id readers.ElementID) (*readers.NodeHeader, bool) {
	if m, ok := g.Models[id]; ok {
		return &m.NodeHeader, true
	}
	if m, ok := g.Meshes[id]; ok {
		return &m.NodeHeader, true
	}
	if l, ok := g.Lights[id]; ok {
		return &l.NodeHeader, true
	}
	if b, ok := g.Bones[id]; ok {
		return &b.NodeHeader, true
	}
	return nil, false
}

func walk(g *resolve.Graph, id, parentID readers.ElementID, hasParent bool, res *Result, depth int, visiting map[readers.ElementID]bool) error {
	if depth > MaxChildDepth {
		return ErrCyclicHierarchy{}
	}
	if visiting[id] {
		return ErrCyclicHierarchy{}
	}
	visiting[id] = true
	defer delete(visiting, id)

	h, ok := nodeOf(g, id)
	if !ok {
		return nil
	}
	res.Nodes = append(res.Nodes, Node{ID: id, ParentID: parentID, HasParent: hasParent})
	for _, childID := range h.ChildIDs {
		if err := walk(g, childID, id, true, res, depth+1, visiting); err != nil {
			return err
		}
	}
	return nil
}

// materializeSentinels replaces Zero/Consecutive sentinel VertexStreams
// with concrete buffers sized by the mesh's polygon-vertex, edge or face
// count (whichever the stream is indexed by), per spec.md §9's "Sentinel index buffers" redesign note: a deferred
// placeholder is cheap to carry through parsing but must become a real
// buffer before any consumer reads Indices directly.
func materializeSentinels(g *resolve.Graph) {
	for _, m := range g.Meshes {
		n := numPolygonVertices(m)
		materializeStream(&m.VertexCrease, n)
		materializeStream(&m.EdgeCrease, len(m.Edges))
		materializeStream(&m.Smoothing, len(m.Faces))
		materializeStream(&m.MaterialStream, len(m.Faces))
		for i := range m.Normals {
			materializeStream(&m.Normals[i], n)
		}
		for i := range m.Binormals {
			materializeStream(&m.Binormals[i], n)
		}
		for i := range m.Tangents {
			materializeStream(&m.Tangents[i], n)
		}
		for i := range m.UVSets {
			materializeStream(&m.UVSets[i], n)
		}
		for i := range m.ColorSets {
			materializeStream(&m.ColorSets[i], n)
		}
	}
}

func numPolygonVertices(m *readers.Mesh) int {
	return len(m.PolygonVertexIndex)
}

func materializeStream(s *readers.VertexStream, n int) {
	switch s.Sentinel {
	case readers.SentinelZero:
		s.Indices = make([]int32, n)
		s.Sentinel = readers.SentinelOwned
	case readers.SentinelConsecutive:
		idx := make([]int32, n)
		for i := range idx {
			idx[i] = int32(i)
		}
		s.Indices = idx
		s.Sentinel = readers.SentinelOwned
	}
}

// clampFaceMaterials clamps each mesh's per-face material index into
// [0, len(MaterialIDs)) and drops (zeroes) any reference past the
// connected-material count, per spec.md §4.12 point 2.
func clampFaceMaterials(g *resolve.Graph) {
	for _, m := range g.Meshes {
		if len(m.MaterialIDs) == 0 {
			m.FaceMaterial = nil
			continue
		}
		max := int32(len(m.MaterialIDs) - 1)
		for i, idx := range m.FaceMaterial {
			if idx < 0 || idx > max {
				m.FaceMaterial[i] = 0
			}
		}
	}
}
