package finalize

import (
	"testing"

	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/internal/resolve"
)

func newGraph() *resolve.Graph {
	return &resolve.Graph{
		Models:     map[readers.ElementID]*readers.Model{},
		Bones:      map[readers.ElementID]*readers.Bone{},
		Meshes:     map[readers.ElementID]*readers.Mesh{},
		Lights:     map[readers.ElementID]*readers.Light{},
		Materials:  map[readers.ElementID]*readers.Material{},
		AnimStacks: map[readers.ElementID]*readers.AnimStack{},
		AnimLayers: map[readers.ElementID]*readers.AnimLayer{},
		AnimProps:  map[readers.ElementID]*readers.AnimProp{},
		AnimCurves: map[readers.ElementID]*readers.AnimCurve{},
		RootID:     0,
	}
}

func TestRunFlattensParentBeforeChild(t *testing.T) {
	g := newGraph()
	g.Models[0] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 0}}
	g.Models[1] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 1, ParentID: 0, HasParent: true}}
	g.Models[2] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 2, ParentID: 1, HasParent: true}}
	g.Models[0].ChildIDs = []readers.ElementID{1}
	g.Models[1].ChildIDs = []readers.ElementID{2}

	res, err := Run(g)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(res.Nodes))
	}
	pos := map[readers.ElementID]int{}
	for i, n := range res.Nodes {
		pos[n.ID] = i
	}
	if pos[0] > pos[1] || pos[1] > pos[2] {
		t.Fatalf("nodes not in parent-before-child order: %+v", res.Nodes)
	}
}

func TestRunDetectsCycle(t *testing.T) {
	g := newGraph()
	g.Models[0] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 0, ChildIDs: []readers.ElementID{1}}}
	g.Models[1] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 1, ParentID: 0, HasParent: true, ChildIDs: []readers.ElementID{0}}}

	_, err := Run(g)
	if _, ok := err.(ErrCyclicHierarchy); !ok {
		t.Fatalf("Run() error = %v (%T), want ErrCyclicHierarchy", err, err)
	}
}

func TestMaterializeSentinelsConsecutive(t *testing.T) {
	g := newGraph()
	g.Meshes[1] = &readers.Mesh{
		NodeHeader:         readers.NodeHeader{ID: 1},
		PolygonVertexIndex: []int32{0, 1, 2},
		Normals: []readers.VertexStream{
			{Sentinel: readers.SentinelConsecutive},
		},
	}

	materializeSentinels(g)

	n := g.Meshes[1].Normals[0]
	if n.Sentinel != readers.SentinelOwned {
		t.Fatalf("Sentinel = %v, want SentinelOwned", n.Sentinel)
	}
	want := []int32{0, 1, 2}
	if len(n.Indices) != len(want) {
		t.Fatalf("Indices = %v, want %v", n.Indices, want)
	}
	for i, v := range want {
		if n.Indices[i] != v {
			t.Fatalf("Indices[%d] = %d, want %d", i, n.Indices[i], v)
		}
	}
}

func TestMaterializeSentinelsZero(t *testing.T) {
	g := newGraph()
	g.Meshes[1] = &readers.Mesh{
		NodeHeader: readers.NodeHeader{ID: 1},
		Faces:      []readers.Face{{IndexBegin: 0, NumIndices: 3}},
		Smoothing:  readers.VertexStream{Sentinel: readers.SentinelZero},
	}

	materializeSentinels(g)

	sm := g.Meshes[1].Smoothing
	if sm.Sentinel != readers.SentinelOwned {
		t.Fatalf("Sentinel = %v, want SentinelOwned", sm.Sentinel)
	}
	if len(sm.Indices) != 1 || sm.Indices[0] != 0 {
		t.Fatalf("Indices = %v, want [0]", sm.Indices)
	}
}

func TestClampFaceMaterialsDropsOutOfRange(t *testing.T) {
	g := newGraph()
	g.Meshes[1] = &readers.Mesh{
		NodeHeader:   readers.NodeHeader{ID: 1},
		MaterialIDs:  []readers.ElementID{100, 101},
		FaceMaterial: []int32{0, 1, 5, -1},
	}

	clampFaceMaterials(g)

	want := []int32{0, 1, 0, 0}
	got := g.Meshes[1].FaceMaterial
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FaceMaterial[%d] = %d, want %d (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestClampFaceMaterialsNoMaterialsClearsBuffer(t *testing.T) {
	g := newGraph()
	g.Meshes[1] = &readers.Mesh{
		NodeHeader:   readers.NodeHeader{ID: 1},
		FaceMaterial: []int32{0, 1},
	}

	clampFaceMaterials(g)

	if g.Meshes[1].FaceMaterial != nil {
		t.Fatalf("FaceMaterial = %v, want nil", g.Meshes[1].FaceMaterial)
	}
}
