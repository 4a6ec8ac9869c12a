package resolve

import (
	"testing"

	"github.com/ufbxgo/ufbx/internal/propsys"
	"github.com/ufbxgo/ufbx/internal/readers"
)

func newGraph() *Graph {
	return &Graph{
		Models:     map[readers.ElementID]*readers.Model{},
		Bones:      map[readers.ElementID]*readers.Bone{},
		Meshes:     map[readers.ElementID]*readers.Mesh{},
		Lights:     map[readers.ElementID]*readers.Light{},
		Materials:  map[readers.ElementID]*readers.Material{},
		Attributes: map[readers.ElementID]*readers.Attribute{},
		Deformers:  map[readers.ElementID]*readers.SkinDeformer{},
		Clusters:   map[readers.ElementID]*readers.SkinCluster{},
		AnimStacks: map[readers.ElementID]*readers.AnimStack{},
		AnimLayers: map[readers.ElementID]*readers.AnimLayer{},
		AnimProps:  map[readers.ElementID]*readers.AnimProp{},
		AnimCurves: map[readers.ElementID]*readers.AnimCurve{},
	}
}

func TestResolveHierarchyEdge(t *testing.T) {
	g := newGraph()
	g.Models[1] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 1, Name: "root"}}
	g.Models[2] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 2, Name: "child"}}
	g.Connections = []Connection{{ParentID: 1, ChildID: 2}}

	Resolve(g)

	if !g.Models[2].HasParent || g.Models[2].ParentID != 1 {
		t.Fatalf("child parent not set: %+v", g.Models[2].NodeHeader)
	}
	if len(g.Models[1].ChildIDs) != 1 || g.Models[1].ChildIDs[0] != 2 {
		t.Fatalf("parent child list = %v, want [2]", g.Models[1].ChildIDs)
	}
}

func TestResolveMeshMaterials(t *testing.T) {
	g := newGraph()
	g.Meshes[1] = &readers.Mesh{NodeHeader: readers.NodeHeader{ID: 1}}
	g.Materials[10] = &readers.Material{ID: 10, Name: "Red"}
	g.Materials[11] = &readers.Material{ID: 11, Name: "Blue"}
	g.Connections = []Connection{
		{ParentID: 1, ChildID: 10},
		{ParentID: 1, ChildID: 11},
	}

	Resolve(g)

	if len(g.Meshes[1].MaterialIDs) != 2 {
		t.Fatalf("MaterialIDs = %v, want 2 entries", g.Meshes[1].MaterialIDs)
	}
}

func TestResolveSkinClusterBoneIsNotAHierarchyEdge(t *testing.T) {
	g := newGraph()
	g.Bones[5] = &readers.Bone{NodeHeader: readers.NodeHeader{ID: 5, Name: "Bone1"}}
	g.Clusters[20] = &readers.SkinCluster{ID: 20}
	// Wire format names the bone "child" of the cluster; this must bind
	// SkinCluster.BoneID, not the bone's scene-hierarchy parent.
	g.Connections = []Connection{{ParentID: 20, ChildID: 5}}

	Resolve(g)

	if g.Bones[5].HasParent {
		t.Fatalf("bone gained a hierarchy parent from a binding connection: %+v", g.Bones[5].NodeHeader)
	}
	if !g.Clusters[20].HasBone || g.Clusters[20].BoneID != 5 {
		t.Fatalf("cluster bone binding not set: %+v", g.Clusters[20])
	}
}

func TestResolveDropsClustersWithoutBoundBone(t *testing.T) {
	g := newGraph()
	g.Meshes[1] = &readers.Mesh{NodeHeader: readers.NodeHeader{ID: 1}}
	g.Bones[5] = &readers.Bone{NodeHeader: readers.NodeHeader{ID: 5}}
	g.Clusters[20] = &readers.SkinCluster{ID: 20} // never bound to a bone
	g.Clusters[21] = &readers.SkinCluster{ID: 21}
	g.Deformers[30] = &readers.SkinDeformer{ID: 30}
	g.Connections = []Connection{
		{ParentID: 30, ChildID: 20},
		{ParentID: 30, ChildID: 21},
		{ParentID: 21, ChildID: 5}, // only cluster 21 gets bound
		{ParentID: 1, ChildID: 30},
	}

	Resolve(g)

	if len(g.Meshes[1].SkinIDs) != 1 || g.Meshes[1].SkinIDs[0] != 21 {
		t.Fatalf("SkinIDs = %v, want [21]", g.Meshes[1].SkinIDs)
	}
}

func TestResolveAnimPropSortedByTargetThenName(t *testing.T) {
	g := newGraph()
	g.AnimLayers[1] = &readers.AnimLayer{ID: 1}
	g.AnimProps[10] = &readers.AnimProp{ID: 10, Name: "Z"}
	g.AnimProps[11] = &readers.AnimProp{ID: 11, Name: "A"}
	g.Models[100] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 100}}
	g.Connections = []Connection{
		{ParentID: 1, ChildID: 10},
		{ParentID: 1, ChildID: 11},
		{ParentID: 100, ChildID: 10},
		{ParentID: 100, ChildID: 11},
	}

	Resolve(g)

	props := g.AnimLayers[1].PropIDs
	if len(props) != 2 {
		t.Fatalf("PropIDs = %v, want 2 entries", props)
	}
	if g.AnimProps[props[0]].Name != "A" || g.AnimProps[props[1]].Name != "Z" {
		t.Fatalf("props not sorted by name: %q then %q", g.AnimProps[props[0]].Name, g.AnimProps[props[1]].Name)
	}
}

func TestResolveAnimCurveAxis(t *testing.T) {
	g := newGraph()
	g.AnimProps[1] = &readers.AnimProp{ID: 1}
	g.AnimCurves[10] = &readers.AnimCurve{ID: 10}
	g.AnimCurves[11] = &readers.AnimCurve{ID: 11}
	g.Connections = []Connection{
		{ParentID: 1, ChildID: 10, Prop: "d|X"},
		{ParentID: 1, ChildID: 11, Prop: "d|Y"},
	}

	Resolve(g)

	p := g.AnimProps[1]
	if !p.HasCurve[0] || p.CurveIDs[0] != 10 {
		t.Fatalf("X axis curve not wired: %+v", p)
	}
	if !p.HasCurve[1] || p.CurveIDs[1] != 11 {
		t.Fatalf("Y axis curve not wired: %+v", p)
	}
	if p.HasCurve[2] {
		t.Fatalf("Z axis unexpectedly wired: %+v", p)
	}
}

func TestResolveAttributeProxiesPropsToOwner(t *testing.T) {
	g := newGraph()
	ownerProps := &propsys.Props{}
	attrProps := &propsys.Props{}
	g.Models[1] = &readers.Model{NodeHeader: readers.NodeHeader{ID: 1, Props: ownerProps}}
	g.Attributes[2] = &readers.Attribute{ID: 2, Props: attrProps, Kind: "Null"}
	g.Connections = []Connection{{ParentID: 1, ChildID: 2}}

	Resolve(g)

	if g.Models[1].Props.Defaults != attrProps {
		t.Fatalf("owner Props.Defaults not chained to attribute props")
	}
}
