package ufbx

import (
	"testing"

	"github.com/ufbxgo/ufbx/internal/finalize"
	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/internal/resolve"
)

func TestAssembleSceneComposesWorldMatrices(t *testing.T) {
	g := &resolve.Graph{
		Models: map[readers.ElementID]*readers.Model{
			0: {NodeHeader: readers.NodeHeader{ID: 0, Name: "Root", LocalScaling: [3]float64{1, 1, 1}}},
			1: {NodeHeader: readers.NodeHeader{
				ID: 1, Name: "Parent", HasParent: true, ParentID: 0,
				LocalTranslation: [3]float64{1, 0, 0}, LocalScaling: [3]float64{1, 1, 1},
			}},
			2: {NodeHeader: readers.NodeHeader{
				ID: 2, Name: "Child", HasParent: true, ParentID: 1,
				LocalTranslation: [3]float64{0, 2, 0}, LocalScaling: [3]float64{1, 1, 1},
			}},
		},
		Meshes:     map[readers.ElementID]*readers.Mesh{},
		Materials:  map[readers.ElementID]*readers.Material{},
		AnimStacks: map[readers.ElementID]*readers.AnimStack{},
	}
	fin := &finalize.Result{Nodes: []finalize.Node{
		{ID: 0},
		{ID: 1, ParentID: 0, HasParent: true},
		{ID: 2, ParentID: 1, HasParent: true},
	}}

	s := assembleScene(g, fin, 7400, false, docHeader{Creator: "test"})

	child := s.FindNode(2)
	if child == nil {
		t.Fatal("FindNode(2) = nil")
	}
	// Child's world position should be Parent's translation (1,0,0) plus
	// its own local translation (0,2,0) = (1,2,0).
	if !approxEqual(child.WorldMatrix[12], 1) || !approxEqual(child.WorldMatrix[13], 2) {
		t.Fatalf("child world translation = (%v, %v), want (1, 2)", child.WorldMatrix[12], child.WorldMatrix[13])
	}

	root := s.Root()
	if root == nil || root.ID != 0 {
		t.Fatalf("Root() = %+v, want id 0", root)
	}
}

func TestAssembleSceneMetadata(t *testing.T) {
	g := &resolve.Graph{
		Models:     map[readers.ElementID]*readers.Model{},
		Meshes:     map[readers.ElementID]*readers.Mesh{},
		Materials:  map[readers.ElementID]*readers.Material{},
		AnimStacks: map[readers.ElementID]*readers.AnimStack{},
	}
	fin := &finalize.Result{}

	s := assembleScene(g, fin, 7500, true, docHeader{Creator: "Blender", Author: "Jane", Settings: Settings{UpAxis: 1, UnitScaleFactor: 1}})

	if s.Metadata.Version != 7500 || !s.Metadata.ASCII || s.Metadata.Creator != "Blender" || s.Metadata.Author != "Jane" {
		t.Fatalf("Metadata = %+v, unexpected", s.Metadata)
	}
	if s.Settings.UpAxis != 1 {
		t.Fatalf("Settings.UpAxis = %v, want 1", s.Settings.UpAxis)
	}
}
