package ufbx

import (
	"testing"

	"github.com/ufbxgo/ufbx/internal/readers"
)

func TestTriangulateFansQuad(t *testing.T) {
	m := &Mesh{
		PolygonVertexIndex: []int32{10, 11, 12, 13},
	}
	face := readers.Face{IndexBegin: 0, NumIndices: 4}

	got := m.Triangulate(nil, face)
	want := []int32{10, 11, 12, 10, 12, 13}
	if len(got) != len(want) {
		t.Fatalf("Triangulate() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Triangulate()[%d] = %d, want %d (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestTriangulateSkipsDegenerateFace(t *testing.T) {
	m := &Mesh{PolygonVertexIndex: []int32{0, 1}}
	face := readers.Face{IndexBegin: 0, NumIndices: 2}

	got := m.Triangulate(nil, face)
	if len(got) != 0 {
		t.Fatalf("Triangulate(degenerate) = %v, want empty", got)
	}
}

func TestVertexPosition(t *testing.T) {
	m := &Mesh{
		Vertices:           []float64{0, 0, 0, 1, 2, 3},
		PolygonVertexIndex: []int32{1, 0},
	}
	x, y, z := m.VertexPosition(0)
	if x != 1 || y != 2 || z != 3 {
		t.Fatalf("VertexPosition(0) = (%v, %v, %v), want (1, 2, 3)", x, y, z)
	}
}
