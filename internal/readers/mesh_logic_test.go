package readers

import "testing"

func TestFaceMaterialFromAllSame(t *testing.T) {
	vs := VertexStream{Mapping: MappingAllSame, Values: []float64{3}}
	got := faceMaterialFrom(vs, 4)
	for i, v := range got {
		if v != 3 {
			t.Fatalf("faceMaterialFrom(AllSame)[%d] = %d, want 3", i, v)
		}
	}
}

func TestFaceMaterialFromByPolygon(t *testing.T) {
	vs := VertexStream{Mapping: MappingByPolygon, Values: []float64{0, 1, 0}}
	got := faceMaterialFrom(vs, 3)
	want := []int32{0, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("faceMaterialFrom(ByPolygon)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPartitionBadFacesMovesShortFacesToTail(t *testing.T) {
	m := &Mesh{Faces: []Face{
		{IndexBegin: 0, NumIndices: 3},
		{IndexBegin: 3, NumIndices: 2}, // bad: degenerate
		{IndexBegin: 5, NumIndices: 4},
	}}
	partitionBadFaces(m)

	if m.NumBadFaces != 1 {
		t.Fatalf("NumBadFaces = %d, want 1", m.NumBadFaces)
	}
	if len(m.Faces) != 3 {
		t.Fatalf("len(Faces) = %d, want 3", len(m.Faces))
	}
	lastGood := len(m.Faces) - m.NumBadFaces
	for _, f := range m.Faces[:lastGood] {
		if f.NumIndices < 3 {
			t.Fatalf("good partition contains a degenerate face: %+v", f)
		}
	}
	for _, f := range m.Faces[lastGood:] {
		if f.NumIndices >= 3 {
			t.Fatalf("bad partition contains a non-degenerate face: %+v", f)
		}
	}
}

func TestReadLayerElementSetsConsecutiveSentinelWhenNoIndexArray(t *testing.T) {
	vs := VertexStream{}
	if vs.Indices == nil {
		vs.Sentinel = SentinelConsecutive
	}
	if vs.Sentinel != SentinelConsecutive {
		t.Fatalf("Sentinel = %v, want SentinelConsecutive", vs.Sentinel)
	}
}

func TestMappingOf(t *testing.T) {
	cases := map[string]Mapping{
		"ByVertex":          MappingByVertex,
		"ByVertice":         MappingByVertex,
		"ByPolygon":         MappingByPolygon,
		"ByEdge":            MappingByEdge,
		"AllSame":           MappingAllSame,
		"ByPolygonVertex":   MappingByPolygonVertex,
		"":                  MappingByPolygonVertex,
	}
	for in, want := range cases {
		if got := mappingOf(in); got != want {
			t.Fatalf("mappingOf(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestReferenceOf(t *testing.T) {
	if referenceOf("IndexToDirect") != ReferenceIndexToDirect {
		t.Fatal("referenceOf(IndexToDirect) != ReferenceIndexToDirect")
	}
	if referenceOf("Direct") != ReferenceDirect {
		t.Fatal("referenceOf(Direct) != ReferenceDirect")
	}
}
