package readers

import (
	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/propsys"
)

// ReadMesh implements spec.md §4.7: vertices + polygon index buffer,
// edges, and per-LayerElement vertex attribute streams (normals, UVs,
// colors, tangents/binormals, smoothing, material, crease).
func ReadMesh(n *ast.Node, id ElementID, templates *propsys.Props) *Mesh {
	m := &Mesh{}
	m.ID = id
	m.Kind = KindMesh
	m.Name = modelName(n)
	fillNodeHeader(&m.NodeHeader, n, templates)

	geom := n // the "Geometry" node itself carries Vertices/PolygonVertexIndex
	if g := n.Child("Geometry"); g != nil {
		geom = g
	}

	if v := geom.Child("Vertices"); v != nil && v.IsArray {
		m.Vertices = floatSliceOf(&v.Array)
	}

	if pvi := geom.Child("PolygonVertexIndex"); pvi != nil && pvi.IsArray {
		raw := intSliceOf(&pvi.Array)
		m.PolygonVertexIndex = make([]int32, len(raw))
		faceStart := int32(0)
		for i, v := range raw {
			if v < 0 {
				real := ^v // bitwise-not un-negates the last index of a polygon
				m.PolygonVertexIndex[i] = real
				numIdx := int32(i) - faceStart + 1
				m.Faces = append(m.Faces, Face{IndexBegin: faceStart, NumIndices: numIdx})
				faceStart = int32(i) + 1
			} else {
				m.PolygonVertexIndex[i] = v
			}
		}
		partitionBadFaces(m)
	}

	if e := geom.Child("Edges"); e != nil && e.IsArray {
		m.Edges = intSliceOf(&e.Array)
	}

	for _, layer := range geom.ChildrenNamed("LayerElementNormal") {
		m.Normals = append(m.Normals, readLayerElement(layer, 3))
	}
	for _, layer := range geom.ChildrenNamed("LayerElementBinormal") {
		m.Binormals = append(m.Binormals, readLayerElement(layer, 3))
	}
	for _, layer := range geom.ChildrenNamed("LayerElementTangent") {
		m.Tangents = append(m.Tangents, readLayerElement(layer, 3))
	}
	for _, layer := range geom.ChildrenNamed("LayerElementUV") {
		m.UVSets = append(m.UVSets, readLayerElement(layer, 2))
	}
	for _, layer := range geom.ChildrenNamed("LayerElementColor") {
		m.ColorSets = append(m.ColorSets, readLayerElement(layer, 4))
	}
	if sm := geom.Child("LayerElementSmoothing"); sm != nil {
		m.Smoothing = readLayerElement(sm, 1)
	}
	if mat := geom.Child("LayerElementMaterial"); mat != nil {
		m.MaterialStream = readLayerElement(mat, 1)
		m.FaceMaterial = faceMaterialFrom(m.MaterialStream, len(m.Faces))
	}

	sortByTypedIndex(m.UVSets)
	sortByTypedIndex(m.ColorSets)

	return m
}

// partitionBadFaces moves faces with fewer than 3 indices to the tail
// of m.Faces (spec.md §4.7 point 1: "polygons with <3 indices are
// pushed to a bad_faces partition at the tail").
func partitionBadFaces(m *Mesh) {
	good := m.Faces[:0]
	var bad []Face
	for _, f := range m.Faces {
		if f.NumIndices >= 3 {
			good = append(good, f)
		} else {
			bad = append(bad, f)
		}
	}
	m.NumBadFaces = len(bad)
	m.Faces = append(good, bad...)
}

func readLayerElement(n *ast.Node, stride int) VertexStream {
	vs := VertexStream{Name: n.Name, Stride: stride}
	if ti := n.Child("Version"); ti != nil {
		// version is uninteresting to the reader; presence check only
		_ = ti
	}
	vs.TypedIndex = int32(firstIntValue(n, "TypedIndex"))
	vs.Mapping = mappingOf(firstStringValue(n, "MappingInformationType"))
	vs.Reference = referenceOf(firstStringValue(n, "ReferenceInformationType"))

	for _, dataName := range []string{"Normals", "Binormals", "Tangents", "UV", "Colors", "Smoothing", "Materials", "VertexCrease", "EdgeCrease"} {
		if d := n.Child(dataName); d != nil && d.IsArray {
			vs.Values = floatSliceOf(&d.Array)
			break
		}
	}
	for _, idxName := range []string{"UVIndex", "ColorIndex", "NormalIndex", "BinormalIndex", "TangentIndex"} {
		if d := n.Child(idxName); d != nil && d.IsArray {
			vs.Indices = intSliceOf(&d.Array)
			break
		}
	}
	if vs.Indices == nil {
		// Direct-referenced streams carry no on-disk index array: each
		// polygon vertex maps to the Nth value directly, i.e. an
		// implicit 0,1,2,... index sequence. Deferring its
		// materialization to internal/finalize (spec.md §9's sentinel
		// index buffer redesign) avoids allocating it for streams no
		// caller ever queries by Indices.
		vs.Sentinel = SentinelConsecutive
	}
	return vs
}

func firstIntValue(n *ast.Node, childName string) int64 {
	c := n.Child(childName)
	if c == nil {
		return 0
	}
	return c.Value(0).AsInt()
}

func firstStringValue(n *ast.Node, childName string) string {
	c := n.Child(childName)
	if c == nil {
		return ""
	}
	return c.ValueString(0)
}

func mappingOf(s string) Mapping {
	switch s {
	case "ByVertex", "ByVertice":
		return MappingByVertex
	case "ByPolygon":
		return MappingByPolygon
	case "ByEdge":
		return MappingByEdge
	case "AllSame":
		return MappingAllSame
	default:
		return MappingByPolygonVertex
	}
}

func referenceOf(s string) ReferenceMode {
	if s == "IndexToDirect" {
		return ReferenceIndexToDirect
	}
	return ReferenceDirect
}

// faceMaterialFrom builds a per-face material index from the
// "AllSame" or "ByPolygon" LayerElementMaterial stream; indices past
// the finalized material count are clamped later, in internal/finalize.
func faceMaterialFrom(vs VertexStream, numFaces int) []int32 {
	if vs.Mapping == MappingAllSame {
		v := int32(0)
		if len(vs.Values) > 0 {
			v = int32(vs.Values[0])
		}
		out := make([]int32, numFaces)
		for i := range out {
			out[i] = v
		}
		return out
	}
	out := make([]int32, numFaces)
	for i := range out {
		if i < len(vs.Values) {
			out[i] = int32(vs.Values[i])
		}
	}
	return out
}

func sortByTypedIndex(sets []VertexStream) {
	for i := 1; i < len(sets); i++ {
		v := sets[i]
		j := i - 1
		for j >= 0 && sets[j].TypedIndex > v.TypedIndex {
			sets[j+1] = sets[j]
			j--
		}
		sets[j+1] = v
	}
}

func floatSliceOf(a *ast.Array) []float64 {
	n := a.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a.Float64At(i)
	}
	return out
}

func intSliceOf(a *ast.Array) []int32 {
	n := a.Len()
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = int32(a.Int64At(i))
	}
	return out
}
