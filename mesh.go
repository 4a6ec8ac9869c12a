package ufbx

import (
	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/internal/resolve"
)

// Mesh is the public view of a loaded geometry: staged vertex/index
// buffers plus the connected material and skin cluster lists resolve
// filled in.
type Mesh struct {
	Vertices           []float64
	PolygonVertexIndex []int32
	Faces              []readers.Face
	NumBadFaces        int
	Edges              []int32

	Normals, Binormals, Tangents []readers.VertexStream
	UVSets, ColorSets            []readers.VertexStream

	Materials []ElementID
	Skins     []ElementID

	FaceMaterial []int32
}

func newMesh(m *readers.Mesh, g *resolve.Graph) *Mesh {
	return &Mesh{
		Vertices: m.Vertices, PolygonVertexIndex: m.PolygonVertexIndex,
		Faces: m.Faces, NumBadFaces: m.NumBadFaces, Edges: m.Edges,
		Normals: m.Normals, Binormals: m.Binormals, Tangents: m.Tangents,
		UVSets: m.UVSets, ColorSets: m.ColorSets,
		Materials: m.MaterialIDs, Skins: m.SkinIDs,
		FaceMaterial: m.FaceMaterial,
	}
}

// Triangulate appends face's vertex indices to dst as a fan of
// triangles (spec.md §6's `triangulate`): for an N-gon this emits
// (N-2) triangles sharing the face's first vertex, which is correct
// for the convex polygons FBX exporters produce but not for concave
// ones (same restriction the original carries).
func (m *Mesh) Triangulate(dst []int32, face readers.Face) []int32 {
	if face.NumIndices < 3 {
		return dst
	}
	base := m.PolygonVertexIndex[face.IndexBegin]
	for i := int32(1); i < face.NumIndices-1; i++ {
		dst = append(dst,
			base,
			m.PolygonVertexIndex[face.IndexBegin+i],
			m.PolygonVertexIndex[face.IndexBegin+i+1],
		)
	}
	return dst
}

// VertexPosition returns vertex i's xyz, i being an index into
// PolygonVertexIndex (i.e. an "ByPolygonVertex"-space index).
func (m *Mesh) VertexPosition(polyVertIndex int) (x, y, z float64) {
	vi := m.PolygonVertexIndex[polyVertIndex]
	base := int(vi) * 3
	return m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2]
}
