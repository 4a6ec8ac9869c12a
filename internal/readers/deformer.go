package readers

import "github.com/ufbxgo/ufbx/internal/ast"

// ReadSkinCluster reads a "Deformer" node whose sub-type is "Cluster":
// vertex indices/weights plus the bind and link transform matrices.
func ReadSkinCluster(n *ast.Node, id ElementID) *SkinCluster {
	c := &SkinCluster{ID: id}
	if idx := n.Child("Indexes"); idx != nil && idx.IsArray {
		c.Indices = intSliceOf(&idx.Array)
	}
	if w := n.Child("Weights"); w != nil && w.IsArray {
		c.Weights = floatSliceOf(&w.Array)
	}
	if t := n.Child("Transform"); t != nil && t.IsArray {
		copyMatrix(&c.Transform, &t.Array)
	}
	if t := n.Child("TransformLink"); t != nil && t.IsArray {
		copyMatrix(&c.TransformLink, &t.Array)
	}
	return c
}

func copyMatrix(dst *[16]float64, a *ast.Array) {
	n := a.Len()
	for i := 0; i < 16 && i < n; i++ {
		dst[i] = a.Float64At(i)
	}
}

// ReadSkinDeformer reads a "Deformer" node whose sub-type is "Skin",
// an aux record that merely lists its cluster ids; the connection
// resolver attaches the clusters to the containing mesh.
func ReadSkinDeformer(id ElementID) *SkinDeformer {
	return &SkinDeformer{ID: id}
}

// DeformerSubType returns a Deformer node's sub-type token (the third
// scalar value, mirroring Model's Name/Class/SubType triple).
func DeformerSubType(n *ast.Node) string {
	return n.ValueString(2)
}
