package readers

import (
	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/propsys"
)

// fillNodeHeader populates the transform-pivot properties and id/name
// common to every Model/Mesh/Light/Bone record (spec.md §3: "Model/
// Mesh/Light/Bone all embed a common Node header").
func fillNodeHeader(h *NodeHeader, n *ast.Node, templates *propsys.Props) {
	h.Props = ReadProps(n, templates)
	h.LocalTranslation = vec3Of(h.Props, "Lcl Translation")
	h.LocalRotation = vec3Of(h.Props, "Lcl Rotation")
	h.LocalScaling = vec3Of(h.Props, "Lcl Scaling", 1, 1, 1)
	h.RotationOffset = vec3Of(h.Props, "RotationOffset")
	h.RotationPivot = vec3Of(h.Props, "RotationPivot")
	h.PreRotation = vec3Of(h.Props, "PreRotation")
	h.PostRotation = vec3Of(h.Props, "PostRotation")
	h.ScalingOffset = vec3Of(h.Props, "ScalingOffset")
	h.ScalingPivot = vec3Of(h.Props, "ScalingPivot")
	h.RotationOrder = int32(intOf(h.Props, "RotationOrder", 0))
	h.RawInheritType = int32(intOf(h.Props, "InheritType", 0))
}

func vec3Of(p *propsys.Props, name string, defaults ...float64) [3]float64 {
	var d [3]float64
	if len(defaults) == 3 {
		d = [3]float64{defaults[0], defaults[1], defaults[2]}
	}
	if v, ok := p.Find(name); ok {
		return v.ValueVec3
	}
	return d
}

func intOf(p *propsys.Props, name string, def int64) int64 {
	if v, ok := p.Find(name); ok {
		return v.ValueInt
	}
	return def
}

// ReadModel reads a top-level "Model" node (post-7000) or "Model" node
// under a pre-7000 Objects/Object list.
func ReadModel(n *ast.Node, id ElementID, templates *propsys.Props) *Model {
	m := &Model{}
	m.ID = id
	m.Kind = KindModel
	m.Name = modelName(n)
	fillNodeHeader(&m.NodeHeader, n, templates)
	return m
}

// ReadBone reads a "Model" node whose sub-type is "LimbNode".
func ReadBone(n *ast.Node, id ElementID, templates *propsys.Props) *Bone {
	b := &Bone{}
	b.ID = id
	b.Kind = KindBone
	b.Name = modelName(n)
	fillNodeHeader(&b.NodeHeader, n, templates)
	return b
}

// ModelSubType returns the node's sub-type token (the third scalar
// value on post-7000 Model nodes: id, Name::Class, SubType).
func ModelSubType(n *ast.Node) string {
	return n.ValueString(2)
}

func modelName(n *ast.Node) string {
	raw := n.ValueString(0)
	// Post-7000 encodes "Name::Class"; keep only the name part, matching
	// how templates/merging key on the bare object name.
	for i := 0; i+1 < len(raw); i++ {
		if raw[i] == ':' && raw[i+1] == ':' {
			return raw[:i]
		}
	}
	return raw
}
