package readers

import (
	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/propsys"
)

// ReadAttribute reads a "NodeAttribute" block's property bag, staged
// for the resolver to proxy onto its owning Model (spec.md §4.11).
func ReadAttribute(n *ast.Node, id ElementID, templates *propsys.Props) *Attribute {
	return &Attribute{
		ID:    id,
		Props: ReadProps(n, templates),
		Kind:  n.ValueString(2),
	}
}

// FillLight applies an Attribute's props onto a Light record. The
// resolver's mergeAttribute calls it when a "Light" attribute connects
// to an id already present in Graph.Lights; no code promotes a Model
// to a Light record.
func FillLight(l *Light, attr *Attribute) {
	if attr == nil || attr.Props == nil {
		return
	}
	l.Color = vec3Of(attr.Props, "Color", 1, 1, 1)
	l.Intensity = floatOf(attr.Props, "Intensity", 100)
	l.LightKind = int32(intOf(attr.Props, "LightType", 0))
}

func floatOf(p *propsys.Props, name string, def float64) float64 {
	if v, ok := p.Find(name); ok {
		if v.Type == propsys.TypeReal {
			return v.ValueReal
		}
		return float64(v.ValueInt)
	}
	return def
}
