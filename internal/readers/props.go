package readers

import (
	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/propsys"
)

// ReadProps reads a node's "Properties70" (or legacy "Properties60")
// child into a sorted, deduplicated, default-stripped Props chained to
// defaults. Each property child node carries {name, type, sub_type,
// flags, value...} as its scalar values (70) or {name, type, flags,
// value...} (60); both are handled since pre/post-7000 files alike
// pass through this one reader.
func ReadProps(n *ast.Node, defaults *propsys.Props) *propsys.Props {
	block := n.Child("Properties70")
	legacy := false
	if block == nil {
		block = n.Child("Properties60")
		legacy = true
	}
	var items []propsys.Property
	if block != nil {
		for _, c := range block.Children {
			if p, ok := readOneProperty(c, legacy); ok {
				items = append(items, p)
			}
		}
	}
	items = propsys.SortDedup(items)
	items = propsys.RemoveDefaults(items, defaults)
	return &propsys.Props{Items: items, Defaults: defaults}
}

func readOneProperty(n *ast.Node, legacy bool) (propsys.Property, bool) {
	// Properties70 "P" node shape: name, type, sub_type, flags, value...
	// Properties60 node shape: name IS the node name itself, then
	// type, flags, value... as values.
	var name, typ string
	var valueStart int
	if legacy {
		name = n.Name
		typ = n.ValueString(0)
		valueStart = 2
	} else {
		if n.Name != "P" {
			return propsys.Property{}, false
		}
		name = n.ValueString(0)
		typ = n.ValueString(1)
		valueStart = 4
	}
	if name == "" {
		return propsys.Property{}, false
	}

	kind := propertyKindFor(typ)
	p := propsys.NewProperty(name, kind)
	switch kind {
	case propsys.TypeVec3, propsys.TypeColor:
		p.ValueVec3 = [3]float64{
			n.Value(valueStart).AsFloat(),
			n.Value(valueStart + 1).AsFloat(),
			n.Value(valueStart + 2).AsFloat(),
		}
	case propsys.TypeString:
		p.ValueStr = n.ValueString(valueStart)
	case propsys.TypeReal:
		p.ValueReal = n.Value(valueStart).AsFloat()
	default:
		p.ValueInt = n.Value(valueStart).AsInt()
	}
	return p, true
}

func propertyKindFor(typ string) propsys.PropertyType {
	switch typ {
	case "Color", "ColorRGB":
		return propsys.TypeColor
	case "Vector", "Vector3D", "Lcl Translation", "Lcl Rotation", "Lcl Scaling":
		return propsys.TypeVec3
	case "KString", "object":
		return propsys.TypeString
	case "bool", "Bool":
		return propsys.TypeBool
	case "double", "Number", "Float", "float":
		return propsys.TypeReal
	default:
		return propsys.TypeInt
	}
}
