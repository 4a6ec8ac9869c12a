package ufbx

import "github.com/ufbxgo/ufbx/internal/propsys"

// FindReal looks up a real-valued (float) property on n, walking its
// template/global defaults chain, returning def if absent.
func (n *Node) FindReal(name string, def float64) float64 {
	if n.Props == nil {
		return def
	}
	if p, ok := n.Props.Find(name); ok {
		return p.ValueReal
	}
	return def
}

// FindVec3 looks up a vec3/color property, returning def if absent.
func (n *Node) FindVec3(name string, def [3]float64) [3]float64 {
	if n.Props == nil {
		return def
	}
	if p, ok := n.Props.Find(name); ok && (p.Type == propsys.TypeVec3 || p.Type == propsys.TypeColor) {
		return p.ValueVec3
	}
	return def
}

// FindString looks up a string property, returning def if absent.
func (n *Node) FindString(name, def string) string {
	if n.Props == nil {
		return def
	}
	if p, ok := n.Props.Find(name); ok && p.Type == propsys.TypeString {
		return p.ValueStr
	}
	return def
}

// FindInt looks up an int/bool property, returning def if absent.
func (n *Node) FindInt(name string, def int64) int64 {
	if n.Props == nil {
		return def
	}
	if p, ok := n.Props.Find(name); ok {
		return p.ValueInt
	}
	return def
}
