// Package ast defines the generic parse tree shared by both FBX front
// ends. A Node is either a scalar-tuple node (up to seven heterogeneous
// values) or an array node (one typed, homogeneous, possibly-padded
// buffer); which shape a given node takes is decided by the array
// classifier (see internal/classify), not by the node itself.
package ast

// ValueKind tags one scalar slot of a non-array Node.
type ValueKind uint8

const (
	ValueEmpty ValueKind = iota
	ValueInt
	ValueFloat
	ValueString
	ValueBool
)

// Value is one heterogeneous scalar slot. Only the field matching Kind
// is meaningful. RawText, when non-empty, is the original decimal
// token text behind a ValueFloat; it lets a float32-typed array
// (KeyAttrDataFloat in particular) parse straight to binary32 with a
// single rounding instead of rounding once to float64 and again on
// narrowing.
type Value struct {
	Kind    ValueKind
	I       int64
	F       float64
	S       string
	B       bool
	RawText string
}

// AsFloat coerces the value to float64 regardless of its native kind,
// used pervasively by object readers that accept either an int or float
// token in a given slot (the ASCII and binary grammars don't always
// agree on which).
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case ValueInt:
		return float64(v.I)
	case ValueFloat:
		return v.F
	case ValueBool:
		if v.B {
			return 1
		}
		return 0
	}
	return 0
}

// AsInt coerces the value to int64.
func (v Value) AsInt() int64 {
	switch v.Kind {
	case ValueInt:
		return v.I
	case ValueFloat:
		return int64(v.F)
	case ValueBool:
		if v.B {
			return 1
		}
		return 0
	}
	return 0
}

// ArrayType identifies the element type of an array-leaf Node.
type ArrayType uint8

const (
	ArrayNone ArrayType = iota
	ArrayBool
	ArrayInt32
	ArrayInt64
	ArrayFloat32
	ArrayFloat64
)

// Array is the decoded homogeneous payload of an array-leaf Node. Only
// one of the typed slices is populated, matching ArrayType. PadBegin
// counts leading zero elements inserted so that a '-1' index into the
// logical (unpadded) sequence dereferences into valid, zeroed data
// instead of requiring a bounds check at every use site.
type Array struct {
	Type     ArrayType
	Bools    []bool
	Int32s   []int32
	Int64s   []int64
	Float32s []float32
	Float64s []float64
	PadBegin int
}

// Len returns the logical element count, excluding any padding.
func (a *Array) Len() int {
	switch a.Type {
	case ArrayBool:
		return len(a.Bools) - a.PadBegin
	case ArrayInt32:
		return len(a.Int32s) - a.PadBegin
	case ArrayInt64:
		return len(a.Int64s) - a.PadBegin
	case ArrayFloat32:
		return len(a.Float32s) - a.PadBegin
	case ArrayFloat64:
		return len(a.Float64s) - a.PadBegin
	}
	return 0
}

// Float64At returns element i (logical index, may be -1 if PadBegin>0)
// coerced to float64, used by generic consumers like property readers
// that don't care about the array's native element type.
func (a *Array) Float64At(i int) float64 {
	idx := a.PadBegin + i
	switch a.Type {
	case ArrayFloat64:
		return a.Float64s[idx]
	case ArrayFloat32:
		return float64(a.Float32s[idx])
	case ArrayInt32:
		return float64(a.Int32s[idx])
	case ArrayInt64:
		return float64(a.Int64s[idx])
	case ArrayBool:
		if a.Bools[idx] {
			return 1
		}
		return 0
	}
	return 0
}

// Int64At returns element i coerced to int64.
func (a *Array) Int64At(i int) int64 {
	idx := a.PadBegin + i
	switch a.Type {
	case ArrayInt64:
		return a.Int64s[idx]
	case ArrayInt32:
		return int64(a.Int32s[idx])
	case ArrayFloat64:
		return int64(a.Float64s[idx])
	case ArrayFloat32:
		return int64(a.Float32s[idx])
	case ArrayBool:
		if a.Bools[idx] {
			return 1
		}
		return 0
	}
	return 0
}

// Node is one element of the parse tree: an interned Name, its Children
// in file order, and either Array (if IsArray) or Values/NumValues.
type Node struct {
	Name     string
	Children []*Node
	IsArray  bool
	Array    Array
	Values   [7]Value
	NumValues int
}

// Child returns the first child named name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child named name, in file order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Value returns scalar slot i, or a Value with ValueEmpty kind if out of
// range.
func (n *Node) Value(i int) Value {
	if i < 0 || i >= n.NumValues {
		return Value{}
	}
	return n.Values[i]
}

// ValueString returns slot i as a string (empty if not a string).
func (n *Node) ValueString(i int) string {
	v := n.Value(i)
	if v.Kind == ValueString {
		return v.S
	}
	return ""
}
