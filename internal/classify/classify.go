// Package classify holds the single array-classification table shared
// by the binary and ASCII front ends. Both parsers track a small parse
// state identifying the nearest interesting ancestor node; looking up
// (state, node name) tells the parser whether the node's values form a
// homogeneous array (and of what element type, with how much zero
// padding) or a scalar tuple. This is what lets two very different wire
// syntaxes build the same internal/ast.Node tree.
package classify

import "github.com/ufbxgo/ufbx/internal/ast"

// State identifies the nearest ancestor node relevant to classifying
// its descendants' values.
type State int32

const (
	StateRoot State = iota
	StateObjects
	StateGeometry
	StateModel
	StateAnimationCurve
	StateDeformer
	StateChannel
	StateLayerElement
	StateTake
	StateTakeObject
	StateConnections
	StateDefinitions
)

// Descriptor is the result of classifying a node: it is an array of
// element type Type, result-lifetime if ResultLifetime, padded with
// PadBegin leading zero elements.
type Descriptor struct {
	Type           ast.ArrayType
	ResultLifetime bool
	PadBegin       int
}

type key struct {
	state State
	name  string
}

// table maps (parent_state, node_name) to an array descriptor. Nodes
// absent from the table are scalar-tuple nodes in that state.
var table = map[key]Descriptor{
	{StateGeometry, "Vertices"}:           {Type: ast.ArrayFloat64, ResultLifetime: true},
	{StateGeometry, "PolygonVertexIndex"}: {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateGeometry, "Edges"}:              {Type: ast.ArrayInt32, ResultLifetime: true},

	{StateLayerElement, "Normals"}:          {Type: ast.ArrayFloat64, ResultLifetime: true, PadBegin: 4},
	{StateLayerElement, "NormalsW"}:         {Type: ast.ArrayFloat64, ResultLifetime: true},
	{StateLayerElement, "Binormals"}:        {Type: ast.ArrayFloat64, ResultLifetime: true, PadBegin: 4},
	{StateLayerElement, "BinormalsW"}:       {Type: ast.ArrayFloat64, ResultLifetime: true},
	{StateLayerElement, "Tangents"}:         {Type: ast.ArrayFloat64, ResultLifetime: true, PadBegin: 4},
	{StateLayerElement, "TangentsW"}:        {Type: ast.ArrayFloat64, ResultLifetime: true},
	{StateLayerElement, "UV"}:               {Type: ast.ArrayFloat64, ResultLifetime: true, PadBegin: 4},
	{StateLayerElement, "UVIndex"}:          {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateLayerElement, "Colors"}:           {Type: ast.ArrayFloat64, ResultLifetime: true, PadBegin: 4},
	{StateLayerElement, "ColorIndex"}:       {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateLayerElement, "Materials"}:        {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateLayerElement, "Smoothing"}:        {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateLayerElement, "VertexCrease"}:     {Type: ast.ArrayFloat64, ResultLifetime: true},
	{StateLayerElement, "EdgeCrease"}:       {Type: ast.ArrayFloat64, ResultLifetime: true},
	{StateLayerElement, "NormalIndex"}:      {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateLayerElement, "BinormalIndex"}:    {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateLayerElement, "TangentIndex"}:     {Type: ast.ArrayInt32, ResultLifetime: true},

	{StateAnimationCurve, "KeyTime"}:          {Type: ast.ArrayInt64, ResultLifetime: true},
	{StateAnimationCurve, "KeyValueFloat"}:    {Type: ast.ArrayFloat32, ResultLifetime: true},
	{StateAnimationCurve, "KeyAttrFlags"}:     {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateAnimationCurve, "KeyAttrDataFloat"}: {Type: ast.ArrayFloat32, ResultLifetime: true},
	{StateAnimationCurve, "KeyAttrRefCount"}:  {Type: ast.ArrayInt32, ResultLifetime: true},

	{StateDeformer, "Indexes"}: {Type: ast.ArrayInt32, ResultLifetime: true},
	{StateDeformer, "Weights"}: {Type: ast.ArrayFloat64, ResultLifetime: true},
	{StateDeformer, "Transform"}:     {Type: ast.ArrayFloat64, ResultLifetime: false},
	{StateDeformer, "TransformLink"}: {Type: ast.ArrayFloat64, ResultLifetime: false},

	{StateTakeObject, "Key"}: {Type: ast.ArrayFloat64, ResultLifetime: true},
}

// Classify looks up the array descriptor for name under state, the
// central function that lets both front ends share one semantic tree.
func Classify(state State, name string) (Descriptor, bool) {
	d, ok := table[key{state, name}]
	return d, ok
}

// ChildState returns the parse state a parser should descend into when
// entering a child named name while in state parent, for the small set
// of names that introduce a new nesting context. Names not listed leave
// the state unchanged for their children.
func ChildState(parent State, name string) State {
	switch name {
	case "Geometry":
		return StateGeometry
	case "Model", "NodeAttribute":
		return StateModel
	case "AnimationCurve":
		return StateAnimationCurve
	case "Deformer":
		return StateDeformer
	case "Channel":
		return StateChannel
	case "Layer", "LayerElementNormal", "LayerElementBinormal",
		"LayerElementTangent", "LayerElementUV", "LayerElementColor",
		"LayerElementMaterial", "LayerElementSmoothing":
		return StateLayerElement
	case "Take":
		return StateTake
	case "Model60", "Object":
		if parent == StateTake {
			return StateTakeObject
		}
	case "Objects":
		return StateObjects
	case "Connections":
		return StateConnections
	case "Definitions":
		return StateDefinitions
	}
	return parent
}
