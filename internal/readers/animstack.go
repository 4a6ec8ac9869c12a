package readers

import "github.com/ufbxgo/ufbx/internal/ast"

// KTimeToSec converts FBX's internal animation tick unit to seconds;
// one second equals 46186158000 ticks.
const KTimeToSec = 1.0 / 46186158000.0

// ReadAnimStack reads an "AnimationStack" (post-7000) node.
func ReadAnimStack(n *ast.Node, id ElementID) *AnimStack {
	s := &AnimStack{ID: id, Name: modelName(n)}
	if lr := n.Child("LocalStart"); lr != nil {
		s.TimeBegin = float64(lr.Value(0).AsInt()) * KTimeToSec
	}
	if lr := n.Child("LocalStop"); lr != nil {
		s.TimeEnd = float64(lr.Value(0).AsInt()) * KTimeToSec
	}
	return s
}

// ReadAnimLayer reads an "AnimationLayer" (post-7000) node.
func ReadAnimLayer(n *ast.Node, id ElementID) *AnimLayer {
	return &AnimLayer{ID: id, Name: modelName(n)}
}

// ReadAnimPropFromCurveNode reads an "AnimationCurveNode" (post-7000),
// which stages an AnimProp whose Name is filled in later from the
// connection that binds it to a property on its target (spec.md §4.11:
// "anim-layer props ... chosen by the connection property name").
func ReadAnimPropFromCurveNode(id ElementID) *AnimProp {
	return &AnimProp{ID: id}
}
