package readers

import "github.com/ufbxgo/ufbx/internal/ast"

// TakeResult is everything ReadTake stages from one pre-7000 "Take"
// block: a stand-in AnimStack/AnimLayer, and one AnimProp+AnimCurve set
// per Model that had a "Channel: T|R|S" block, pre-wired (no connection
// resolution needed, since Takes name their target Model directly by
// string rather than through the Connections table).
type TakeResult struct {
	Stack       *AnimStack
	Layer       *AnimLayer
	TargetNames []string // one per Prop, the Model name the prop applies to
	Props       []*AnimProp
	Curves      []*AnimCurve // flattened, index-parallel to AnimProp.CurveIDs usage
}

// ReadTake flattens a pre-7000 "Take" node's nested
// `Channel: "T"|"R"|"S" { Channel: "X"|"Y"|"Z" { Key: *N {...} } }`
// structure into the same AnimProp/AnimCurve shape the post-7000 reader
// produces, so the rest of the pipeline (resolve, evaluation) is
// version-agnostic, per spec.md §4.10.2.
func ReadTake(n *ast.Node, stackID, layerID ElementID, nextID func() ElementID) *TakeResult {
	res := &TakeResult{
		Stack: &AnimStack{ID: stackID, Name: n.ValueString(0)},
		Layer: &AnimLayer{ID: layerID, Name: "BaseLayer"},
	}
	res.Stack.LayerIDs = []ElementID{layerID}

	for _, modelNode := range n.ChildrenNamed("Model") {
		target := modelNode.ValueString(0)
		for _, propName := range []string{"T", "R", "S"} {
			ch := modelNode.Child("Channel")
			// A Model node under Take may carry several "Channel" children
			// (T, R, S); find the one whose first value matches propName.
			for _, c := range modelNode.ChildrenNamed("Channel") {
				if c.ValueString(0) == propName {
					ch = c
					break
				}
			}
			if ch == nil || ch.ValueString(0) != propName {
				continue
			}
			prop := &AnimProp{ID: nextID(), Name: fbxPropNameFor(propName)}
			for axis := 0; axis < 3; axis++ {
				axisName := string("XYZ"[axis])
				var axisNode *ast.Node
				for _, c := range ch.ChildrenNamed("Channel") {
					if c.ValueString(0) == axisName {
						axisNode = c
						break
					}
				}
				if axisNode == nil {
					continue
				}
				curve := readTakeCurve(axisNode, nextID())
				res.Curves = append(res.Curves, curve)
				prop.CurveIDs[axis] = curve.ID
				prop.HasCurve[axis] = true
			}
			res.Props = append(res.Props, prop)
			res.TargetNames = append(res.TargetNames, target)
		}
	}
	return res
}

func fbxPropNameFor(code string) string {
	switch code {
	case "T":
		return "Lcl Translation"
	case "R":
		return "Lcl Rotation"
	case "S":
		return "Lcl Scaling"
	}
	return code
}

// readTakeCurve decodes one axis Channel's "Key" flat-double array into
// Keyframes. Layout per spec.md §4.10.2: {time, value, mode_char,
// [params...]} tuples packed as doubles, mode chars encoded as their
// ASCII codepoint cast to double by the legacy writer.
func readTakeCurve(n *ast.Node, id ElementID) *AnimCurve {
	c := &AnimCurve{ID: id}
	if d := n.Child("Default"); d != nil {
		c.Default = d.Value(0).AsFloat()
	}
	key := n.Child("Key")
	if key == nil || !key.IsArray {
		return c
	}
	data := key.Array.Float64s[key.Array.PadBegin:]

	i := 0
	for i+2 < len(data) {
		t := int64(data[i])
		v := data[i+1]
		mode := byte(data[i+2])
		i += 3

		kf := Keyframe{Time: float64(t) * KTimeToSec, Value: v}
		switch mode {
		case 'U': // cubic
			kf.Interp = InterpCubic
			if i < len(data) {
				weightMode := byte(data[i])
				i++
				if weightMode == 'a' {
					kf.AutoTangent = true
				} else if i+1 < len(data) {
					kf.LeftTangent = [2]float64{1.0 / 3.0, data[i] / 3.0}
					kf.RightTangent = [2]float64{1.0 / 3.0, data[i+1] / 3.0}
					i += 2
				}
			}
		case 'L':
			kf.Interp = InterpLinear
		case 'C':
			if i < len(data) {
				if byte(data[i]) == 'n' {
					kf.Interp = InterpConstantNext
				} else {
					kf.Interp = InterpConstantPrev
				}
				i++
			}
		default:
			kf.Interp = InterpLinear
		}
		c.Keyframes = append(c.Keyframes, kf)
	}
	solveAutoTangents(c.Keyframes)
	return c
}
