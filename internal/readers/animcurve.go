package readers

import "github.com/ufbxgo/ufbx/internal/ast"

// Key-attribute flag bits, decoded from KeyAttrFlags. The wire format
// documents these only by name (spec.md §4.10.1); the bit positions
// below are this reader's own internally-consistent assignment, not a
// byte-for-byte reproduction of the reference decoder's private
// constants.
const (
	flagConstantNext = 1 << 0
	flagConstantPrev = 1 << 1
	flagLinear       = 1 << 2
	flagCubic        = 1 << 3
	flagTangentAuto  = 1 << 8
	flagTangentUser  = 1 << 9
	flagTangentBreak = 1 << 10
	flagWeighted     = 1 << 11
)

func interpOf(flags int32) Interpolation {
	switch {
	case flags&flagCubic != 0:
		return InterpCubic
	case flags&flagLinear != 0:
		return InterpLinear
	case flags&flagConstantNext != 0:
		return InterpConstantNext
	default:
		return InterpConstantPrev
	}
}

// unpackWeightPair decodes the "two 0.4-fixed-point values packed
// inside a 32-bit float" convention spec.md §4.10.1 calls out
// parenthetically ("(!)") as a legacy FBX writer trick: the raw 32-bit
// pattern is treated as two 16-bit fixed-point fractions rather than an
// IEEE754 float.
func unpackWeightPair(bits uint32) (left, right float64) {
	left = float64(bits&0xffff) / 10000.0
	right = float64(bits>>16) / 10000.0
	return
}

// ReadAnimCurve reads a post-7000 "AnimationCurve" node's parallel
// KeyTime/KeyValueFloat/KeyAttrFlags/KeyAttrDataFloat/KeyAttrRefCount
// arrays into a flat, sorted Keyframe slice.
func ReadAnimCurve(n *ast.Node, id ElementID) *AnimCurve {
	c := &AnimCurve{ID: id}

	var times []int64
	var values []float32
	var flags []int32
	var attrData []float32
	var refCounts []int32

	if t := n.Child("KeyTime"); t != nil && t.IsArray {
		times = t.Array.Int64s[t.Array.PadBegin:]
	}
	if v := n.Child("KeyValueFloat"); v != nil && v.IsArray {
		values = v.Array.Float32s[v.Array.PadBegin:]
	}
	if f := n.Child("KeyAttrFlags"); f != nil && f.IsArray {
		flags = f.Array.Int32s[f.Array.PadBegin:]
	}
	if d := n.Child("KeyAttrDataFloat"); d != nil && d.IsArray {
		attrData = d.Array.Float32s[d.Array.PadBegin:]
	}
	if r := n.Child("KeyAttrRefCount"); r != nil && r.IsArray {
		refCounts = r.Array.Int32s[r.Array.PadBegin:]
	}

	n2 := len(times)
	c.Keyframes = make([]Keyframe, n2)
	attrIdx, remaining := 0, int32(0)
	for i := 0; i < n2; i++ {
		if remaining <= 0 && attrIdx < len(refCounts) {
			remaining = refCounts[attrIdx]
			attrIdx++
		}
		fi := attrIdx - 1
		if fi < 0 {
			fi = 0
		}
		var fl int32
		if fi < len(flags) {
			fl = flags[fi]
		}
		var rightSlope, weightBits0 float32
		if base := fi * 4; base+3 < len(attrData) {
			rightSlope = attrData[base]
			weightBits0 = attrData[base+2]
		}

		kf := Keyframe{
			Time:   float64(times[i]) * KTimeToSec,
			Interp: interpOf(fl),
		}
		if i < len(values) {
			kf.Value = float64(values[i])
		}
		if fl&flagTangentAuto != 0 {
			kf.AutoTangent = true
		}
		if fl&flagWeighted != 0 {
			wl, wr := unpackWeightPair(floatBitsToUint32(weightBits0))
			kf.LeftTangent = [2]float64{wl, 0}
			kf.RightTangent = [2]float64{wr, float64(rightSlope)}
		} else {
			kf.RightTangent = [2]float64{1.0 / 3.0, float64(rightSlope) / 3.0}
			kf.LeftTangent = [2]float64{1.0 / 3.0, float64(rightSlope) / 3.0}
		}
		c.Keyframes[i] = kf
		remaining--
	}

	solveAutoTangents(c.Keyframes)
	return c
}

func floatBitsToUint32(f float32) uint32 {
	return float32bits(f)
}

// solveAutoTangents resolves keys flagged auto-tangent: given previous,
// current, and next (time, value), the slope is (next-prev)/(next_t -
// prev_t), clamped so it never overshoots past either neighbor's value
// (spec.md §4.10.1, §9 "Tangent auto-solve numeric fragility" — the
// clamp must use a NaN-safe "not(max>0)" style comparison since a
// degenerate zero-length segment produces a NaN slope*delta product).
func solveAutoTangents(keys []Keyframe) {
	for i := range keys {
		if !keys[i].AutoTangent {
			continue
		}
		var prevT, prevV, nextT, nextV float64
		havePrev, haveNext := i > 0, i < len(keys)-1
		if havePrev {
			prevT, prevV = keys[i-1].Time, keys[i-1].Value
		}
		if haveNext {
			nextT, nextV = keys[i+1].Time, keys[i+1].Value
		}
		var slope float64
		switch {
		case havePrev && haveNext && nextT != prevT:
			slope = (nextV - prevV) / (nextT - prevT)
		case haveNext && nextT != keys[i].Time:
			slope = (nextV - keys[i].Value) / (nextT - keys[i].Time)
		case havePrev && keys[i].Time != prevT:
			slope = (keys[i].Value - prevV) / (keys[i].Time - prevT)
		}
		if haveNext {
			dt := nextT - keys[i].Time
			maxSlope := (nextV - keys[i].Value) / dt
			if !(dt > 0) { // NaN-safe: a zero-length segment never clamps
				maxSlope = slope
			}
			if dt > 0 && sameSign(slope, maxSlope) && absF(slope) > absF(maxSlope) {
				slope = maxSlope
			}
		}
		keys[i].RightTangent = [2]float64{1.0 / 3.0, slope / 3.0}
		keys[i].LeftTangent = [2]float64{1.0 / 3.0, slope / 3.0}
	}
}

func sameSign(a, b float64) bool {
	return (a >= 0) == (b >= 0)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
