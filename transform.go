package ufbx

import (
	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/math32"
)

// localTransform composes a node header's pivot/offset/rotation chain
// into the single 4x4 matrix spec.md §4.4 describes:
//
//	T * Roff * Rp * Rpre * R * Rpost^-1 * Rp^-1 * Soff * Sp * S * Sp^-1
//
// where T/R/S are the local translation/rotation/scaling properties and
// Roff/Rp/Rpre/Rpost/Soff/Sp are the pivot and offset properties. Each
// factor is built with math32 (float32), matching how the rest of the
// geometry pipeline (math32.Matrix4/Vector3/Quaternion) already
// represents transforms.
func localTransform(h *readers.NodeHeader) *math32.Matrix4 {
	order := math32.RotationOrder(h.RotationOrder)

	t := mat4Translate(h.LocalTranslation)
	rOff := mat4Translate(h.RotationOffset)
	rPivot := mat4Translate(h.RotationPivot)
	rPivotInv := mat4TranslateInv(h.RotationPivot)
	rPre := mat4Euler(h.PreRotation, order)
	r := mat4Euler(h.LocalRotation, order)
	rPost := mat4Euler(h.PostRotation, order)
	rPostInv := math32.NewMatrix4()
	if err := rPostInv.GetInverse(rPost); err != nil {
		rPostInv.Identity()
	}
	sOff := mat4Translate(h.ScalingOffset)
	sPivot := mat4Translate(h.ScalingPivot)
	sPivotInv := mat4TranslateInv(h.ScalingPivot)
	s := mat4Scale(h.LocalScaling)

	m := math32.NewMatrix4().Identity()
	for _, f := range []*math32.Matrix4{t, rOff, rPivot, rPre, r, rPostInv, rPivotInv, sOff, sPivot, s, sPivotInv} {
		m.Multiply(f)
	}
	return m
}

func mat4Translate(v [3]float64) *math32.Matrix4 {
	return math32.NewMatrix4().MakeTranslation(float32(v[0]), float32(v[1]), float32(v[2]))
}

func mat4TranslateInv(v [3]float64) *math32.Matrix4 {
	return math32.NewMatrix4().MakeTranslation(float32(-v[0]), float32(-v[1]), float32(-v[2]))
}

func mat4Scale(v [3]float64) *math32.Matrix4 {
	sx, sy, sz := float32(v[0]), float32(v[1]), float32(v[2])
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sz == 0 {
		sz = 1
	}
	return math32.NewMatrix4().MakeScale(sx, sy, sz)
}

func mat4Euler(v [3]float64, order math32.RotationOrder) *math32.Matrix4 {
	euler := math32.NewVector3(degToRad(v[0]), degToRad(v[1]), degToRad(v[2]))
	q := math32.NewQuaternion(0, 0, 0, 1).SetFromEulerOrder(euler, order)
	return math32.NewMatrix4().MakeRotationFromQuaternion(q)
}

func degToRad(deg float64) float32 {
	return float32(deg * (3.14159265358979323846 / 180.0))
}
