package ufbx

import (
	"math"
	"testing"

	"github.com/ufbxgo/ufbx/internal/readers"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestLocalTransformIdentityForZeroHeader(t *testing.T) {
	h := &readers.NodeHeader{LocalScaling: [3]float64{1, 1, 1}}
	m := localTransform(h)
	want := identityMatrix()
	for i := range want {
		if !approxEqual(m[i], want[i]) {
			t.Fatalf("localTransform(zero header)[%d] = %v, want %v (full: %v)", i, m[i], want[i], *m)
		}
	}
}

func TestLocalTransformTranslationOnly(t *testing.T) {
	h := &readers.NodeHeader{
		LocalTranslation: [3]float64{1, 2, 3},
		LocalScaling:     [3]float64{1, 1, 1},
	}
	m := localTransform(h)
	// Column-major Matrix4: translation lives in indices 12,13,14.
	if !approxEqual(m[12], 1) || !approxEqual(m[13], 2) || !approxEqual(m[14], 3) {
		t.Fatalf("translation = (%v, %v, %v), want (1, 2, 3)", m[12], m[13], m[14])
	}
}

func TestMat4ScaleGuardsZeroComponents(t *testing.T) {
	m := mat4Scale([3]float64{0, 2, 0})
	if !approxEqual(m[0], 1) {
		t.Fatalf("scale.x = %v, want 1 (zero guarded)", m[0])
	}
	if !approxEqual(m[5], 2) {
		t.Fatalf("scale.y = %v, want 2", m[5])
	}
	if !approxEqual(m[10], 1) {
		t.Fatalf("scale.z = %v, want 1 (zero guarded)", m[10])
	}
}

// identityMatrix returns a fresh identity matrix for comparison in tests.
func identityMatrix() [16]float32 {
	var out [16]float32
	out[0], out[5], out[10], out[15] = 1, 1, 1, 1
	return out
}
