package ufbx

import (
	"math"
	"testing"

	"github.com/ufbxgo/ufbx/internal/readers"
)

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCurveEvaluateEmptyReturnsDefault(t *testing.T) {
	c := &Curve{Default: 4.5}
	if got := c.Evaluate(1.0); got != 4.5 {
		t.Fatalf("Evaluate() = %v, want 4.5", got)
	}
}

func TestCurveEvaluateClampsBeforeAndAfterRange(t *testing.T) {
	c := &Curve{Keyframes: []readers.Keyframe{
		{Time: 1, Value: 10, Interp: readers.InterpLinear},
		{Time: 2, Value: 20, Interp: readers.InterpLinear},
	}}
	if got := c.Evaluate(0); got != 10 {
		t.Fatalf("Evaluate(before range) = %v, want 10", got)
	}
	if got := c.Evaluate(5); got != 20 {
		t.Fatalf("Evaluate(after range) = %v, want 20", got)
	}
}

func TestCurveEvaluateLinearMidpoint(t *testing.T) {
	c := &Curve{Keyframes: []readers.Keyframe{
		{Time: 0, Value: 0, Interp: readers.InterpLinear},
		{Time: 2, Value: 10, Interp: readers.InterpLinear},
	}}
	if got := c.Evaluate(1); !closeEnough(got, 5) {
		t.Fatalf("Evaluate(midpoint) = %v, want 5", got)
	}
}

func TestCurveEvaluateConstantNext(t *testing.T) {
	c := &Curve{Keyframes: []readers.Keyframe{
		{Time: 0, Value: 1, Interp: readers.InterpConstantNext},
		{Time: 2, Value: 9, Interp: readers.InterpLinear},
	}}
	if got := c.Evaluate(1); got != 9 {
		t.Fatalf("Evaluate(constant-next segment) = %v, want 9 (holds the following keyframe's value)", got)
	}
}

func TestCurveEvaluateConstantPrev(t *testing.T) {
	c := &Curve{Keyframes: []readers.Keyframe{
		{Time: 0, Value: 1, Interp: readers.InterpConstantPrev},
		{Time: 2, Value: 9, Interp: readers.InterpLinear},
	}}
	if got := c.Evaluate(1); got != 1 {
		t.Fatalf("Evaluate(constant-prev segment) = %v, want 1 (holds the segment's own keyframe value)", got)
	}
}

func TestCurveEvaluateCubicEndpointsMatchKeyframes(t *testing.T) {
	c := &Curve{Keyframes: []readers.Keyframe{
		{Time: 0, Value: 0, Interp: readers.InterpCubic, RightTangent: [2]float64{1.0 / 3.0, 0}},
		{Time: 1, Value: 10, Interp: readers.InterpCubic, LeftTangent: [2]float64{1.0 / 3.0, 0}},
	}}
	if got := c.Evaluate(0); !closeEnough(got, 0) {
		t.Fatalf("Evaluate(segment start) = %v, want 0", got)
	}
	if got := c.Evaluate(0.999999); math.Abs(got-10) > 1e-2 {
		t.Fatalf("Evaluate(near segment end) = %v, want close to 10", got)
	}
}
