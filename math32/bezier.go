package math32

// CubicBezier1D evaluates a scalar cubic Bezier curve at parameter t in
// [0, 1] given the curve's four scalar control values.
func CubicBezier1D(t, v0, v1, v2, v3 float32) float32 {

	a0 := 1 - t
	return a0*a0*a0*v0 + 3*t*a0*a0*v1 + 3*t*t*a0*v2 + t*t*t*v3
}

// CubicBezier1DDerivative evaluates the derivative of CubicBezier1D with
// respect to t, used by Newton iteration to invert the curve's x(t) so a
// normalized time can be mapped to a Bezier parameter.
func CubicBezier1DDerivative(t, v0, v1, v2, v3 float32) float32 {

	a0 := 1 - t
	return 3*a0*a0*(v1-v0) + 6*t*a0*(v2-v1) + 3*t*t*(v3-v2)
}
