package ufbx

import (
	"sort"

	"github.com/ufbxgo/ufbx/internal/readers"
	"github.com/ufbxgo/ufbx/internal/resolve"
	"github.com/ufbxgo/ufbx/math32"
)

// AnimStack is the public view of a resolved animation take: its time
// range and the layers it owns.
type AnimStack struct {
	Name      string
	TimeBegin float64
	TimeEnd   float64
	Layers    []*AnimLayer
}

// AnimLayer owns a sorted list of target properties.
type AnimLayer struct {
	Name  string
	Props []*AnimProp
}

// AnimProp binds a named property on one node to up to three
// component curves (x/y/z, or a single scalar in component 0).
type AnimProp struct {
	Target    ElementID
	HasTarget bool
	Name      string
	Curves    [3]*Curve
}

// Curve is an evaluable, sorted keyframe track.
type Curve struct {
	Default   float64
	Keyframes []readers.Keyframe
}

func newAnimStack(as *readers.AnimStack, g *resolve.Graph) *AnimStack {
	out := &AnimStack{Name: as.Name, TimeBegin: as.TimeBegin, TimeEnd: as.TimeEnd}
	for _, lid := range as.LayerIDs {
		l, ok := g.AnimLayers[lid]
		if !ok {
			continue
		}
		layer := &AnimLayer{Name: l.Name}
		for _, pid := range l.PropIDs {
			p, ok := g.AnimProps[pid]
			if !ok {
				continue
			}
			ap := &AnimProp{Target: p.Target, HasTarget: p.HasTarget, Name: p.Name}
			for i := 0; i < 3; i++ {
				if !p.HasCurve[i] {
					continue
				}
				if c, ok := g.AnimCurves[p.CurveIDs[i]]; ok {
					ap.Curves[i] = &Curve{Default: c.Default, Keyframes: c.Keyframes}
				}
			}
			layer.Props = append(layer.Props, ap)
		}
		out.Layers = append(out.Layers, layer)
	}
	return out
}

// Evaluate samples the curve at time t (seconds), per spec.md §6's
// `evaluate_curve`: find the enclosing keyframe segment, then evaluate
// its interpolation mode. Cubic segments use math32.CubicBezier1D over
// the segment's Bezier parameter, found by Newton iteration over the
// (time-domain) parametrization since keyframes aren't evenly spaced.
func (c *Curve) Evaluate(t float64) float64 {
	if len(c.Keyframes) == 0 {
		return c.Default
	}
	if t <= c.Keyframes[0].Time {
		return c.Keyframes[0].Value
	}
	if t >= c.Keyframes[len(c.Keyframes)-1].Time {
		return c.Keyframes[len(c.Keyframes)-1].Value
	}

	i := sort.Search(len(c.Keyframes), func(i int) bool { return c.Keyframes[i].Time > t }) - 1
	a, b := c.Keyframes[i], c.Keyframes[i+1]
	dt := b.Time - a.Time
	if dt <= 0 {
		return a.Value
	}
	u := (t - a.Time) / dt

	switch a.Interp {
	case readers.InterpConstantNext:
		return b.Value
	case readers.InterpConstantPrev:
		return a.Value
	case readers.InterpLinear:
		return a.Value + (b.Value-a.Value)*u
	case readers.InterpCubic:
		return evaluateCubic(a, b, dt, u)
	}
	return a.Value + (b.Value-a.Value)*u
}

// evaluateCubic builds the Bezier control values from each endpoint's
// right/left tangent offsets and solves for the curve's y at parameter
// u via Newton iteration on its x(t) component, since the tangent's dx
// is generally not 1/3 of dt once weighted tangents are involved.
func evaluateCubic(a, b readers.Keyframe, dt, u float64) float64 {
	v0 := float32(a.Value)
	v3 := float32(b.Value)
	v1, v2 := v0, v3
	if a.RightTangent[0] != 0 {
		v1 = float32(a.Value + a.RightTangent[1]*dt/(a.RightTangent[0]*3))
	}
	if b.LeftTangent[0] != 0 {
		v2 = float32(b.Value - b.LeftTangent[1]*dt/(b.LeftTangent[0]*3))
	}

	x0, x1 := float32(0), float32(a.RightTangent[0])
	x2, x3 := float32(1)-float32(b.LeftTangent[0]), float32(1)

	target := float32(u)
	tt := target
	for iter := 0; iter < 8; iter++ {
		x := math32.CubicBezier1D(tt, x0, x1, x2, x3)
		dx := math32.CubicBezier1DDerivative(tt, x0, x1, x2, x3)
		if dx == 0 {
			break
		}
		tt -= (x - target) / dx
		if tt < 0 {
			tt = 0
		}
		if tt > 1 {
			tt = 1
		}
	}
	return float64(math32.CubicBezier1D(tt, v0, v1, v2, v3))
}
