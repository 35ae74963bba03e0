package transform

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/ghostmaze/pkg/math"
)

func close3(a, b math.Vec3) bool {
	const eps = 1e-5
	return gomath.Abs(float64(a.X-b.X)) < eps &&
		gomath.Abs(float64(a.Y-b.Y)) < eps &&
		gomath.Abs(float64(a.Z-b.Z)) < eps
}

func TestChainOrder(t *testing.T) {
	m := New().Scale(2, 2, 2).Translate(1, 0, 0).Matrix()
	got := m.MulVec4(math.Vec4{0, 0, 0, 1})
	if got != (math.Vec4{1, 0, 0, 1}) {
		t.Errorf("origin: got %v, want (1,0,0,1)", got)
	}
}

func TestFromContinuesChain(t *testing.T) {
	base := math.Translation(0, 2, 0)
	got := From(base).Translate(1, 0, 0).Matrix()
	want := math.Translation(1, 0, 0).Mul(base)
	if !got.ApproxEqual(want, 1e-6) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComposeMatchesProduct(t *testing.T) {
	g := math.Vec3{X: 3, Y: 0, Z: -2}
	r := Recipe{
		Offset:    math.Vec3{X: 0.3, Y: 0.6, Z: 0},
		RotationY: 0.5,
		Scale:     math.Vec3{X: 0.5, Y: 1.2, Z: 0.5},
	}
	got := Compose(g, r)
	want := math.Translation(g.X, g.Y, g.Z).
		Mul(math.Translation(r.Offset.X, r.Offset.Y, r.Offset.Z)).
		Mul(math.RotationY(r.RotationY)).
		Mul(math.Scaling(r.Scale.X, r.Scale.Y, r.Scale.Z))
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestComposeKeepsOffsetUnscaled(t *testing.T) {
	m := Compose(math.Vec3{X: 10}, Box(math.Vec3{Y: 1}, 4, 4, 4))
	if got := m.TransformPoint(math.Vec3{}); !close3(got, math.Vec3{X: 10, Y: 1}) {
		t.Errorf("part origin: got %v, want (10,1,0)", got)
	}
	// unit cube top face lands at offset + half the part height
	if got := m.TransformPoint(math.Vec3{Y: 0.5}); !close3(got, math.Vec3{X: 10, Y: 3}) {
		t.Errorf("top face: got %v, want (10,3,0)", got)
	}
}

func TestUniform(t *testing.T) {
	r := Uniform(math.Vec3{Y: 2}, 0.9)
	if r.Scale != (math.Vec3{X: 0.9, Y: 0.9, Z: 0.9}) {
		t.Errorf("scale: got %v", r.Scale)
	}
}
