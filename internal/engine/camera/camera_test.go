package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/ghostmaze/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestOrbitEye(t *testing.T) {
	c := NewOrbitCamera()

	eye := c.Eye()
	if !near(eye.Length(), c.Zoom) {
		t.Errorf("eye distance: got %f, want %f", eye.Length(), c.Zoom)
	}
	r := c.Zoom / float32(gomath.Sqrt(1+1.2*1.2))
	if !near(eye.X, 0) || !near(eye.Z, r) || !near(eye.Y, r*1.2) {
		t.Errorf("eye at angle 0: got %+v, want (0, %f, %f)", eye, r*1.2, r)
	}

	c.Angle = float32(gomath.Pi / 2)
	eye = c.Eye()
	if !near(eye.X, r) || !near(eye.Z, 0) {
		t.Errorf("eye at angle pi/2: got %+v", eye)
	}
}

func TestOrbitViewLooksAtOrigin(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(73)

	view, err := c.View()
	if err != nil {
		t.Fatal(err)
	}
	p := view.TransformPoint(math.Vec3{})
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, -c.Zoom) {
		t.Errorf("origin in view space: got %+v, want (0, 0, %f)", p, -c.Zoom)
	}
}

func TestOrbitZoomClamped(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
		want  float32
	}{
		{"one notch out", 100, 34},
		{"one notch in", -100, 30},
		{"past max", 10000, 60},
		{"past min", -10000, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			c.HandleZoom(tt.delta)
			if !near(c.Zoom, tt.want) {
				t.Errorf("zoom: got %f, want %f", c.Zoom, tt.want)
			}
		})
	}
}

func TestOrbitDrag(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(50)
	if !near(c.Angle, 0.5) {
		t.Errorf("angle: got %f, want 0.5", c.Angle)
	}
}

func TestProjection(t *testing.T) {
	p, err := Projection(16.0/9.0, 0.6, 1, 200)
	if err != nil {
		t.Fatal(err)
	}
	// a point on the near plane's right edge maps to x = +1
	clip := p.MulVec4(math.Vec4{0.6 * 16 / 9, 0, -1, 1})
	if !near(clip[0]/clip[3], 1) || !near(clip[2]/clip[3], -1) {
		t.Errorf("near right edge: got ndc (%f, _, %f)", clip[0]/clip[3], clip[2]/clip[3])
	}

	if _, err := Projection(0, 0.6, 1, 200); err == nil {
		t.Error("zero aspect should fail")
	}
}

func TestFollowCamera(t *testing.T) {
	c := NewFollowCamera()
	target := math.Vec3{X: 1.5, Y: 0, Z: -2}

	eye := c.Eye(target)
	if eye != (math.Vec3{X: 1.5, Y: 1.2, Z: 1}) {
		t.Errorf("eye: got %+v", eye)
	}

	view, err := c.View(target)
	if err != nil {
		t.Fatal(err)
	}
	aim := view.TransformPoint(math.Vec3{X: 1.5, Y: 0.3, Z: -2})
	if !near(aim.X, 0) || !near(aim.Y, 0) || aim.Z >= 0 {
		t.Errorf("aim point should sit on the view axis in front, got %+v", aim)
	}
}
