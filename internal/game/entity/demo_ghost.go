package entity

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/ghostmaze/internal/engine/transform"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// DemoGhost is the keyboard-driven ghost of the viewer demo. Its velocity
// eases toward the input direction and it stays inside a square play area.
type DemoGhost struct {
	Position math.Vec3
	Velocity math.Vec3
	Facing   float32 // degrees

	Speed   float32
	Damping float32
	Bound   float32
	Color   math.Vec4
}

// NewDemoGhost returns a ghost at the origin.
func NewDemoGhost() *DemoGhost {
	return &DemoGhost{
		Speed:   2,
		Damping: 6,
		Bound:   3,
		Color:   math.Vec4{0.9, 0.1, 0.9, 1},
	}
}

// Update integrates one step. inputX and inputZ are in -1..1; diagonal
// input is normalized so it is not faster.
func (g *DemoGhost) Update(dt, inputX, inputZ float32) {
	if l := math32.Hypot(inputX, inputZ); l > 0 {
		inputX /= l
		inputZ /= l
	}

	k := math32.Min(1, g.Damping*dt)
	g.Velocity.X += (inputX*g.Speed - g.Velocity.X) * k
	g.Velocity.Z += (inputZ*g.Speed - g.Velocity.Z) * k

	g.Position.X += g.Velocity.X * dt
	g.Position.Z += g.Velocity.Z * dt

	if math32.Hypot(g.Velocity.X, g.Velocity.Z) > 0.01 {
		g.Facing, _ = FacingDegrees(g.Velocity.X, g.Velocity.Z)
	}

	g.Position.X = clamp(g.Position.X, -g.Bound, g.Bound)
	g.Position.Z = clamp(g.Position.Z, -g.Bound, g.Bound)
}

// Part returns the ghost's drawable.
func (g *DemoGhost) Part() Part {
	return Part{
		Name:   "ghost",
		Shape:  ShapeGhost,
		Recipe: transform.Recipe{Scale: math.Vec3{X: 1, Y: 1, Z: 1}, RotationY: math.DegToRad(g.Facing)},
		Color:  g.Color,
	}
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
