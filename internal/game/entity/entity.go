// Package entity implements the things that move or get drawn in the
// maze: the humanoid player figure, wandering ghosts and the demo ghost.
package entity

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/ghostmaze/internal/engine/transform"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Shape selects the mesh a part is drawn with.
type Shape uint8

const (
	ShapeCube Shape = iota
	ShapeSphere
	ShapeGhost
	ShapeFloor
)

// String returns the mesh name the renderer registers the shape under.
func (s Shape) String() string {
	switch s {
	case ShapeCube:
		return "cube"
	case ShapeSphere:
		return "sphere"
	case ShapeGhost:
		return "ghost"
	case ShapeFloor:
		return "floor"
	default:
		return "unknown"
	}
}

// Part is one drawable piece of an entity, rebuilt every frame from
// authoritative state. Color is used when the part is untextured.
type Part struct {
	Name     string
	Shape    Shape
	Recipe   transform.Recipe
	Color    math.Vec4
	Textured bool
}

// Model places the part relative to its entity origin.
func (p Part) Model(origin math.Vec3) math.Mat4 {
	return transform.Compose(origin, p.Recipe)
}

// FacingDegrees returns the yaw that turns -Z toward (dx, dz), in degrees.
// Zero vectors return ok=false.
func FacingDegrees(dx, dz float32) (deg float32, ok bool) {
	if dx == 0 && dz == 0 {
		return 0, false
	}
	return math.RadToDeg(math32.Atan2(dx, -dz)), true
}
