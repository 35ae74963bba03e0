// Package camera provides the maze orbit camera and the demo follow camera.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/ghostmaze/pkg/math"
)

var up = math.Vec3{Y: 1}

// OrbitCamera circles the origin at a fixed height-to-radius slope. Zoom is
// the distance from the eye to the origin.
type OrbitCamera struct {
	Angle float32 // radians around +Y, 0 looks from +Z
	Zoom  float32
	Slope float32 // eye height divided by horizontal radius

	MinZoom float32
	MaxZoom float32

	DragSensitivity float32 // radians per pixel
	ZoomSensitivity float32 // zoom units per wheel pixel
}

// NewOrbitCamera returns a camera with the maze defaults.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Zoom:            32,
		Slope:           1.2,
		MinZoom:         15,
		MaxZoom:         60,
		DragSensitivity: 0.01,
		ZoomSensitivity: 0.02,
	}
}

// Eye returns the camera position: horizontal radius zoom/sqrt(1+slope^2)
// and height radius*slope, so the eye stays zoom units from the origin.
func (c *OrbitCamera) Eye() math.Vec3 {
	r := c.Zoom / math32.Sqrt(1+c.Slope*c.Slope)
	return math.Vec3{
		X: math32.Sin(c.Angle) * r,
		Y: r * c.Slope,
		Z: math32.Cos(c.Angle) * r,
	}
}

// View returns the world-to-camera matrix looking at the origin.
func (c *OrbitCamera) View() (math.Mat4, error) {
	return math.ViewingMatrix(c.Eye(), math.Vec3{}, up)
}

// HandleDrag turns the camera by a horizontal pointer movement in pixels.
func (c *OrbitCamera) HandleDrag(dx float32) {
	c.Angle += dx * c.DragSensitivity
	c.Angle = math32.Mod(c.Angle, 2*math32.Pi)
}

// HandleZoom applies a wheel movement in pixels; positive moves away.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Zoom += delta * c.ZoomSensitivity
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// Projection returns the maze projection: a symmetric frustum whose near
// plane is halfHeight tall above and below the axis, widened by aspect.
func Projection(aspect, halfHeight, near, far float32) (math.Mat4, error) {
	w := halfHeight * aspect
	return math.Frustum(-w, w, -halfHeight, halfHeight, near, far)
}

// FollowCamera trails a target from a fixed offset and looks slightly above
// it.
type FollowCamera struct {
	Height   float32 // eye height above the ground
	Distance float32 // eye offset along +Z
	LookUp   float32 // aim point above the target

	FovY float32 // degrees
	Near float32
	Far  float32
}

// NewFollowCamera returns the demo defaults.
func NewFollowCamera() *FollowCamera {
	return &FollowCamera{
		Height:   1.2,
		Distance: 3,
		LookUp:   0.3,
		FovY:     60,
		Near:     0.1,
		Far:      100,
	}
}

// Eye returns the camera position for a target.
func (c *FollowCamera) Eye(target math.Vec3) math.Vec3 {
	return math.Vec3{X: target.X, Y: c.Height, Z: target.Z + c.Distance}
}

// View returns the world-to-camera matrix for a target.
func (c *FollowCamera) View(target math.Vec3) (math.Mat4, error) {
	center := math.Vec3{X: target.X, Y: target.Y + c.LookUp, Z: target.Z}
	return math.ViewingMatrix(c.Eye(target), center, up)
}

// Projection returns the perspective projection for a viewport aspect.
func (c *FollowCamera) Projection(aspect float32) math.Mat4 {
	return math.Perspective(math.DegToRad(c.FovY), aspect, c.Near, c.Far)
}
