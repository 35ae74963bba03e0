package lighting

import "github.com/Faultbox/ghostmaze/pkg/math"

// Directional is a light with a direction and no position.
type Directional struct {
	Direction math.Vec3 // unit length
	Ambient   float32
}

// NewDirectional normalizes (x, y, z). The demo shades with
// max(dot(N, -Direction), 0).
func NewDirectional(x, y, z, ambient float32) Directional {
	return Directional{
		Direction: math.Vec3{X: x, Y: y, Z: z}.Normalize(),
		Ambient:   ambient,
	}
}

// DemoSun is the ghost demo light.
func DemoSun() Directional {
	return NewDirectional(0.5, 1, 0.3, 0.18)
}
