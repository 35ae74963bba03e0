// Package lighting describes the scene lights and flattens them for upload.
package lighting

import "github.com/Faultbox/ghostmaze/pkg/math"

// MaxPointLights matches the light array in the scene shader.
const MaxPointLights = 4

// PointLight is a white point light.
type PointLight struct {
	Position math.Vec3
}

// PointLightBuffer holds up to MaxPointLights lights for upload.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{Lights: make([]PointLight, 0, MaxPointLights)}
}

// MazeLights places one light above each corner of a square maze: at
// (±inset, height, ±inset) where inset is 60% of the maze extent.
// The default 20 unit maze gets lights at (±12, 15, ±12).
func MazeLights(extent, height float32) []PointLight {
	d := extent * 0.6
	return []PointLight{
		{Position: math.Vec3{X: d, Y: height, Z: d}},
		{Position: math.Vec3{X: -d, Y: height, Z: d}},
		{Position: math.Vec3{X: d, Y: height, Z: -d}},
		{Position: math.Vec3{X: -d, Y: height, Z: -d}},
	}
}

// AddLight appends a light. It returns false when the buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// SetLights replaces the lights, truncating to MaxPointLights.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Lights = b.Lights[:0]
	if len(lights) > MaxPointLights {
		lights = lights[:MaxPointLights]
	}
	b.Lights = append(b.Lights, lights...)
}

// Positions returns MaxPointLights positions as x0,y0,z0,x1,... Unused
// slots repeat the last light so the shader's fixed-size loop never reads a
// light at the origin; an empty buffer yields nil.
func (b *PointLightBuffer) Positions() []float32 {
	if len(b.Lights) == 0 {
		return nil
	}
	out := make([]float32, 0, MaxPointLights*3)
	for i := 0; i < MaxPointLights; i++ {
		l := b.Lights[min(i, len(b.Lights)-1)]
		out = append(out, l.Position.X, l.Position.Y, l.Position.Z)
	}
	return out
}
