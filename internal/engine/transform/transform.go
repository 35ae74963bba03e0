// Package transform composes per-part model matrices from a global entity
// position and a local part recipe.
package transform

import "github.com/Faultbox/ghostmaze/pkg/math"

// Recipe describes where a part sits relative to its entity origin.
type Recipe struct {
	Offset    math.Vec3
	RotationY float32 // radians
	Scale     math.Vec3
}

// Uniform returns a recipe with the same scale on every axis.
func Uniform(offset math.Vec3, s float32) Recipe {
	return Recipe{Offset: offset, Scale: math.Vec3{X: s, Y: s, Z: s}}
}

// Box returns a recipe for a unit cube stretched to w x h x d.
func Box(offset math.Vec3, w, h, d float32) Recipe {
	return Recipe{Offset: offset, Scale: math.Vec3{X: w, Y: h, Z: d}}
}

// Compose returns G * O * R * S: the part is scaled, turned about its own
// Y axis, moved to its local offset and finally placed at the global
// position. Offsets are never scaled.
func Compose(global math.Vec3, r Recipe) math.Mat4 {
	return New().
		Scale(r.Scale.X, r.Scale.Y, r.Scale.Z).
		RotateY(r.RotationY).
		Translate(r.Offset.X, r.Offset.Y, r.Offset.Z).
		Translate(global.X, global.Y, global.Z).
		Matrix()
}

// Chain accumulates operations in the order they are issued. Each call
// multiplies the new operation on the left of the accumulator.
type Chain struct {
	m math.Mat4
}

// New starts a chain at the identity.
func New() Chain {
	return Chain{m: math.Identity()}
}

// From starts a chain at an existing matrix.
func From(m math.Mat4) Chain {
	return Chain{m: m}
}

// Translate appends a translation.
func (c Chain) Translate(x, y, z float32) Chain {
	c.m = c.m.Translate(x, y, z)
	return c
}

// Scale appends a scale.
func (c Chain) Scale(x, y, z float32) Chain {
	c.m = c.m.Scale(x, y, z)
	return c
}

// RotateY appends a rotation about Y. A zero angle is skipped.
func (c Chain) RotateY(rad float32) Chain {
	if rad != 0 {
		c.m = c.m.RotateY(rad)
	}
	return c
}

// Matrix returns the accumulated matrix.
func (c Chain) Matrix() math.Mat4 {
	return c.m
}
