package entity

import (
	"github.com/Faultbox/ghostmaze/internal/engine/transform"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Humanoid describes the blocky player figure by its part dimensions. The
// layout is derived from these values, so changing a dimension keeps every
// part resting on the one below it.
type Humanoid struct {
	LegW, LegH, LegD float32
	LegSpacing       float32 // x offset of each leg from the centre line

	TorsoW, TorsoH, TorsoD float32

	ArmW, ArmH, ArmD float32

	HeadRadius float32 // radius of the sphere mesh
	HeadScale  float32
	NeckGap    float32

	Skin, Shirt, Pants math.Vec4
}

// DefaultHumanoid returns the player figure proportions.
func DefaultHumanoid() Humanoid {
	return Humanoid{
		LegW: 0.5, LegH: 1.2, LegD: 0.5,
		LegSpacing: 0.3,

		TorsoW: 1.2, TorsoH: 1.5, TorsoD: 0.6,

		ArmW: 0.4, ArmH: 1.3, ArmD: 0.4,

		HeadRadius: 0.5,
		HeadScale:  0.9,
		NeckGap:    0.05,

		Skin:  math.Vec4{0.9, 0.7, 0.6, 1},
		Shirt: math.Vec4{0.8, 0.1, 0.1, 1},
		Pants: math.Vec4{0.1, 0.3, 0.7, 1},
	}
}

// Height returns the distance from the ground to the top of the head.
func (h Humanoid) Height() float32 {
	return h.LegH + h.TorsoH + h.NeckGap + 2*h.HeadRadius*h.HeadScale
}

// Parts lays the figure out around its ground-level origin: legs on the
// ground, torso on the legs, arms hanging from the torso top and the head
// above the torso with a neck gap. Arms are sleeved in the shirt colour.
// Cube parts assume a unit cube mesh.
func (h Humanoid) Parts() []Part {
	torsoY := h.LegH + h.TorsoH/2
	armX := h.TorsoW/2 + h.ArmW/2
	armY := h.LegH + h.TorsoH - h.ArmH/2
	headR := h.HeadRadius * h.HeadScale
	headY := h.LegH + h.TorsoH + h.NeckGap + headR

	box := func(name string, x, y float32, w, hh, d float32, c math.Vec4) Part {
		return Part{
			Name:   name,
			Shape:  ShapeCube,
			Recipe: transform.Box(math.Vec3{X: x, Y: y}, w, hh, d),
			Color:  c,
		}
	}

	return []Part{
		box("leg.left", -h.LegSpacing, h.LegH/2, h.LegW, h.LegH, h.LegD, h.Pants),
		box("leg.right", h.LegSpacing, h.LegH/2, h.LegW, h.LegH, h.LegD, h.Pants),
		box("torso", 0, torsoY, h.TorsoW, h.TorsoH, h.TorsoD, h.Shirt),
		box("arm.left", -armX, armY, h.ArmW, h.ArmH, h.ArmD, h.Shirt),
		box("arm.right", armX, armY, h.ArmW, h.ArmH, h.ArmD, h.Shirt),
		{
			Name:   "head",
			Shape:  ShapeSphere,
			Recipe: transform.Uniform(math.Vec3{Y: headY}, h.HeadScale),
			Color:  h.Skin,
		},
	}
}

// VerticalSpan returns the lowest and highest y a part covers, given the
// unit cube and the humanoid's head sphere radius.
func (h Humanoid) VerticalSpan(p Part) (bottom, top float32) {
	half := p.Recipe.Scale.Y / 2
	if p.Shape == ShapeSphere {
		half = h.HeadRadius * p.Recipe.Scale.Y
	}
	return p.Recipe.Offset.Y - half, p.Recipe.Offset.Y + half
}
