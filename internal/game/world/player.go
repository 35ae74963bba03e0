package world

import (
	"github.com/Faultbox/ghostmaze/internal/engine/input"
	"github.com/Faultbox/ghostmaze/internal/game/level"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Player is the maze runner. Its footprint is a square of half-size Radius
// centred on Position.
type Player struct {
	Position math.Vec3
	Speed    float32 // units per second on each axis
	Radius   float32
}

// NewPlayer creates a player standing at pos.
func NewPlayer(pos math.Vec3, speed, radius float32) *Player {
	return &Player{Position: pos, Speed: speed, Radius: radius}
}

// MoveInput reads the movement axes: W/Up moves toward -Z, S/Down toward
// +Z, A/Left toward -X and D/Right toward +X.
func MoveInput(in *input.State) (x, z float32) {
	x = clampAxis(in.Axis(input.KeyA, input.KeyD) + in.Axis(input.KeyLeft, input.KeyRight))
	z = clampAxis(in.Axis(input.KeyW, input.KeyS) + in.Axis(input.KeyUp, input.KeyDown))
	return x, z
}

func clampAxis(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

// Move steps the player by (dx, dz)·Speed·dt. X and Z are resolved
// separately so the player slides along a wall instead of sticking to it;
// each axis moves only when all four footprint corners stay open.
func (p *Player) Move(dx, dz, dt float32, g *level.Grid) {
	step := p.Speed * dt
	nextX := p.Position.X + dx*step
	nextZ := p.Position.Z + dz*step

	if dx != 0 && p.fits(nextX, p.Position.Z, g) {
		p.Position.X = nextX
	}
	if dz != 0 && p.fits(p.Position.X, nextZ, g) {
		p.Position.Z = nextZ
	}
}

// fits reports whether the footprint centred on (x, z) touches no wall.
func (p *Player) fits(x, z float32, g *level.Grid) bool {
	r := p.Radius
	return !g.IsBlocked(x-r, z-r) &&
		!g.IsBlocked(x+r, z-r) &&
		!g.IsBlocked(x-r, z+r) &&
		!g.IsBlocked(x+r, z+r)
}
