package entity

import (
	"math/rand/v2"

	"github.com/Faultbox/ghostmaze/internal/engine/transform"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// ArrivalEpsilon is the distance at which a ghost snaps onto its target.
const ArrivalEpsilon = 0.01

// GhostDirs are the four axis-aligned wander directions on the XZ plane.
var GhostDirs = [4]math.Vec3{
	{X: 1},
	{X: -1},
	{Z: 1},
	{Z: -1},
}

// GhostScale stretches the ghost mesh to its in-maze size.
var GhostScale = math.Vec3{X: 0.7, Y: 1.7 / 1.1, Z: 0.7}

// Ghost is one wandering ghost. It steps between points one grid unit
// apart without checking walls.
type Ghost struct {
	Position  math.Vec3
	Facing    float32   // degrees, 0 faces -Z
	Velocity  math.Vec3 // toward the current target
	Target    math.Vec3
	HasTarget bool
	Speed     float32
	Color     math.Vec4
}

// Update advances the ghost by dt seconds. A ghost without a target picks
// one first. On arrival it snaps to the target and picks the next one in
// the same tick.
func (g *Ghost) Update(dt, step float32, rng *rand.Rand) {
	if !g.HasTarget {
		g.chooseDirection(step, rng)
	}

	d := g.Target.Sub(g.Position)
	d.Y = 0
	dist := d.Length()
	move := g.Speed * dt
	if dist < ArrivalEpsilon || move >= dist {
		g.Position.X, g.Position.Z = g.Target.X, g.Target.Z
		g.HasTarget = false
		g.chooseDirection(step, rng)
		return
	}
	g.Position = g.Position.Add(d.Scale(move / dist))
}

func (g *Ghost) chooseDirection(step float32, rng *rand.Rand) {
	dir := GhostDirs[rng.IntN(len(GhostDirs))]
	g.Target = g.Position.Add(dir.Scale(step))
	g.HasTarget = true
	g.Velocity = dir.Scale(g.Speed)
	if deg, ok := FacingDegrees(dir.X, dir.Z); ok {
		g.Facing = deg
	}
}

// Part returns the ghost's drawable.
func (g *Ghost) Part() Part {
	return Part{
		Name:   "ghost",
		Shape:  ShapeGhost,
		Recipe: transform.Recipe{Scale: GhostScale, RotationY: math.DegToRad(g.Facing)},
		Color:  g.Color,
	}
}

// Ghosts owns every ghost in a session.
type Ghosts struct {
	list  []*Ghost
	rng   *rand.Rand
	speed float32
	step  float32
}

// NewGhosts creates an empty collection. step is the wander distance, one
// grid cell.
func NewGhosts(rng *rand.Rand, speed, step float32) *Ghosts {
	return &Ghosts{rng: rng, speed: speed, step: step}
}

// Spawn adds up to count ghosts at positions drawn from pool without
// replacement, each with a random colour, and returns how many it added.
func (gs *Ghosts) Spawn(count int, pool []math.Vec3) int {
	available := append([]math.Vec3(nil), pool...)
	n := 0
	for ; n < count && len(available) > 0; n++ {
		i := gs.rng.IntN(len(available))
		pos := available[i]
		available[i] = available[len(available)-1]
		available = available[:len(available)-1]

		gs.list = append(gs.list, &Ghost{
			Position: pos,
			Speed:    gs.speed,
			Color:    math.Vec4{gs.rng.Float32(), gs.rng.Float32(), gs.rng.Float32(), 1},
		})
	}
	return n
}

// Update advances every ghost.
func (gs *Ghosts) Update(dt float32) {
	for _, g := range gs.list {
		g.Update(dt, gs.step, gs.rng)
	}
}

// All returns the ghosts in spawn order.
func (gs *Ghosts) All() []*Ghost {
	return gs.list
}

// Len returns the number of ghosts.
func (gs *Ghosts) Len() int {
	return len(gs.list)
}
