package entity

import (
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/ghostmaze/pkg/math"
)

const eps = 1e-5

func near(a, b float32) bool {
	return math32.Abs(a-b) < eps
}

func TestHumanoidLayout(t *testing.T) {
	tall := DefaultHumanoid()
	tall.LegH = 2
	tall.TorsoH = 0.8
	tall.ArmH = 0.5
	tall.NeckGap = 0.2

	tests := []struct {
		name string
		h    Humanoid
	}{
		{"default", DefaultHumanoid()},
		{"resized", tall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.h
			spans := make(map[string][2]float32)
			for _, p := range h.Parts() {
				b, top := h.VerticalSpan(p)
				spans[p.Name] = [2]float32{b, top}
			}

			legTop := h.LegH
			torsoTop := h.LegH + h.TorsoH
			for _, leg := range []string{"leg.left", "leg.right"} {
				if s := spans[leg]; !near(s[0], 0) || !near(s[1], legTop) {
					t.Errorf("%s spans %v, want 0..%v", leg, s, legTop)
				}
			}
			if s := spans["torso"]; !near(s[0], legTop) || !near(s[1], torsoTop) {
				t.Errorf("torso spans %v, want %v..%v", s, legTop, torsoTop)
			}
			for _, arm := range []string{"arm.left", "arm.right"} {
				if s := spans[arm]; !near(s[1], torsoTop) {
					t.Errorf("%s top: got %v, want %v", arm, s[1], torsoTop)
				}
			}
			head := spans["head"]
			if !near(head[0], torsoTop+h.NeckGap) {
				t.Errorf("head bottom: got %v, want %v", head[0], torsoTop+h.NeckGap)
			}
			if !near(head[1], h.Height()) {
				t.Errorf("head top: got %v, want Height() %v", head[1], h.Height())
			}
		})
	}
}

func TestHumanoidColors(t *testing.T) {
	h := DefaultHumanoid()
	want := map[string]math.Vec4{
		"leg.left":  h.Pants,
		"leg.right": h.Pants,
		"torso":     h.Shirt,
		"arm.left":  h.Shirt,
		"arm.right": h.Shirt,
		"head":      h.Skin,
	}
	for _, p := range h.Parts() {
		if p.Color != want[p.Name] {
			t.Errorf("%s colour: got %v, want %v", p.Name, p.Color, want[p.Name])
		}
		if p.Textured {
			t.Errorf("%s should not be textured", p.Name)
		}
	}
}

func TestHumanoidArmsClearTorso(t *testing.T) {
	h := DefaultHumanoid()
	for _, p := range h.Parts() {
		if p.Name != "arm.left" && p.Name != "arm.right" {
			continue
		}
		inner := math32.Abs(p.Recipe.Offset.X) - p.Recipe.Scale.X/2
		if inner < h.TorsoW/2-eps {
			t.Errorf("%s inner edge %v overlaps torso half width %v", p.Name, inner, h.TorsoW/2)
		}
	}
}

func TestPartModelPlacesTorso(t *testing.T) {
	h := DefaultHumanoid()
	var torso Part
	for _, p := range h.Parts() {
		if p.Name == "torso" {
			torso = p
		}
	}
	origin := math.Vec3{X: 3, Z: -2}
	top := torso.Model(origin).TransformPoint(math.Vec3{Y: 0.5})
	if !near(top.X, 3) || !near(top.Y, h.LegH+h.TorsoH) || !near(top.Z, -2) {
		t.Errorf("torso top centre: got %+v, want (3, %v, -2)", top, h.LegH+h.TorsoH)
	}
}

func TestFacingDegrees(t *testing.T) {
	tests := []struct {
		dx, dz float32
		want   float32
	}{
		{0, -1, 0},
		{1, 0, 90},
		{0, 1, 180},
		{-1, 0, -90},
	}
	for _, tt := range tests {
		got, ok := FacingDegrees(tt.dx, tt.dz)
		if !ok || !near(got, tt.want) {
			t.Errorf("FacingDegrees(%v, %v) = %v, %v, want %v", tt.dx, tt.dz, got, ok, tt.want)
		}
	}
	if _, ok := FacingDegrees(0, 0); ok {
		t.Error("zero direction should report ok=false")
	}
}

func TestSpawnWithoutReplacement(t *testing.T) {
	pool := []math.Vec3{{X: 1}, {X: 2}, {X: 3}, {X: 4}, {X: 5}}
	gs := NewGhosts(rand.New(rand.NewPCG(7, 11)), 0.5, 1)

	if n := gs.Spawn(3, pool); n != 3 {
		t.Fatalf("spawned %d, want 3", n)
	}
	seen := make(map[math.Vec3]bool)
	for _, g := range gs.All() {
		if seen[g.Position] {
			t.Errorf("two ghosts share spawn %+v", g.Position)
		}
		seen[g.Position] = true
		if g.HasTarget {
			t.Error("new ghost should start without a target")
		}
		if g.Speed != 0.5 {
			t.Errorf("speed: got %v, want 0.5", g.Speed)
		}
		for i := 0; i < 3; i++ {
			if g.Color[i] < 0 || g.Color[i] >= 1 {
				t.Errorf("colour channel %d = %v out of [0,1)", i, g.Color[i])
			}
		}
		if g.Color[3] != 1 {
			t.Errorf("alpha: got %v, want 1", g.Color[3])
		}
	}
	for p := range seen {
		found := false
		for _, q := range pool {
			found = found || p == q
		}
		if !found {
			t.Errorf("spawn %+v is not from the pool", p)
		}
	}
	if pool[0].X != 1 || pool[4].X != 5 {
		t.Error("Spawn modified the caller's pool")
	}
}

func TestSpawnCappedByPool(t *testing.T) {
	gs := NewGhosts(rand.New(rand.NewPCG(1, 1)), 0.5, 1)
	if n := gs.Spawn(10, []math.Vec3{{X: 1}, {X: 2}}); n != 2 {
		t.Errorf("spawned %d, want 2", n)
	}
	if gs.Len() != 2 {
		t.Errorf("Len: got %d, want 2", gs.Len())
	}
}

func axisUnit(d math.Vec3, step float32) bool {
	d.Y = 0
	if d.X != 0 && d.Z != 0 {
		return false
	}
	return near(math32.Abs(d.X)+math32.Abs(d.Z), step)
}

func TestGhostFirstTickMoves(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	start := math.Vec3{X: 0.5, Z: 0.5}
	g := &Ghost{Position: start, Speed: 0.5}

	g.Update(0.05, 1, rng)
	if !g.HasTarget {
		t.Fatal("ghost has no target after first update")
	}
	if !axisUnit(g.Target.Sub(start), 1) {
		t.Errorf("first target %+v is not one axis unit from %+v", g.Target, start)
	}
	if moved := g.Position.Distance(start); !near(moved, 0.025) {
		t.Errorf("moved %v on the first tick, want 0.025", moved)
	}
}

func TestGhostWander(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	g := &Ghost{Position: math.Vec3{X: 0.5, Z: 0.5}, Speed: 0.5}
	g.Update(0.05, 1, rng)

	arrivals := 0
	for i := 0; i < 2000; i++ {
		before := g.Position
		target := g.Target
		g.Update(0.05, 1, rng)

		if !g.HasTarget {
			t.Fatalf("tick %d: ghost left without a target", i)
		}
		if g.Position.Y != 0 {
			t.Fatalf("tick %d: ghost left the floor, y=%v", i, g.Position.Y)
		}
		if g.Target != target {
			arrivals++
			if g.Position != target {
				t.Fatalf("tick %d: arrived at %+v, want snap to %+v", i, g.Position, target)
			}
			if !axisUnit(g.Target.Sub(g.Position), 1) {
				t.Fatalf("tick %d: new target %+v not one axis unit from %+v", i, g.Target, g.Position)
			}
			continue
		}
		if g.Position.Distance(target) > before.Distance(target)+eps {
			t.Fatalf("tick %d: moved away from target", i)
		}
	}
	// 2000 ticks of 0.025 units is 50 unit steps
	if arrivals < 45 {
		t.Errorf("arrivals: got %d, want about 50", arrivals)
	}
}

func TestGhostVelocityAndFacing(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	g := &Ghost{Speed: 0.5}
	g.Update(0.01, 1, rng)

	dir := g.Target.Sub(g.Position).Normalize()
	if !near(g.Velocity.Length(), 0.5) {
		t.Errorf("velocity magnitude: got %v, want 0.5", g.Velocity.Length())
	}
	if !near(g.Velocity.Dot(dir), 0.5) {
		t.Errorf("velocity %+v does not point at target direction %+v", g.Velocity, dir)
	}
	want, _ := FacingDegrees(dir.X, dir.Z)
	if !near(g.Facing, want) {
		t.Errorf("facing: got %v, want %v", g.Facing, want)
	}
}

func TestGhostsUpdateAll(t *testing.T) {
	gs := NewGhosts(rand.New(rand.NewPCG(5, 6)), 0.5, 2)
	gs.Spawn(3, []math.Vec3{{X: -4}, {X: 0}, {X: 4}})
	gs.Update(0.1)
	for i, g := range gs.All() {
		if !g.HasTarget {
			t.Errorf("ghost %d has no target", i)
		}
		if !axisUnit(g.Target.Sub(g.Position), 2-0.05) {
			t.Errorf("ghost %d: target %+v not 1.95 from %+v after one step", i, g.Target, g.Position)
		}
	}
}

func TestDemoGhost(t *testing.T) {
	g := NewDemoGhost()

	for i := 0; i < 120; i++ {
		g.Update(1.0/60, 1, 0)
	}
	if g.Velocity.X < 1.9 || g.Velocity.X > 2 {
		t.Errorf("velocity after 2s: got %v, want close to 2", g.Velocity.X)
	}
	if !near(g.Facing, 90) {
		t.Errorf("facing moving +X: got %v, want 90", g.Facing)
	}

	for i := 0; i < 600; i++ {
		g.Update(1.0/60, 1, 0)
	}
	if g.Position.X != g.Bound {
		t.Errorf("position: got %v, want clamped to %v", g.Position.X, g.Bound)
	}

	// releasing input keeps the last facing
	for i := 0; i < 600; i++ {
		g.Update(1.0/60, 0, 0)
	}
	if g.Velocity.Length() > 0.01 {
		t.Errorf("velocity after release: got %v, want ~0", g.Velocity.Length())
	}
	if !near(g.Facing, 90) {
		t.Errorf("facing after stop: got %v, want 90", g.Facing)
	}
}

func TestDemoGhostDiagonalNormalized(t *testing.T) {
	g := NewDemoGhost()
	g.Bound = 100
	for i := 0; i < 600; i++ {
		g.Update(1.0/60, 1, -1)
	}
	if s := g.Velocity.Length(); math32.Abs(s-g.Speed) > 1e-3 {
		t.Errorf("diagonal speed: got %v, want %v", s, g.Speed)
	}
	if !near(g.Facing, 45) {
		t.Errorf("facing: got %v, want 45", g.Facing)
	}
}
