package states

import (
	"fmt"

	"github.com/Faultbox/ghostmaze/internal/engine/camera"
	"github.com/Faultbox/ghostmaze/internal/engine/input"
	"github.com/Faultbox/ghostmaze/internal/engine/lighting"
	"github.com/Faultbox/ghostmaze/internal/engine/mesh"
	"github.com/Faultbox/ghostmaze/internal/engine/renderer"
	"github.com/Faultbox/ghostmaze/internal/game/entity"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Demo scene constants.
const (
	demoGhostMesh = "demo.ghost"
	demoGridMesh  = "demo.grid"
	demoGridHalf  = 6
	demoGridStep  = 0.5
)

var (
	demoClear     = [4]float32{0.06, 0.06, 0.08, 1}
	demoGridColor = math.Vec4{0.3, 0.3, 0.3, 1}
)

// DemoState shows a single arrow-key driven ghost over a line grid, seen
// by a camera that follows it.
type DemoState struct {
	svc Services

	Ghost  *entity.DemoGhost
	Camera *camera.FollowCamera
	Sun    lighting.Directional

	ghost *renderer.GPUMesh
	grid  *renderer.GPUMesh
	stats renderer.Stats
}

// NewDemoState creates the viewer state.
func NewDemoState(svc Services) *DemoState {
	return &DemoState{
		svc:    svc,
		Ghost:  entity.NewDemoGhost(),
		Camera: camera.NewFollowCamera(),
		Sun:    lighting.DemoSun(),
	}
}

// Name implements State.
func (s *DemoState) Name() string { return "demo" }

// Enter uploads the ghost and grid meshes.
func (s *DemoState) Enter() error {
	r := s.svc.Renderer

	var ok bool
	if s.ghost, ok = r.Mesh(demoGhostMesh); !ok {
		m, err := mesh.Ghost(0.6, 0.6, 28, 12)
		if err != nil {
			return fmt.Errorf("build ghost mesh: %w", err)
		}
		if s.ghost, err = r.Upload(demoGhostMesh, m); err != nil {
			return err
		}
	}
	if s.grid, ok = r.Mesh(demoGridMesh); !ok {
		lines, err := mesh.GridLines(demoGridHalf, demoGridStep)
		if err != nil {
			return fmt.Errorf("build grid: %w", err)
		}
		if s.grid, err = r.UploadLines(demoGridMesh, lines); err != nil {
			return err
		}
	}
	return nil
}

// Exit implements State.
func (s *DemoState) Exit() error { return nil }

// Update steers the ghost with the arrow keys.
func (s *DemoState) Update(dt float32, in *input.State) error {
	x := in.Axis(input.KeyLeft, input.KeyRight)
	z := in.Axis(input.KeyUp, input.KeyDown)
	s.Ghost.Update(dt, x, z)
	return nil
}

// Render implements State.
func (s *DemoState) Render(width, height int) error {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	target := s.Ghost.Position
	view, err := s.Camera.View(target)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}

	r := s.svc.Renderer
	r.BeginFrame(renderer.FrameParams{
		Width:      width,
		Height:     height,
		ClearColor: demoClear,
		View:       view,
		Projection: s.Camera.Projection(aspect),
		Eye:        s.Camera.Eye(target),
		Ambient:    s.Sun.Ambient,
		LightDir:   s.Sun.Direction,
	})
	defer func() { s.stats = r.EndFrame() }()

	if err := r.Draw(renderer.DrawCall{
		Mesh:  s.grid,
		Model: math.Identity(),
		Color: demoGridColor,
		Unlit: true,
	}); err != nil {
		return err
	}
	p := s.Ghost.Part()
	return r.Draw(renderer.DrawCall{
		Mesh:  s.ghost,
		Model: p.Model(target),
		Color: p.Color,
	})
}

// Stats returns the counters of the last rendered frame.
func (s *DemoState) Stats() renderer.Stats {
	return s.stats
}
