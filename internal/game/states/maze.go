package states

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/config"
	"github.com/Faultbox/ghostmaze/internal/engine/input"
	"github.com/Faultbox/ghostmaze/internal/engine/renderer"
	"github.com/Faultbox/ghostmaze/internal/engine/texture"
	"github.com/Faultbox/ghostmaze/internal/game/level"
	"github.com/Faultbox/ghostmaze/internal/game/world"
	"github.com/Faultbox/ghostmaze/internal/logger"
)

// Services are the shared resources a state draws on. Textures and Sounds
// may be nil.
type Services struct {
	Config   *config.Config
	Renderer *renderer.Renderer
	Textures *texture.Loader
	Sounds   world.Sounds
	Rand     *rand.Rand
}

// WorldOptions maps the config onto session options.
func WorldOptions(cfg *config.Config) world.Options {
	return world.Options{
		PlayerSpeed:  cfg.Player.Speed,
		PlayerRadius: cfg.Player.Radius,
		GhostCount:   cfg.Ghosts.Count,
		GhostSpeed:   cfg.Ghosts.Speed,
		CatchRadius:  cfg.Ghosts.CatchRadius,
		FrustumHalf:  cfg.Camera.FrustumHalf,
		Near:         cfg.Camera.Near,
		Far:          cfg.Camera.Far,
	}
}

// MazeState runs the maze session.
type MazeState struct {
	svc  Services
	grid *level.Grid

	world *world.World
	floor *texture.Handle
	wall  *texture.Handle
	stats renderer.Stats
}

// NewMazeState creates the maze state for a loaded level.
func NewMazeState(svc Services, grid *level.Grid) *MazeState {
	return &MazeState{svc: svc, grid: grid}
}

// Name implements State.
func (s *MazeState) Name() string { return "maze" }

// Enter builds the session, uploads its meshes and starts the scenery
// texture loads.
func (s *MazeState) Enter() error {
	cfg := s.svc.Config
	s.world = world.New(s.grid, WorldOptions(cfg), s.svc.Rand, s.svc.Sounds)

	cam := s.world.Camera
	cam.Zoom = cfg.Camera.Zoom
	cam.MinZoom = cfg.Camera.MinZoom
	cam.MaxZoom = cfg.Camera.MaxZoom
	cam.Slope = cfg.Camera.Slope
	cam.DragSensitivity = cfg.Camera.DragSensitivity
	cam.ZoomSensitivity = cfg.Camera.ZoomSensitivity

	if err := s.world.Upload(s.svc.Renderer); err != nil {
		return fmt.Errorf("upload maze meshes: %w", err)
	}

	if s.svc.Textures != nil {
		if p := cfg.Textures.Floor; p != "" {
			s.floor = s.svc.Textures.Load(p)
		}
		if p := cfg.Textures.Wall; p != "" {
			s.wall = s.svc.Textures.Load(p)
		}
	}
	return nil
}

// Exit implements State.
func (s *MazeState) Exit() error {
	if s.world != nil {
		logger.Info("leaving maze", zap.Int("catches", s.world.Catches()))
	}
	return nil
}

// Update implements State.
func (s *MazeState) Update(dt float32, in *input.State) error {
	s.world.Update(dt, in)
	return nil
}

// Render implements State.
func (s *MazeState) Render(width, height int) error {
	params, err := s.world.FrameParams(width, height)
	if err != nil {
		return err
	}
	r := s.svc.Renderer
	r.BeginFrame(params)
	err = s.world.Draw(r, s.textures())
	s.stats = r.EndFrame()
	return err
}

func (s *MazeState) textures() world.Textures {
	var t world.Textures
	if s.floor != nil {
		t.Floor = s.floor.Texture()
	}
	if s.wall != nil {
		t.Wall = s.wall.Texture()
	}
	return t
}

// World returns the running session, nil before Enter.
func (s *MazeState) World() *world.World {
	return s.world
}

// Stats returns the counters of the last rendered frame.
func (s *MazeState) Stats() renderer.Stats {
	return s.stats
}
