// Package world runs a maze session: the player, the ghosts, the orbit
// camera and the list of parts drawn each frame.
package world

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/engine/camera"
	"github.com/Faultbox/ghostmaze/internal/engine/gfx"
	"github.com/Faultbox/ghostmaze/internal/engine/input"
	"github.com/Faultbox/ghostmaze/internal/engine/lighting"
	"github.com/Faultbox/ghostmaze/internal/engine/mesh"
	"github.com/Faultbox/ghostmaze/internal/engine/renderer"
	"github.com/Faultbox/ghostmaze/internal/engine/transform"
	"github.com/Faultbox/ghostmaze/internal/game/entity"
	"github.com/Faultbox/ghostmaze/internal/game/level"
	"github.com/Faultbox/ghostmaze/internal/logger"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// SoundCaught is the effect played when a ghost reaches the player.
const SoundCaught = "caught"

// Scenery dimensions.
const (
	WallHeight    = 1.5
	FloorRepeat   = 5
	LightHeight   = 15
	SceneAmbient  = 0.2
	catchCooldown = 1.5 // seconds
)

// Scenery colours, shown when a texture is not configured.
var (
	FloorColor = math.Vec4{0.5, 0.5, 0.5, 1}
	WallColor  = math.Vec4{0, 0, 1, 1}
)

// ErrMissingMesh is returned by Draw when a shape was never uploaded.
var ErrMissingMesh = errors.New("mesh not uploaded")

// Sounds plays named effects.
type Sounds interface {
	PlaySFX(name string) error
}

// Drawer accepts draw calls for uploaded meshes. *renderer.Renderer
// implements it.
type Drawer interface {
	Mesh(name string) (*renderer.GPUMesh, bool)
	Draw(call renderer.DrawCall) error
}

// Textures are the scenery textures. Zero handles draw untextured.
type Textures struct {
	Floor gfx.Texture
	Wall  gfx.Texture
}

// For returns the texture a textured part of shape s is drawn with.
func (t Textures) For(s entity.Shape) gfx.Texture {
	switch s {
	case entity.ShapeFloor:
		return t.Floor
	case entity.ShapeCube:
		return t.Wall
	default:
		return 0
	}
}

// Options tune a session.
type Options struct {
	PlayerSpeed  float32
	PlayerRadius float32
	GhostCount   int
	GhostSpeed   float32
	CatchRadius  float32

	FrustumHalf float32
	Near, Far   float32
}

// DefaultOptions returns the session defaults.
func DefaultOptions() Options {
	return Options{
		PlayerSpeed:  6,
		PlayerRadius: 0.3,
		GhostCount:   4,
		GhostSpeed:   0.5,
		CatchRadius:  0.6,
		FrustumHalf:  0.6,
		Near:         1,
		Far:          200,
	}
}

// World is one maze session.
type World struct {
	Grid   *level.Grid
	Player *Player
	Ghosts *entity.Ghosts
	Camera *camera.OrbitCamera
	Figure entity.Humanoid
	Lights *lighting.PointLightBuffer

	opts     Options
	sounds   Sounds
	cooldown float32
	catches  int
}

// New starts a session on g with the player at the level start and the
// ghosts spawned from the level's spawn pool. sounds may be nil.
func New(g *level.Grid, opts Options, rng *rand.Rand, sounds Sounds) *World {
	w := &World{
		Grid:   g,
		Player: NewPlayer(g.StartPosition(), opts.PlayerSpeed, opts.PlayerRadius),
		Ghosts: entity.NewGhosts(rng, opts.GhostSpeed, g.CellSize()),
		Camera: camera.NewOrbitCamera(),
		Figure: entity.DefaultHumanoid(),
		Lights: lighting.NewPointLightBuffer(),
		opts:   opts,
		sounds: sounds,
	}
	w.Lights.SetLights(lighting.MazeLights(g.Extent(), LightHeight))

	if n := w.Ghosts.Spawn(opts.GhostCount, g.SpawnPositions()); n < opts.GhostCount {
		logger.Warn("spawn pool smaller than ghost count",
			zap.Int("requested", opts.GhostCount),
			zap.Int("spawned", n))
	}
	logger.Info("maze ready",
		zap.String("level", g.Name),
		zap.Int("size", g.Size()),
		zap.Int("walls", len(g.Walls())),
		zap.Int("ghosts", w.Ghosts.Len()))
	return w
}

// Catches returns how many times a ghost has reached the player.
func (w *World) Catches() int {
	return w.catches
}

// Update advances the session by dt seconds.
func (w *World) Update(dt float32, in *input.State) {
	if in.DragX != 0 {
		w.Camera.HandleDrag(in.DragX)
	}
	if in.Wheel != 0 {
		w.Camera.HandleZoom(in.Wheel)
	}

	dx, dz := MoveInput(in)
	w.Player.Move(dx, dz, dt, w.Grid)
	w.Ghosts.Update(dt)

	if w.cooldown > 0 {
		w.cooldown -= dt
		return
	}
	w.checkCatch()
}

// checkCatch sends the player back to the start when any ghost is within
// the catch radius on the XZ plane.
func (w *World) checkCatch() {
	p := w.Player.Position.XZ()
	for i, g := range w.Ghosts.All() {
		if g.Position.XZ().Distance(p) >= w.opts.CatchRadius {
			continue
		}
		w.catches++
		w.cooldown = catchCooldown
		logger.Info("caught by ghost",
			zap.Int("ghost", i),
			zap.Int("catches", w.catches))
		if w.sounds != nil {
			if err := w.sounds.PlaySFX(SoundCaught); err != nil {
				logger.Warn("caught sound failed", zap.Error(err))
			}
		}
		w.Player.Position = w.Grid.StartPosition()
		return
	}
}

// Meshes builds every mesh the maze draws, keyed by shape.
func Meshes(g *level.Grid) (map[entity.Shape]*mesh.Mesh, error) {
	cube, err := mesh.Cube(1)
	if err != nil {
		return nil, err
	}
	head, err := mesh.Sphere(0.5, 24)
	if err != nil {
		return nil, err
	}
	ghost, err := mesh.Ghost(0.5, 0.6, 20, 10)
	if err != nil {
		return nil, err
	}
	floor, err := mesh.Plane(g.Extent(), FloorRepeat)
	if err != nil {
		return nil, err
	}
	return map[entity.Shape]*mesh.Mesh{
		entity.ShapeCube:   cube,
		entity.ShapeSphere: head,
		entity.ShapeGhost:  ghost,
		entity.ShapeFloor:  floor,
	}, nil
}

// Upload builds the maze meshes and uploads the ones r does not hold yet.
func (w *World) Upload(r *renderer.Renderer) error {
	meshes, err := Meshes(w.Grid)
	if err != nil {
		return fmt.Errorf("build meshes: %w", err)
	}
	for shape, m := range meshes {
		if _, ok := r.Mesh(shape.String()); ok {
			continue
		}
		if _, err := r.Upload(shape.String(), m); err != nil {
			return err
		}
	}
	return nil
}

// FrameParams returns the camera and light setup for a width x height
// target.
func (w *World) FrameParams(width, height int) (renderer.FrameParams, error) {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	view, err := w.Camera.View()
	if err != nil {
		return renderer.FrameParams{}, fmt.Errorf("view: %w", err)
	}
	proj, err := camera.Projection(aspect, w.opts.FrustumHalf, w.opts.Near, w.opts.Far)
	if err != nil {
		return renderer.FrameParams{}, fmt.Errorf("projection: %w", err)
	}
	return renderer.FrameParams{
		Width:          width,
		Height:         height,
		View:           view,
		Projection:     proj,
		Eye:            w.Camera.Eye(),
		Ambient:        SceneAmbient,
		LightPositions: w.Lights.Positions(),
	}, nil
}

// Placed is a part with its final model matrix.
type Placed struct {
	Part    entity.Part
	Model   math.Mat4
	Texture gfx.Texture
}

// DrawList returns the frame's parts in draw order: textured floor and
// walls first, then the untextured figure and ghosts. Only parts marked
// Textured receive a texture.
func (w *World) DrawList(tex Textures) []Placed {
	walls := w.Grid.Walls()
	list := make([]Placed, 0, 1+len(walls)+6+w.Ghosts.Len())
	place := func(p entity.Part, origin math.Vec3) {
		pl := Placed{Part: p, Model: p.Model(origin)}
		if p.Textured {
			pl.Texture = tex.For(p.Shape)
		}
		list = append(list, pl)
	}

	place(entity.Part{
		Name:     "floor",
		Shape:    entity.ShapeFloor,
		Recipe:   transform.Uniform(math.Vec3{}, 1),
		Color:    FloorColor,
		Textured: true,
	}, math.Vec3{})

	cell := w.Grid.CellSize()
	for _, c := range walls {
		place(entity.Part{
			Name:     "wall",
			Shape:    entity.ShapeCube,
			Recipe:   transform.Box(math.Vec3{Y: WallHeight / 2}, cell, WallHeight, cell),
			Color:    WallColor,
			Textured: true,
		}, w.Grid.CellCenter(c))
	}

	for _, p := range w.Figure.Parts() {
		place(p, w.Player.Position)
	}
	for _, g := range w.Ghosts.All() {
		place(g.Part(), g.Position)
	}
	return list
}

// Draw issues the frame's draw calls. A failed part is skipped and the
// rest are still drawn; the failures are returned joined.
func (w *World) Draw(d Drawer, tex Textures) error {
	var errs []error
	for _, p := range w.DrawList(tex) {
		m, ok := d.Mesh(p.Part.Shape.String())
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w: %s", p.Part.Name, ErrMissingMesh, p.Part.Shape))
			continue
		}
		err := d.Draw(renderer.DrawCall{
			Mesh:    m,
			Model:   p.Model,
			Color:   p.Part.Color,
			Texture: p.Texture,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Part.Name, err))
		}
	}
	return errors.Join(errs...)
}
