// Package game owns the window, the frame loop and the shared services the
// states run on.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/assets"
	"github.com/Faultbox/ghostmaze/internal/config"
	"github.com/Faultbox/ghostmaze/internal/engine/gfx"
	"github.com/Faultbox/ghostmaze/internal/engine/gfx/opengl"
	"github.com/Faultbox/ghostmaze/internal/engine/input"
	"github.com/Faultbox/ghostmaze/internal/engine/renderer"
	"github.com/Faultbox/ghostmaze/internal/engine/renderer/shaders"
	"github.com/Faultbox/ghostmaze/internal/engine/screenshot"
	"github.com/Faultbox/ghostmaze/internal/engine/texture"
	"github.com/Faultbox/ghostmaze/internal/engine/window"
	"github.com/Faultbox/ghostmaze/internal/game/level"
	"github.com/Faultbox/ghostmaze/internal/game/states"
	"github.com/Faultbox/ghostmaze/internal/logger"
)

// Mode selects what the game runs.
type Mode int

const (
	// ModeMaze runs the maze with the orbit camera.
	ModeMaze Mode = iota
	// ModeDemo runs the single ghost viewer.
	ModeDemo
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeDemo {
		return "demo"
	}
	return "maze"
}

// Game is the main game instance.
type Game struct {
	cfg     *config.Config
	mode    Mode
	title   string
	running bool
	showFPS bool

	window   *window.Window
	gl       *opengl.Context
	program  gfx.Program
	renderer *renderer.Renderer
	assets   *assets.Manager
	textures *texture.Loader
	audio    *Audio
	input    *input.Input
	states   *states.Manager
	shots    *screenshot.Capture

	frameLog *zap.Logger
}

// New opens the window, compiles the shaders and prepares the first state.
// Any failure here is fatal; audio problems only disable sound.
func New(cfg *config.Config, mode Mode) (*Game, error) {
	logger.Info("initializing game",
		zap.String("mode", mode.String()),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	g := &Game{
		cfg:      cfg,
		mode:     mode,
		showFPS:  cfg.Game.ShowFPS,
		assets:   assets.NewManager(append(assets.DefaultRoots(), cfg.Assets.Roots...)...),
		input:    input.New(),
		states:   states.NewManager(),
		shots:    screenshot.New(cfg.Game.ScreenshotDir, "ghost"+mode.String()),
		frameLog: logger.Sampled("frame"),
	}
	logger.Debug("asset roots", zap.Strings("roots", g.assets.Roots()))

	g.title = "Ghost Maze"
	if mode == ModeDemo {
		g.title = "Ghost Demo"
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      g.title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := g.initGraphics(); err != nil {
		g.Close()
		return nil, err
	}

	svc := states.Services{
		Config:   cfg,
		Renderer: g.renderer,
		Textures: g.textures,
		Rand:     newRand(cfg.Ghosts.Seed),
	}

	switch mode {
	case ModeDemo:
		g.states.Change(states.NewDemoState(svc))
	default:
		grid, err := g.loadLevel(cfg.Level.Path)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to load level: %w", err)
		}
		g.audio = NewAudio(cfg.Audio, g.assets.Load)
		if g.audio.Enabled() {
			svc.Sounds = g.audio
		}
		g.states.Change(states.NewMazeState(svc, grid))
	}

	logger.Info("game initialized successfully")
	return g, nil
}

func (g *Game) initGraphics() error {
	var err error
	g.gl, err = opengl.New()
	if err != nil {
		return err
	}

	vs, fs := shaders.SceneVertexShader, shaders.SceneFragmentShader
	if g.mode == ModeDemo {
		vs, fs = shaders.DemoVertexShader, shaders.DemoFragmentShader
	}
	g.program, err = g.gl.CompileProgram(g.mode.String(), vs, fs)
	if err != nil {
		return fmt.Errorf("failed to build shaders: %w", err)
	}

	g.renderer = renderer.New(g.gl, g.program)
	g.textures = texture.NewLoader(g.gl)
	g.textures.SetReader(g.assets.Load)
	return nil
}

// loadLevel reads a level through the asset roots, or returns the built-in
// maze for an empty path.
func (g *Game) loadLevel(path string) (*level.Grid, error) {
	if path == "" {
		return level.Builtin(level.DefaultName)
	}
	grid, err := level.LoadWith(g.assets.Load, path)
	if err != nil {
		return nil, err
	}
	logger.Info("level loaded", zap.String("path", path), zap.String("name", grid.Name))
	return grid, nil
}

// newRand seeds from the clock when seed is zero.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Debug("random seed", zap.Int64("seed", seed))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// clampStep limits a frame delta so a stall does not turn into one huge
// simulation step. A non-positive limit disables clamping.
func clampStep(dt, limit time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	if limit > 0 && dt > limit {
		return limit
	}
	return dt
}

// frameBudget returns the minimum frame time for an FPS limit, or 0.
func frameBudget(fpsLimit int) time.Duration {
	if fpsLimit <= 0 {
		return 0
	}
	return time.Second / time.Duration(fpsLimit)
}

// Run drives the frame loop until the window closes or Escape is pressed.
// Errors from a single frame are logged and the loop continues; a failed
// state transition ends it.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	budget := frameBudget(g.cfg.Graphics.FPSLimit)
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting game loop")

	for g.running {
		frameStart := time.Now()
		dt := clampStep(frameStart.Sub(lastTime), g.cfg.Game.MaxStep)
		lastTime = frameStart

		in := g.input.Update()
		if in.Quit || in.Pressed(input.KeyEscape) {
			g.running = false
			break
		}
		if in.Pressed(input.KeyF1) {
			g.showFPS = !g.showFPS
			if !g.showFPS {
				g.window.SetTitle(g.title)
			}
		}
		if in.Pressed(input.KeyM) && g.audio != nil {
			logger.Info("audio", zap.Bool("muted", g.audio.ToggleMute()))
		}
		if in.Resized {
			logger.Debug("window resized", zap.Int("width", in.Width), zap.Int("height", in.Height))
		}

		g.textures.Poll()

		if err := g.states.Update(float32(dt.Seconds()), in); err != nil {
			if errors.Is(err, states.ErrTransition) {
				return err
			}
			g.frameLog.Error("update failed", zap.Error(err))
		}

		w, h := g.window.DrawableSize()
		if err := g.states.Render(w, h); err != nil {
			g.frameLog.Error("render failed", zap.Error(err))
		}
		if in.Pressed(input.KeyF12) {
			g.screenshot(w, h)
		}

		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.showFPS {
				g.window.SetTitle(fmt.Sprintf("%s | %d FPS", g.title, frameCount))
				logger.Debug("fps",
					zap.Int("count", frameCount),
					zap.Duration("dt", dt),
				)
			}
			frameCount = 0
			fpsTimer = time.Now()
		}

		if budget > 0 {
			if rest := budget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

// screenshot saves the frame just rendered, before it is swapped.
func (g *Game) screenshot(w, h int) {
	path, err := g.shots.SavePixels(g.gl.ReadPixels(w, h), w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up game resources.
func (g *Game) Close() {
	logger.Info("closing game")

	if err := g.states.Close(); err != nil {
		logger.Warn("state exit failed", zap.Error(err))
	}
	if g.textures != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := g.textures.Wait(ctx); err != nil {
			logger.Warn("texture loads still pending at exit", zap.Error(err))
		}
		cancel()
		g.textures.Close()
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.assets != nil {
		hits, misses, bytes := g.assets.Cache().Stats()
		logger.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses), zap.Int("bytes", bytes))
		g.assets.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.gl != nil && g.program != 0 {
		g.gl.DeleteProgram(g.program)
	}
	if g.window != nil {
		g.window.Close()
	}
}
