// Package config handles game configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Camera   CameraConfig   `yaml:"camera"`
	Player   PlayerConfig   `yaml:"player"`
	Ghosts   GhostConfig    `yaml:"ghosts"`
	Level    LevelConfig    `yaml:"level"`
	Textures TextureConfig  `yaml:"textures"`
	Assets   AssetConfig    `yaml:"assets"`
	Game     GameConfig     `yaml:"game"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// AudioConfig holds audio settings. Music and CaughtSound are optional WAV
// files; an empty CaughtSound plays a generated tone.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	MusicVolume  float32 `yaml:"music_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
	Music        string  `yaml:"music"`
	CaughtSound  string  `yaml:"caught_sound"`
}

// CameraConfig holds the orbit camera and projection settings.
type CameraConfig struct {
	Zoom            float32 `yaml:"zoom"`
	MinZoom         float32 `yaml:"min_zoom"`
	MaxZoom         float32 `yaml:"max_zoom"`
	Slope           float32 `yaml:"slope"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
	FrustumHalf     float32 `yaml:"frustum_half"` // half-height of the near plane
	Near            float32 `yaml:"near"`
	Far             float32 `yaml:"far"`
}

// PlayerConfig holds player movement settings.
type PlayerConfig struct {
	Speed  float32 `yaml:"speed"` // world units per second
	Radius float32 `yaml:"radius"`
}

// GhostConfig holds ghost spawning and wander settings.
type GhostConfig struct {
	Count       int     `yaml:"count"`
	Speed       float32 `yaml:"speed"`
	Seed        int64   `yaml:"seed"` // 0 seeds from the clock
	CatchRadius float32 `yaml:"catch_radius"`
}

// LevelConfig selects the maze. An empty path uses the built-in level.
type LevelConfig struct {
	Path string `yaml:"path"`
}

// TextureConfig holds image paths for the textured scenery.
type TextureConfig struct {
	Floor string `yaml:"floor"`
	Wall  string `yaml:"wall"`
}

// AssetConfig lists extra directories searched for textures, sounds and
// levels. They take priority over the working directory and the directory
// of the executable.
type AssetConfig struct {
	Roots []string `yaml:"roots"`
}

// GameConfig holds frame loop settings.
type GameConfig struct {
	ShowFPS       bool          `yaml:"show_fps"`
	MaxStep       time.Duration `yaml:"max_step"`
	ScreenshotDir string        `yaml:"screenshot_dir"` // F12 writes PNGs here
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			MusicVolume:  0.6,
			SFXVolume:    0.8,
		},
		Camera: CameraConfig{
			Zoom:            32,
			MinZoom:         15,
			MaxZoom:         60,
			Slope:           1.2,
			DragSensitivity: 0.01,
			ZoomSensitivity: 0.02,
			FrustumHalf:     0.6,
			Near:            1,
			Far:             200,
		},
		Player: PlayerConfig{
			Speed:  6,
			Radius: 0.3,
		},
		Ghosts: GhostConfig{
			Count:       4,
			Speed:       0.5,
			CatchRadius: 0.6,
		},
		Textures: TextureConfig{
			Floor: "assets/ground_texture.png",
			Wall:  "assets/wall_texture.png",
		},
		Game: GameConfig{
			MaxStep:       50 * time.Millisecond,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the game cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MinZoom > c.Camera.MaxZoom {
		errs = append(errs, fmt.Errorf("camera: zoom range %v..%v", c.Camera.MinZoom, c.Camera.MaxZoom))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: clip range %v..%v", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FrustumHalf <= 0 {
		errs = append(errs, fmt.Errorf("camera: frustum_half %v", c.Camera.FrustumHalf))
	}
	if c.Player.Speed <= 0 || c.Player.Radius <= 0 {
		errs = append(errs, fmt.Errorf("player: speed %v, radius %v", c.Player.Speed, c.Player.Radius))
	}
	if c.Ghosts.Count < 0 || c.Ghosts.Speed < 0 {
		errs = append(errs, fmt.Errorf("ghosts: count %d, speed %v", c.Ghosts.Count, c.Ghosts.Speed))
	}
	if c.Game.MaxStep <= 0 {
		errs = append(errs, fmt.Errorf("game: max_step %v", c.Game.MaxStep))
	}
	return errors.Join(errs...)
}
