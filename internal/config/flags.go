package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagLevel      = flag.String("level", "", "Path to a level YAML file")
	flagGhosts     = flag.Int("ghosts", -1, "Number of ghosts to spawn")
	flagSeed       = flag.Int64("seed", 0, "Random seed for ghost spawning and wandering")
	flagMute       = flag.Bool("mute", false, "Disable audio")
	flagAssets     = flag.String("assets", "", "Extra directory searched for textures, sounds and levels")
	flagDump       = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// DumpPath returns the --write-config destination, or "".
func DumpPath() string {
	return *flagDump
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Game.ShowFPS = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagLevel != "" {
		cfg.Level.Path = *flagLevel
	}
	if *flagGhosts >= 0 {
		cfg.Ghosts.Count = *flagGhosts
	}
	if *flagSeed != 0 {
		cfg.Ghosts.Seed = *flagSeed
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
	if *flagAssets != "" {
		cfg.Assets.Roots = append(cfg.Assets.Roots, *flagAssets)
	}
}
