// Package main runs the single ghost viewer: arrow keys steer a ghost
// over a grid while the camera follows it.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/config"
	"github.com/Faultbox/ghostmaze/internal/game"
	"github.com/Faultbox/ghostmaze/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	g, err := game.New(cfg, game.ModeDemo)
	if err != nil {
		logger.Error("failed to create demo", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	err = g.Run()
	g.Close()
	if err != nil {
		logger.Error("demo error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
