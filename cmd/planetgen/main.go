// planetgen generates procedural planet meshes and reports on them.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ChenRaptor/procedural-universe/internal/config"
	"github.com/ChenRaptor/procedural-universe/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg.Planet)

	if err := run(cfg, config.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		}
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `planetgen - procedural planet mesh generator

Usage:
  planetgen [flags] <command> [options]

Commands:
  generate                 Build the planet and print mesh statistics (default)
  lods                     Build the LOD chain and print per-level counts
  atmosphere               Build the atmosphere shell and print its counts
  probe [-depth n] <lat> <lon>
                           Describe the terrain at a latitude/longitude in degrees
  config [-o file]         Print the effective configuration as YAML

Flags:
  -config <file>           Config file (default ./planetgen.yaml)
  -debug                   Enable debug logging
  -subdivisions <n>        Icosphere subdivision depth
  -seed <n>                Noise seed (0 = reference permutation)
  -noise <backend>         Noise backend: classic, opensimplex, perlin
  -workers <n>             Worker goroutines (0 = one per CPU)
  -sea-level <r>           Sea level radius
  -equator                 Paint the equator red

Examples:
  planetgen -subdivisions 7 generate
  planetgen -noise opensimplex -seed 42 probe 45.5 -73.6
  planetgen config -o planetgen.yaml`)
}
