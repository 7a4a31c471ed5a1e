package config

import (
	"flag"
	"fmt"
	"math"
	"strconv"
)

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagSubdivisions = flag.Int("subdivisions", -1, "Icosphere subdivision depth")
	flagSeed         = flag.String("seed", "", "Noise seed (0 = reference permutation)")
	flagNoise        = flag.String("noise", "", "Noise backend: classic, opensimplex, perlin")
	flagWorkers      = flag.Int("workers", -1, "Worker goroutines (0 = one per CPU)")
	flagSeaLevel     = flag.Float64("sea-level", math.NaN(), "Sea level radius (NaN = from config)")
	flagEquator      = flag.Bool("equator", false, "Paint the equator red")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSubdivisions >= 0 {
		cfg.Planet.Subdivisions = *flagSubdivisions
	}
	if *flagSeed != "" {
		seed, err := strconv.ParseInt(*flagSeed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid -seed %q: %w", *flagSeed, err)
		}
		cfg.Planet.Noise.Seed = seed
	}
	if *flagNoise != "" {
		cfg.Planet.Noise.Backend = *flagNoise
	}
	if *flagWorkers >= 0 {
		cfg.Planet.Workers = *flagWorkers
	}
	if !math.IsNaN(*flagSeaLevel) {
		cfg.Planet.Terrain.SeaLevel = *flagSeaLevel
	}
	if *flagEquator {
		cfg.Planet.Terrain.ShowEquator = true
	}
	return nil
}
