package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ChenRaptor/procedural-universe/internal/config"
	"github.com/ChenRaptor/procedural-universe/internal/logger"
	"github.com/ChenRaptor/procedural-universe/internal/planet"
	"github.com/ChenRaptor/procedural-universe/internal/terrain"
)

var errUsage = errors.New("invalid usage")

// run dispatches one command. Output goes to w; diagnostics go to the logger.
func run(cfg *config.Config, args []string, w io.Writer) error {
	command := "generate"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "generate", "gen":
		return cmdGenerate(cfg, w)
	case "lods":
		return cmdLODs(cfg, w)
	case "atmosphere", "atmo":
		return cmdAtmosphere(cfg, w)
	case "probe":
		return cmdProbe(cfg, args, w)
	case "config":
		return cmdConfig(cfg, args, w)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func newGenerator(cfg *config.Config) (*planet.Generator, error) {
	return planet.New(cfg.Planet, planet.WithLogger(logger.Named("planet")))
}

func cmdGenerate(cfg *config.Config, w io.Writer) error {
	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	start := time.Now()
	mesh, err := g.Generate()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	logger.Info("planet generated",
		zap.Int("subdivisions", mesh.Subdivisions),
		zap.Duration("elapsed", elapsed))

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Subdivisions: %d\n", mesh.Subdivisions)
	printMeshStats(p, w, mesh)
	p.Fprintf(w, "Time:         %v\n", elapsed.Round(time.Millisecond))
	return nil
}

func cmdLODs(cfg *config.Config, w io.Writer) error {
	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	lods, err := g.GenerateLODs()
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%-6s %12s %12s %8s\n", "LOD", "Vertices", "Triangles", "Ocean")
	for _, mesh := range lods {
		s := mesh.Stats()
		p.Fprintf(w, "%-6d %12d %12d %7.1f%%\n", mesh.Subdivisions, s.Vertices, s.Triangles, s.OceanRatio*100)
	}
	return nil
}

func cmdAtmosphere(cfg *config.Config, w io.Writer) error {
	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	mesh, err := g.Atmosphere()
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Subdivisions: %d\n", mesh.Subdivisions)
	p.Fprintf(w, "Radius:       %.4f\n", cfg.Planet.Terrain.Radius*cfg.Planet.Atmosphere.Scale)
	p.Fprintf(w, "Color:        %s\n", cfg.Planet.Atmosphere.Color)
	p.Fprintf(w, "Vertices:     %d\n", mesh.VertexCount())
	p.Fprintf(w, "Triangles:    %d\n", mesh.TriangleCount())
	return nil
}

func cmdProbe(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	depth := fs.Int("depth", -1, "Also report the nearest vertex of the mesh at this depth")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: probe needs <lat> <lon>", errUsage)
	}

	lat, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %q must be a number in [-90, 90]", errUsage, fs.Arg(0))
	}
	lon, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("%w: longitude %q must be a number", errUsage, fs.Arg(1))
	}

	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	p := message.NewPrinter(language.English)
	dir := planet.Direction(lat, lon)
	s := g.Deformer().Sample(dir)

	// A mesh is only built when the nearest vertex is asked for.
	if *depth >= 0 {
		mesh, err := g.GenerateAt(*depth)
		if err != nil {
			return err
		}
		var idx int
		idx, s, err = g.Describe(mesh, dir)
		if err != nil {
			return err
		}
		dir = mesh.Topology.Vertices[idx]
		p.Fprintf(w, "Vertex:      %d\n", idx)
	}

	pos := dir.Scale(float32(s.Radius))
	p.Fprintf(w, "Position:    (%.4f, %.4f, %.4f)\n", pos.X, pos.Y, pos.Z)
	p.Fprintf(w, "Biome:       %s\n", s.Biome)
	p.Fprintf(w, "Radius:      %.5f\n", s.Radius)
	p.Fprintf(w, "Latitude:    %.4f\n", s.Latitude)
	if !s.Ocean {
		p.Fprintf(w, "Altitude:    %.4f\n", s.Altitude)
		p.Fprintf(w, "Temperature: %.4f\n", s.Temperature)
		p.Fprintf(w, "Humidity:    %.4f\n", s.Humidity)
	}
	p.Fprintf(w, "Color:       %s\n", g.Deformer().Color(s))
	return nil
}

func cmdConfig(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	output := fs.String("o", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *output != "" {
		if err := cfg.SaveTo(*output); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Info("config written", zap.String("path", *output))
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func printMeshStats(p *message.Printer, w io.Writer, mesh *planet.Mesh) {
	s := mesh.Stats()
	b := mesh.Bounds

	p.Fprintf(w, "Vertices:     %d\n", s.Vertices)
	p.Fprintf(w, "Triangles:    %d\n", s.Triangles)
	p.Fprintf(w, "Bounds:       (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	p.Fprintf(w, "Ocean:        %.1f%%\n", s.OceanRatio*100)
	p.Fprintln(w, "Biomes:")
	for _, biome := range terrain.Biomes {
		n := s.Biomes[biome]
		if n == 0 {
			continue
		}
		p.Fprintf(w, "  %-10s %12d  %5.1f%%\n", biome, n, 100*float64(n)/float64(s.Vertices))
	}
}
