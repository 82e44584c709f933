// Command maskdemo paints a scripted scene through the tilemask engine
// and writes the resulting composite as a PNG.
package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/tilemask"
)

// preset holds the tunable engine and brush settings loadable from a
// TOML file via -preset.
type preset struct {
	ChunkSize int `toml:"chunk_size"`

	Brush struct {
		Radius   float64 `toml:"radius"`
		Strength float64 `toml:"strength"`
		Hardness float64 `toml:"hardness"`
	} `toml:"brush"`

	Shape struct {
		Expansion int `toml:"expansion"`
		Feather   int `toml:"feather"`
	} `toml:"shape"`
}

func defaultPreset() preset {
	var p preset
	p.ChunkSize = tilemask.DefaultChunkSize
	p.Brush.Radius = 30
	p.Brush.Strength = 1
	p.Brush.Hardness = 0.6
	p.Shape.Expansion = 6
	p.Shape.Feather = 12
	return p
}

func loadPreset(path string) (preset, error) {
	p := defaultPreset()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := toml.Unmarshal(raw, &p); err != nil {
		return p, err
	}
	return p, nil
}

func main() {
	var (
		size       = flag.Int("size", 800, "scene extent in pixels")
		output     = flag.String("output", "mask.png", "output PNG file")
		presetPath = flag.String("preset", "", "TOML preset file")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	tilemask.SetLogger(logger)

	p, err := loadPreset(*presetPath)
	if err != nil {
		logger.Error("load preset", "path", *presetPath, "error", err)
		os.Exit(1)
	}

	eng := tilemask.New(tilemask.WithChunkSize(p.ChunkSize))
	eng.Stroke().SetBrush(tilemask.BrushProfile{
		Radius:   p.Brush.Radius,
		Strength: p.Brush.Strength,
		Hardness: p.Brush.Hardness,
	})

	start := time.Now()
	paintStrokes(eng, float64(*size))
	logger.Info("strokes painted", "elapsed", time.Since(start))

	start = time.Now()
	paintShapes(eng, float64(*size), p.Shape.Expansion, p.Shape.Feather)
	logger.Info("shapes applied", "elapsed", time.Since(start))

	start = time.Now()
	surface, origin := eng.Composite()
	logger.Info("composite built",
		"elapsed", time.Since(start),
		"width", surface.Width(),
		"height", surface.Height(),
		"origin", origin,
	)
	logger.Info("engine stats", "stats", eng.Stats())

	f, err := os.Create(*output)
	if err != nil {
		logger.Error("create output", "path", *output, "error", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := eng.EncodePNG(f); err != nil {
		logger.Error("encode png", "error", err)
		os.Exit(1)
	}
	logger.Info("demo saved", "path", *output)
}

// paintStrokes draws a sine wave and a diagonal slash across the scene.
func paintStrokes(eng *tilemask.Engine, size float64) {
	s := eng.Stroke()

	s.Begin(tilemask.Pt(size*0.05, size*0.5))
	for i := 1; i <= 60; i++ {
		t := float64(i) / 60
		x := size * (0.05 + 0.9*t)
		y := size * (0.5 + 0.25*math.Sin(t*4*math.Pi))
		s.Extend(tilemask.Pt(x, y))
	}
	s.End()

	s.Begin(tilemask.Pt(size*0.1, size*0.1))
	s.Extend(tilemask.Pt(size*0.4, size*0.35))
	s.End()
}

// paintShapes applies a feathered pentagon, then applies and removes a
// square to exercise the erase path.
func paintShapes(eng *tilemask.Engine, size float64, expansion, feather int) {
	cx, cy := size*0.7, size*0.25
	r := size * 0.12
	pentagon := make(tilemask.Shape, 5)
	for i := range pentagon {
		a := float64(i)*2*math.Pi/5 - math.Pi/2
		pentagon[i] = tilemask.Pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	if err := eng.Shapes().Apply(pentagon, expansion, feather, tilemask.Point{}); err != nil {
		slog.Error("apply pentagon", "error", err)
		os.Exit(1)
	}

	scratch := tilemask.Shape{
		tilemask.Pt(size*0.75, size*0.7),
		tilemask.Pt(size*0.9, size*0.7),
		tilemask.Pt(size*0.9, size*0.85),
		tilemask.Pt(size*0.75, size*0.85),
	}
	if err := eng.Shapes().Apply(scratch, 0, 0, tilemask.Point{}); err != nil {
		slog.Error("apply square", "error", err)
		os.Exit(1)
	}
	if err := eng.Shapes().Remove(scratch, 0, tilemask.Point{}); err != nil {
		slog.Error("remove square", "error", err)
		os.Exit(1)
	}
}
