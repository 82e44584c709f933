// Package tilemask provides a sparse, tile-backed alpha mask engine for
// layer-based image editors.
//
// # Overview
//
// tilemask stores a single-channel (alpha) mask of unbounded extent as a
// sparse grid of fixed-size chunks, allocated lazily as painting touches
// them. A cached composite raster is assembled on demand from the
// non-empty chunks for renderers that want one contiguous surface per
// frame.
//
// # Quick Start
//
//	import "github.com/gogpu/tilemask"
//
//	eng := tilemask.New()
//
//	// Paint a brush stroke
//	s := eng.Stroke()
//	s.Begin(tilemask.Pt(10, 10))
//	s.Extend(tilemask.Pt(200, 80))
//	s.End()
//
//	// Read the composite for rendering
//	surface, origin := eng.Composite()
//	_ = surface
//	_ = origin
//
// # Architecture
//
// The engine is organized into:
//   - Public API: Engine, ChunkStore, StrokeEngine, ShapeMaskOperator,
//     Mask, morphology and contour functions
//   - Internal: raster (scanline polygon fill), blend (alpha compositing)
//   - Integration: ebitenmask (Ebitengine adapter)
//
// # Coordinate System
//
// World coordinates use standard computer graphics conventions: origin
// at top-left, X increases right, Y increases down. Chunk (tile)
// coordinates are world coordinates divided by the chunk size, rounded
// toward negative infinity.
//
// # Concurrency
//
// An Engine is single-threaded and owned by one editing session.
// Mutations run synchronously on the caller's goroutine; continuous
// input (drag painting, slider previews) is trailing-edge throttled
// through a cooperative Tick pump rather than parallelized.
package tilemask

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
