package tilemask

import (
	"github.com/gogpu/tilemask/cache"
	"github.com/gogpu/tilemask/internal/blend"
)

// Engine is one editing session's mask state: the sparse chunk store,
// the cached composite, and the stroke and shape mutators that feed it.
// Each session owns its own Engine; there is no package-level state
// beyond the logger.
//
// The engine is single-threaded by design. Mutations run to completion
// on the caller's goroutine and the composite is rebuilt lazily on the
// next read.
type Engine struct {
	opts   engineOptions
	store  *ChunkStore
	comp   *ActiveCompositor
	stroke *StrokeEngine
	shapes *ShapeMaskOperator
	stamps *cache.Cache[uint64, *Mask]
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	store := newChunkStore(o.chunkSize, o.maxActiveChunks, o.activationPadding, o.clock)
	comp := newCompositor(store, o.clock, o.throttleInterval)
	stamps := cache.New[uint64, *Mask](o.stampCacheCapacity)

	return &Engine{
		opts:   o,
		store:  store,
		comp:   comp,
		stroke: newStrokeEngine(store, comp, stamps),
		shapes: newShapeOperator(store, comp, o.clock, o.throttleInterval),
		stamps: stamps,
	}
}

// Store returns the underlying chunk store.
func (e *Engine) Store() *ChunkStore { return e.store }

// Stroke returns the brush stroke engine.
func (e *Engine) Stroke() *StrokeEngine { return e.stroke }

// Shapes returns the shape mask operator.
func (e *Engine) Shapes() *ShapeMaskOperator { return e.shapes }

// Compositor returns the active compositor.
func (e *Engine) Compositor() *ActiveCompositor { return e.comp }

// Composite flushes any due compositor patch and returns the current
// composite surface with its world origin. The returned mask is owned
// by the engine and valid until the next mutation.
func (e *Engine) Composite() (*Mask, Point) {
	e.comp.Tick()
	return e.comp.Composite()
}

// Tick pumps all pending throttled work: due compositor patches and
// shape preview computations. Call once per frame.
func (e *Engine) Tick() {
	e.comp.Tick()
	e.shapes.preview.Tick()
}

// ClearAll discards every chunk, any in-progress stroke, and any
// pending preview, returning the engine to its initial empty state.
func (e *Engine) ClearAll() {
	e.stroke.Cancel()
	e.shapes.CancelPreview()
	e.store.ClearAll()
	e.comp.Invalidate()
}

// Snapshot is the unit of history state: the flattened composite raster
// and its world origin. Chunk boundaries never appear in a snapshot.
type Snapshot struct {
	Mask   *Mask
	Origin Point
}

// SnapshotComposite captures the current composite as an independent
// snapshot. History managers call this before any mutating operation.
func (e *Engine) SnapshotComposite() Snapshot {
	m, origin := e.Composite()
	return Snapshot{Mask: m.Clone(), Origin: origin}
}

// RestoreComposite replaces all mask state with the snapshot: the store
// is cleared and the raster re-split into tiles at the snapshot origin.
func (e *Engine) RestoreComposite(s Snapshot) error {
	if s.Mask == nil || s.Mask.Width() < 1 || s.Mask.Height() < 1 {
		return ErrInvalidSnapshot
	}
	e.stroke.Cancel()
	e.store.ClearAll()

	if !s.Mask.IsEmpty() {
		size := e.store.Size()
		world := RectWH(s.Origin.X, s.Origin.Y, float64(s.Mask.Width()), float64(s.Mask.Height()))
		tiles := TileRectOf(world, size)
		for ty := tiles.Min.Y; ty <= tiles.Max.Y; ty++ {
			for tx := tiles.Min.X; tx <= tiles.Max.X; tx++ {
				ch := e.store.GetOrCreate(TileCoord{X: tx, Y: ty})
				dx := int(s.Origin.X) - tx*size
				dy := int(s.Origin.Y) - ty*size
				ch.Surface.DrawMask(s.Mask, dx, dy, blend.Source)
				ch.Dirty = true
				ch.UpdateEmpty()
			}
		}
		e.store.ActivateArea(world)
	}

	e.comp.Invalidate()
	Logger().Debug("tilemask: composite restored",
		"width", s.Mask.Width(),
		"height", s.Mask.Height(),
		"origin", s.Origin,
	)
	return nil
}

// Stats is a point-in-time view of engine internals for debug surfaces.
type Stats struct {
	Chunks          int
	NonEmptyChunks  int
	ActiveChunks    int
	CompositeWidth  int
	CompositeHeight int
	Generation      uint64
}

// Stats reports chunk counts and the dimensions of the current
// composite. Reading stats does not trigger a rebuild.
func (e *Engine) Stats() Stats {
	st := Stats{
		Chunks:         e.store.Len(),
		NonEmptyChunks: e.store.NonEmptyCount(),
		ActiveChunks:   e.store.ActiveCount(),
		Generation:     e.comp.Generation(),
	}
	if b, ok := e.store.BoundsOfNonEmpty(); ok {
		st.CompositeWidth = b.Cols() * e.store.Size()
		st.CompositeHeight = b.Rows() * e.store.Size()
	}
	return st
}
