package tilemask

import (
	"time"

	"github.com/gogpu/tilemask/internal/blend"
)

// ActiveCompositor maintains one contiguous raster covering the
// tile-aligned bounding box of all non-empty chunks. The composite is
// rebuilt lazily behind a dirty flag; its one reader is the per-frame
// Composite call.
type ActiveCompositor struct {
	store *ChunkStore

	surface  *Mask
	origin   Point
	built    TileRect // tile range covered by surface
	hasBuilt bool     // false while surface is the degenerate 1x1
	dirty    bool

	// generation increments on every rebuild or patch, letting renderers
	// skip re-uploading an unchanged composite.
	generation uint64

	patch *DebouncedTask[TileRect]
}

func newCompositor(store *ChunkStore, clock Clock, interval time.Duration) *ActiveCompositor {
	c := &ActiveCompositor{
		store: store,
		dirty: true,
	}
	c.patch = NewDebounced(clock, interval,
		func(pending, next TileRect) TileRect { return pending.Union(next) },
		c.Patch)
	return c
}

// Invalidate marks the composite stale. The next Composite call
// performs a full rebuild.
func (c *ActiveCompositor) Invalidate() {
	c.dirty = true
}

// Origin returns the world position of the composite's top-left pixel.
func (c *ActiveCompositor) Origin() Point { return c.origin }

// Generation returns a counter that increments whenever the composite
// surface changes.
func (c *ActiveCompositor) Generation() uint64 { return c.generation }

// Composite returns the composite surface and its world origin,
// rebuilding first if the dirty flag is set. This is the only
// externally visible read path.
func (c *ActiveCompositor) Composite() (*Mask, Point) {
	if c.dirty || c.surface == nil {
		c.patch.Cancel() // the rebuild covers any pending patch
		c.RebuildFull()
	}
	return c.surface, c.origin
}

// RebuildFull resizes the composite to the tile-aligned bounding box of
// non-empty chunks and blits each into its relative offset. With no
// chunk data the composite degenerates to a 1x1 transparent surface.
// Cost is linear in the non-empty chunk count.
func (c *ActiveCompositor) RebuildFull() {
	size := c.store.Size()
	bounds, ok := c.store.BoundsOfNonEmpty()
	if !ok {
		c.surface = NewMask(1, 1)
		c.origin = Point{}
		c.built = TileRect{}
		c.hasBuilt = false
		c.dirty = false
		c.generation++
		return
	}

	c.surface = NewMask(bounds.Cols()*size, bounds.Rows()*size)
	c.origin = bounds.WorldRect(size).Min
	c.built = bounds
	c.hasBuilt = true
	c.dirty = false
	c.generation++

	c.store.forEachNonEmpty(func(ch *Chunk) {
		dx := (ch.Coord.X - bounds.Min.X) * size
		dy := (ch.Coord.Y - bounds.Min.Y) * size
		c.surface.DrawMask(ch.Surface, dx, dy, blend.Source)
		ch.Dirty = false
	})

	Logger().Debug("tilemask: composite rebuilt",
		"width", c.surface.Width(),
		"height", c.surface.Height(),
		"chunks", c.store.NonEmptyCount(),
	)
}

// Patch refreshes the composite for the given tile range without a full
// rebuild. Each touched tile footprint is cleared and re-blitted, never
// accumulated, so morphology and feather edits cannot leave stale
// pixels. If the range extends beyond the currently composited bounds,
// Patch falls back to RebuildFull.
func (c *ActiveCompositor) Patch(tiles TileRect) {
	if c.dirty || !c.hasBuilt || !c.built.ContainsRect(tiles) {
		c.RebuildFull()
		return
	}

	size := c.store.Size()
	for y := tiles.Min.Y; y <= tiles.Max.Y; y++ {
		for x := tiles.Min.X; x <= tiles.Max.X; x++ {
			dx := (x - c.built.Min.X) * size
			dy := (y - c.built.Min.Y) * size
			if ch := c.store.Get(TileCoord{X: x, Y: y}); ch != nil {
				c.surface.DrawMask(ch.Surface, dx, dy, blend.Source)
				ch.Dirty = false
			} else {
				c.surface.FillRegion(dx, dy, size, size, 0)
			}
		}
	}
	c.generation++
	Logger().Debug("tilemask: composite patched", "tiles", tiles)
}

// SchedulePatch coalesces drag-driven patch requests: requests merge
// into the union of all tiles touched since the last run, and Tick
// executes at most one patch per throttle interval.
func (c *ActiveCompositor) SchedulePatch(tiles TileRect) {
	c.patch.Schedule(tiles)
}

// Tick runs a pending throttled patch if its interval has elapsed.
// Call once per frame.
func (c *ActiveCompositor) Tick() {
	c.patch.Tick()
}
