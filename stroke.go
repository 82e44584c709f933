package tilemask

import (
	"math"

	"github.com/gogpu/tilemask/cache"
	"github.com/gogpu/tilemask/internal/blend"
)

// StrokeEngine paints live brush strokes. While drawing it renders into
// a transient overlay for preview; on End it replays the entire
// recorded path against the chunk store, so the persisted mask is
// pixel-identical to the preview even if the viewport moved mid-stroke.
//
// States: Idle -> Drawing (Begin) -> Idle (End or Cancel).
type StrokeEngine struct {
	store  *ChunkStore
	comp   *ActiveCompositor
	stamps *cache.Cache[uint64, *Mask]

	brush   BrushProfile
	drawing bool
	path    []Point

	overlay       *Mask
	overlayOrigin Point // integer-aligned world position of overlay pixel (0,0)
}

func newStrokeEngine(store *ChunkStore, comp *ActiveCompositor, stamps *cache.Cache[uint64, *Mask]) *StrokeEngine {
	return &StrokeEngine{
		store:  store,
		comp:   comp,
		stamps: stamps,
		brush:  DefaultBrush(),
	}
}

// SetBrush replaces the brush profile. The profile is fixed for the
// duration of a stroke: calls while drawing are ignored with a warning.
func (s *StrokeEngine) SetBrush(b BrushProfile) {
	if s.drawing {
		Logger().Warn("tilemask: SetBrush ignored mid-stroke")
		return
	}
	s.brush = b.Normalized()
}

// Brush returns the current brush profile.
func (s *StrokeEngine) Brush() BrushProfile { return s.brush }

// Drawing reports whether a stroke is in progress.
func (s *StrokeEngine) Drawing() bool { return s.drawing }

// Begin starts a stroke at the given world point and clears any
// leftover overlay. Calling Begin while already drawing is a warned
// no-op.
func (s *StrokeEngine) Begin(p Point) {
	if s.drawing {
		Logger().Warn("tilemask: Begin while already drawing")
		return
	}
	s.drawing = true
	s.path = append(s.path[:0], p)
	s.overlay = nil

	if s.brush.Strength > 0 && s.brush.Radius > 0 {
		s.ensureOverlay(s.pathBounds())
		s.dab(s.overlay, s.overlayOrigin, p)
	}
}

// Extend appends a point to the stroke. When the travel distance since
// the last recorded point exceeds radius/2, intermediate points are
// synthesized so fast pointer motion produces no visual gaps. Each new
// segment is drawn immediately to the transient overlay.
func (s *StrokeEngine) Extend(p Point) {
	if !s.drawing {
		Logger().Warn("tilemask: Extend without Begin")
		return
	}
	last := s.path[len(s.path)-1]
	pts := interpolateStroke(last, p, s.brush.Radius)

	if s.brush.Strength <= 0 || s.brush.Radius <= 0 {
		s.path = append(s.path, pts...)
		return
	}

	// The first segment's round cap repaints the Begin dab exactly, so
	// drop the quantized dab before segments take over.
	if len(s.path) == 1 && s.overlay != nil {
		s.overlay.Clear()
	}

	for _, q := range pts {
		s.path = append(s.path, q)
		s.ensureOverlay(NewRect(last, q).Expand(s.brush.Radius + 1))
		stampSegment(s.overlay, s.overlayOrigin, last, q, s.brush)
		last = q
	}
}

// End commits the stroke: the entire recorded path is replayed into a
// scratch raster and composited source-over into every chunk the
// scratch's bounding box touches, then the overlay is discarded and the
// composite fully rebuilt. A stroke with zero strength is a no-op, not
// an error.
func (s *StrokeEngine) End() {
	if !s.drawing {
		Logger().Warn("tilemask: End without Begin")
		return
	}
	s.drawing = false
	path := s.path
	defer s.reset()

	if s.brush.Strength <= 0 || s.brush.Radius <= 0 || len(path) == 0 {
		return
	}

	scratch, origin := s.renderPath(path)
	size := s.store.Size()
	world := RectWH(origin.X, origin.Y, float64(scratch.Width()), float64(scratch.Height()))
	// Coarse test: every tile the scratch bounding box touches gets a
	// blit; the blit itself clips, so extra tiles only cost a clipped
	// no-op pass.
	tiles := TileRectOf(world, size)
	for ty := tiles.Min.Y; ty <= tiles.Max.Y; ty++ {
		for tx := tiles.Min.X; tx <= tiles.Max.X; tx++ {
			ch := s.store.GetOrCreate(TileCoord{X: tx, Y: ty})
			dx := int(origin.X) - tx*size
			dy := int(origin.Y) - ty*size
			ch.Surface.DrawMask(scratch, dx, dy, blend.SourceOver)
			ch.Dirty = true
			ch.UpdateEmpty()
		}
	}

	s.comp.RebuildFull()
	Logger().Debug("tilemask: stroke committed",
		"points", len(path),
		"tiles", tiles,
	)
}

// Cancel discards the in-progress stroke without committing.
func (s *StrokeEngine) Cancel() {
	if !s.drawing {
		return
	}
	s.drawing = false
	s.reset()
}

// Overlay returns the transient preview raster and its world origin.
// ok is false when no preview exists.
func (s *StrokeEngine) Overlay() (overlay *Mask, origin Point, ok bool) {
	if !s.drawing || s.overlay == nil {
		return nil, Point{}, false
	}
	return s.overlay, s.overlayOrigin, true
}

// RefreshOverlay re-renders the whole recorded path into a fresh
// overlay. Hosts call this when the viewport pans or zooms mid-stroke
// so the preview is redrawn in the current projection.
func (s *StrokeEngine) RefreshOverlay() {
	if !s.drawing || s.brush.Strength <= 0 || s.brush.Radius <= 0 || len(s.path) == 0 {
		return
	}
	scratch, origin := s.renderPath(s.path)
	s.overlay = scratch
	s.overlayOrigin = origin
}

func (s *StrokeEngine) reset() {
	s.path = s.path[:0]
	s.overlay = nil
}

// renderPath rasterizes the recorded path into a tight scratch mask.
// Returns the mask and the integer-aligned world origin of its (0,0)
// pixel. This is the single source of truth for stroke pixels: both
// the overlay refresh and the commit use it.
func (s *StrokeEngine) renderPath(path []Point) (*Mask, Point) {
	bounds := s.boundsOf(path)
	origin := Pt(math.Floor(bounds.Min.X), math.Floor(bounds.Min.Y))
	w := int(math.Ceil(bounds.Max.X)) - int(origin.X)
	h := int(math.Ceil(bounds.Max.Y)) - int(origin.Y)
	scratch := NewMask(w, h)

	if len(path) == 1 {
		s.dab(scratch, origin, path[0])
		return scratch, origin
	}
	for i := 1; i < len(path); i++ {
		stampSegment(scratch, origin, path[i-1], path[i], s.brush)
	}
	return scratch, origin
}

// dab paints a single brush dab using the precomputed stamp cache.
func (s *StrokeEngine) dab(dst *Mask, origin Point, p Point) {
	b := s.brush
	stamp := s.stamps.GetOrCreate(stampKey(b), func() *Mask {
		return renderStamp(b)
	})
	drawStamp(dst, origin, p, stamp, b.Strength)
}

func (s *StrokeEngine) pathBounds() Rect {
	return s.boundsOf(s.path)
}

func (s *StrokeEngine) boundsOf(path []Point) Rect {
	r := NewRect(path[0], path[0])
	for _, p := range path[1:] {
		r = r.Union(NewRect(p, p))
	}
	return r.Expand(s.brush.Radius + 1)
}

// ensureOverlay guarantees the overlay covers the given world rect,
// growing (and re-homing) the existing buffer when the stroke escapes
// its current bounds.
func (s *StrokeEngine) ensureOverlay(world Rect) {
	x0 := math.Floor(world.Min.X)
	y0 := math.Floor(world.Min.Y)
	x1 := math.Ceil(world.Max.X)
	y1 := math.Ceil(world.Max.Y)

	if s.overlay == nil {
		s.overlayOrigin = Pt(x0, y0)
		s.overlay = NewMask(int(x1-x0), int(y1-y0))
		return
	}

	ox0 := s.overlayOrigin.X
	oy0 := s.overlayOrigin.Y
	ox1 := ox0 + float64(s.overlay.Width())
	oy1 := oy0 + float64(s.overlay.Height())
	if x0 >= ox0 && y0 >= oy0 && x1 <= ox1 && y1 <= oy1 {
		return
	}

	nx0 := math.Min(x0, ox0)
	ny0 := math.Min(y0, oy0)
	nx1 := math.Max(x1, ox1)
	ny1 := math.Max(y1, oy1)
	grown := NewMask(int(nx1-nx0), int(ny1-ny0))
	grown.DrawMask(s.overlay, int(ox0-nx0), int(oy0-ny0), blend.Source)
	s.overlay = grown
	s.overlayOrigin = Pt(nx0, ny0)
}

// interpolateStroke returns the points to record after from when the
// pointer travels to to. Travel beyond radius/2 is subdivided into
// ceil(distance / (radius/3)) steps; the final point is always exactly
// to.
func interpolateStroke(from, to Point, radius float64) []Point {
	dist := from.Distance(to)
	if radius <= 0 || dist <= radius/2 {
		return []Point{to}
	}
	n := int(math.Ceil(dist / (radius / 3)))
	pts := make([]Point, 0, n)
	for i := 1; i <= n; i++ {
		pts = append(pts, from.Lerp(to, float64(i)/float64(n)))
	}
	return pts
}
