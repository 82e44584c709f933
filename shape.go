package tilemask

import (
	"math"
	"time"

	"github.com/gogpu/tilemask/internal/blend"
	"github.com/gogpu/tilemask/internal/raster"
)

// Shape is a polygon in world coordinates, implicitly closed from the
// last vertex back to the first.
type Shape []Point

// Valid reports whether the shape has enough vertices to enclose area.
func (s Shape) Valid() bool { return len(s) >= 3 }

// Bounds returns the axis-aligned bounding box of the vertices. The
// zero rect is returned for an empty shape.
func (s Shape) Bounds() Rect {
	if len(s) == 0 {
		return Rect{}
	}
	r := NewRect(s[0], s[0])
	for _, p := range s[1:] {
		r = r.Union(NewRect(p, p))
	}
	return r
}

// maxScratchDim caps the side length of the scratch raster a single
// shape operation may allocate.
const maxScratchDim = 8192

// previewParams carries one pending throttled preview request.
type previewParams struct {
	shape     Shape
	expansion int
	feather   int
}

// ShapeMaskOperator applies externally supplied polygons to the chunk
// store: even-odd rasterization, optional expand/contract and feather,
// then per-tile composition. Removal re-rasterizes the same shape as a
// hard mask slightly larger than the original footprint, so feathered
// edge residue is wiped along with the body.
type ShapeMaskOperator struct {
	store *ChunkStore
	comp  *ActiveCompositor
	rast  *raster.Rasterizer

	preview *DebouncedTask[previewParams]

	// OnPreview receives the contour set produced by a throttled
	// SchedulePreview run. Nil disables delivery.
	OnPreview func([]Polyline)
}

func newShapeOperator(store *ChunkStore, comp *ActiveCompositor, clock Clock, interval time.Duration) *ShapeMaskOperator {
	o := &ShapeMaskOperator{
		store: store,
		comp:  comp,
		rast:  raster.NewRasterizer(),
	}
	o.preview = NewDebounced(clock, interval,
		func(_, next previewParams) previewParams { return next },
		o.runPreview,
	)
	return o
}

// Apply rasterizes the shape, expands or contracts it by expansionPx,
// feathers the boundary over featherPx, and composites the result into
// the store with source-over blending at worldOffset. Touched chunks
// are activated and the composite is invalidated. A degenerate shape
// is a warned no-op.
func (o *ShapeMaskOperator) Apply(shape Shape, expansionPx, featherPx int, worldOffset Point) error {
	if !shape.Valid() {
		Logger().Warn("tilemask: Apply with degenerate shape", "points", len(shape))
		return nil
	}
	m, origin, err := o.buildMask(shape, expansionPx, featherPx, applyMargin(expansionPx))
	if err != nil {
		return err
	}
	tiles := o.compose(m, origin.Add(worldOffset), blend.SourceOver)
	o.store.ActivateArea(tiles.WorldRect(o.store.Size()))
	o.comp.Invalidate()
	Logger().Debug("tilemask: shape applied",
		"points", len(shape),
		"expansion", expansionPx,
		"feather", featherPx,
		"tiles", tiles,
	)
	return nil
}

// Remove erases a previously applied shape. The shape is rasterized
// with the expansion used at apply time plus a 2 px safety margin, as a
// hard mask, and blended destination-out against every overlapping
// chunk that already exists. Feathered residue from the original apply
// falls inside the enlarged hard footprint, so removal is complete
// regardless of the feather used.
func (o *ShapeMaskOperator) Remove(shape Shape, previousExpansionPx int, worldOffset Point) error {
	if !shape.Valid() {
		Logger().Warn("tilemask: Remove with degenerate shape", "points", len(shape))
		return nil
	}
	exp := previousExpansionPx + 2
	m, origin, err := o.buildMask(shape, exp, 0, applyMargin(exp))
	if err != nil {
		return err
	}
	o.compose(m, origin.Add(worldOffset), blend.DestinationOut)
	o.comp.Invalidate()
	return nil
}

// Reapply is the slider-drag path: it removes the shape at its previous
// expansion, applies it at the new parameters, and schedules a throttled
// composite patch over the union of touched tiles instead of a full
// rebuild.
func (o *ShapeMaskOperator) Reapply(shape Shape, previousExpansionPx, expansionPx, featherPx int, worldOffset Point) error {
	if !shape.Valid() {
		Logger().Warn("tilemask: Reapply with degenerate shape", "points", len(shape))
		return nil
	}
	exp := previousExpansionPx + 2
	rm, rmOrigin, err := o.buildMask(shape, exp, 0, applyMargin(exp))
	if err != nil {
		return err
	}
	add, addOrigin, err := o.buildMask(shape, expansionPx, featherPx, applyMargin(expansionPx))
	if err != nil {
		return err
	}
	tiles := o.compose(rm, rmOrigin.Add(worldOffset), blend.DestinationOut)
	tiles = tiles.Union(o.compose(add, addOrigin.Add(worldOffset), blend.SourceOver))
	o.store.ActivateArea(tiles.WorldRect(o.store.Size()))
	o.comp.SchedulePatch(tiles)
	return nil
}

// PreviewContour computes the outline polylines the shape would produce
// at the given parameters without mutating the store. When feathering
// is requested a second contour is traced at the inner edge of the
// ramp, where alpha reaches full opacity. Coordinates are shape-local
// world coordinates; callers add their own world offset.
func (o *ShapeMaskOperator) PreviewContour(shape Shape, expansionPx, featherPx int) ([]Polyline, error) {
	if !shape.Valid() {
		Logger().Warn("tilemask: PreviewContour with degenerate shape", "points", len(shape))
		return nil, nil
	}
	m, origin, err := o.buildMask(shape, expansionPx, 0, applyMargin(expansionPx))
	if err != nil {
		return nil, err
	}
	out := translateContours(TraceAll(m), origin)
	if featherPx > 0 {
		inner := Erode(m, featherPx)
		out = append(out, translateContours(TraceAll(inner), origin)...)
	}
	// Single- and two-point fragments render as nothing useful.
	kept := out[:0]
	for _, c := range out {
		if len(c) > 2 {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// SchedulePreview requests a throttled PreviewContour run. A newer call
// supersedes any pending parameters; results arrive via OnPreview.
func (o *ShapeMaskOperator) SchedulePreview(shape Shape, expansionPx, featherPx int) {
	o.preview.Schedule(previewParams{shape: shape, expansion: expansionPx, feather: featherPx})
}

// CancelPreview drops any pending preview parameters without running.
func (o *ShapeMaskOperator) CancelPreview() {
	o.preview.Cancel()
}

func (o *ShapeMaskOperator) runPreview(p previewParams) {
	contours, err := o.PreviewContour(p.shape, p.expansion, p.feather)
	if err != nil {
		Logger().Warn("tilemask: preview failed", "error", err)
		return
	}
	if o.OnPreview != nil {
		o.OnPreview(contours)
	}
}

// applyMargin is the safety margin added around the shape's bounding
// box so expansion and anti-aliased edges never clip at the scratch
// border.
func applyMargin(expansionPx int) int {
	if expansionPx < 0 {
		expansionPx = -expansionPx
	}
	return expansionPx + 10
}

// buildMask rasterizes the shape with even-odd fill into a scratch mask
// sized to its bounds plus margin, then applies morphology. origin is
// the shape-local world position of the scratch's (0,0) pixel.
func (o *ShapeMaskOperator) buildMask(shape Shape, expansionPx, featherPx, margin int) (*Mask, Point, error) {
	b := shape.Bounds()
	ox := int(math.Floor(b.Min.X)) - margin
	oy := int(math.Floor(b.Min.Y)) - margin
	w := int(math.Ceil(b.Max.X)) - ox + margin + 1
	h := int(math.Ceil(b.Max.Y)) - oy + margin + 1
	if w > maxScratchDim || h > maxScratchDim {
		return nil, Point{}, ErrScratchTooLarge
	}

	m := NewMask(w, h)
	pts := make([]raster.Point, len(shape))
	for i, p := range shape {
		pts[i] = raster.Point{X: p.X - float64(ox), Y: p.Y - float64(oy)}
	}
	o.rast.Fill(m, pts, raster.FillRuleEvenOdd, 255)

	switch {
	case expansionPx > 0:
		m = Dilate(m, expansionPx)
	case expansionPx < 0:
		m = Erode(m, -expansionPx)
	}
	if featherPx > 0 {
		m = FeatherField(m, featherPx)
	}
	return m, Pt(float64(ox), float64(oy)), nil
}

// compose blends the scratch into every tile its bounding box touches.
// Source-over creates missing chunks; destination-out only visits
// chunks that already exist, since erasing from nothing is a no-op.
func (o *ShapeMaskOperator) compose(m *Mask, origin Point, mode blend.Mode) TileRect {
	size := o.store.Size()
	world := RectWH(origin.X, origin.Y, float64(m.Width()), float64(m.Height()))
	tiles := TileRectOf(world, size)
	for ty := tiles.Min.Y; ty <= tiles.Max.Y; ty++ {
		for tx := tiles.Min.X; tx <= tiles.Max.X; tx++ {
			var ch *Chunk
			if mode == blend.DestinationOut {
				ch = o.store.Get(TileCoord{X: tx, Y: ty})
				if ch == nil {
					continue
				}
			} else {
				ch = o.store.GetOrCreate(TileCoord{X: tx, Y: ty})
			}
			dx := int(origin.X) - tx*size
			dy := int(origin.Y) - ty*size
			ch.Surface.DrawMask(m, dx, dy, mode)
			ch.Dirty = true
			ch.UpdateEmpty()
		}
	}
	return tiles
}

func translateContours(cs []Polyline, origin Point) []Polyline {
	for _, c := range cs {
		for i := range c {
			c[i] = c[i].Add(origin)
		}
	}
	return cs
}
