package tilemask

import (
	"testing"
	"time"
)

func newTestShapeOperator(size int) (*ChunkStore, *ActiveCompositor, *ShapeMaskOperator, *fakeClock) {
	clock := newFakeClock()
	store := newChunkStore(size, 64, 1, clock)
	comp := newCompositor(store, clock, 16*time.Millisecond)
	op := newShapeOperator(store, comp, clock, 16*time.Millisecond)
	return store, comp, op, clock
}

func square(x, y, side float64) Shape {
	return Shape{
		Pt(x, y),
		Pt(x+side, y),
		Pt(x+side, y+side),
		Pt(x, y+side),
	}
}

// worldAt reads the mask value at a world coordinate straight from the
// store, resolving the owning chunk.
func worldAt(s *ChunkStore, x, y int) uint8 {
	size := s.Size()
	c := s.Get(TileCoordOf(Pt(float64(x), float64(y)), size))
	if c == nil {
		return 0
	}
	tx := c.Coord.X * size
	ty := c.Coord.Y * size
	return c.Surface.At(x-tx, y-ty)
}

func TestShapeApplyFillsInterior(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Apply(square(10, 10, 40), 0, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := worldAt(store, 30, 30); got != 255 {
		t.Errorf("interior pixel = %d, want 255", got)
	}
	if got := worldAt(store, 5, 5); got != 0 {
		t.Errorf("exterior pixel = %d, want 0", got)
	}
	if store.NonEmptyCount() == 0 {
		t.Error("apply must leave non-empty chunks")
	}
}

func TestShapeApplyCrossesTiles(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	// Spans tiles (0,0) through (1,1).
	if err := op.Apply(square(40, 40, 60), 0, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, p := range [][2]int{{50, 50}, {90, 50}, {50, 90}, {90, 90}} {
		if got := worldAt(store, p[0], p[1]); got != 255 {
			t.Errorf("pixel (%d,%d) = %d, want 255", p[0], p[1], got)
		}
	}
}

func TestShapeApplyWorldOffset(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Apply(square(0, 0, 20), 0, 0, Pt(100, 100)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := worldAt(store, 110, 110); got != 255 {
		t.Errorf("offset interior = %d, want 255", got)
	}
	if got := worldAt(store, 10, 10); got != 0 {
		t.Errorf("unshifted position = %d, want 0", got)
	}
}

func TestShapeApplyDegenerate(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Apply(Shape{Pt(0, 0), Pt(10, 0)}, 0, 0, Point{}); err != nil {
		t.Fatalf("degenerate shape must not error, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("degenerate shape must not touch the store, got %d chunks", store.Len())
	}
}

func TestShapeApplyScratchGuard(t *testing.T) {
	_, _, op, _ := newTestShapeOperator(64)

	err := op.Apply(square(0, 0, float64(maxScratchDim)+100), 0, 0, Point{})
	if err != ErrScratchTooLarge {
		t.Errorf("expected ErrScratchTooLarge, got %v", err)
	}
}

func TestShapeApplyExpansion(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Apply(square(20, 20, 20), 5, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// 4 px outside the polygon edge, within the 5 px expansion.
	if got := worldAt(store, 30, 16); got == 0 {
		t.Error("expanded region must cover pixels outside the polygon")
	}
	// Well outside the expansion.
	if got := worldAt(store, 30, 8); got != 0 {
		t.Errorf("pixel beyond expansion = %d, want 0", got)
	}
}

func TestShapeApplyContraction(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Apply(square(20, 20, 20), -5, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := worldAt(store, 30, 30); got != 255 {
		t.Errorf("center must survive contraction, got %d", got)
	}
	// 2 px inside the polygon edge, within the 5 px contraction band.
	if got := worldAt(store, 30, 22); got != 0 {
		t.Errorf("contracted rim = %d, want 0", got)
	}
}

func TestShapeApplyFeather(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Apply(square(20, 20, 30), 0, 8, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	center := worldAt(store, 35, 35)
	rim := worldAt(store, 35, 21)
	if center != 255 {
		t.Errorf("feathered center = %d, want 255", center)
	}
	if rim >= center {
		t.Errorf("rim alpha %d must fall below center %d", rim, center)
	}
}

func TestShapeRemoveLeavesChunksEmpty(t *testing.T) {
	for _, tc := range []struct {
		name      string
		expansion int
		feather   int
	}{
		{"plain", 0, 0},
		{"feathered", 0, 6},
		{"expanded and feathered", 4, 6},
		{"contracted", -3, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store, _, op, _ := newTestShapeOperator(64)
			shape := square(30, 30, 50)
			offset := Pt(7, 3)

			if err := op.Apply(shape, tc.expansion, tc.feather, offset); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if store.NonEmptyCount() == 0 {
				t.Fatal("apply must produce foreground")
			}
			if err := op.Remove(shape, tc.expansion, offset); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if n := store.NonEmptyCount(); n != 0 {
				t.Errorf("remove must leave every chunk empty, %d still carry pixels", n)
			}
		})
	}
}

func TestShapeRemoveDoesNotCreateChunks(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Remove(square(10, 10, 30), 0, Point{}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("remove on an empty store must not allocate chunks, got %d", store.Len())
	}
}

func TestShapeRemovePreservesOtherContent(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if err := op.Apply(square(10, 10, 20), 0, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := op.Apply(square(100, 100, 20), 0, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := op.Remove(square(10, 10, 20), 0, Point{}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := worldAt(store, 110, 110); got != 255 {
		t.Errorf("unrelated region = %d, want 255", got)
	}
	if got := worldAt(store, 20, 20); got != 0 {
		t.Errorf("removed region = %d, want 0", got)
	}
}

func TestShapeApplyInvalidatesComposite(t *testing.T) {
	_, comp, op, _ := newTestShapeOperator(64)

	comp.RebuildFull()
	gen := comp.Generation()

	if err := op.Apply(square(10, 10, 30), 0, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	surface, _ := comp.Composite()
	if comp.Generation() == gen {
		t.Error("apply must invalidate the composite")
	}
	if surface.IsEmpty() {
		t.Error("composite must contain the applied shape")
	}
}

func TestShapeReapplyMatchesFreshApply(t *testing.T) {
	storeA, compA, opA, clockA := newTestShapeOperator(64)
	storeB, _, opB, _ := newTestShapeOperator(64)

	shape := square(30, 30, 40)

	// A: apply at one expansion, then reapply at another.
	if err := opA.Apply(shape, 2, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	compA.Composite()
	if err := opA.Reapply(shape, 2, 6, 0, Point{}); err != nil {
		t.Fatalf("Reapply: %v", err)
	}
	clockA.Advance(20 * time.Millisecond)
	compA.Tick()

	// B: one fresh apply at the final parameters.
	if err := opB.Apply(shape, 6, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			a := worldAt(storeA, x, y)
			b := worldAt(storeB, x, y)
			if a != b {
				t.Fatalf("pixel (%d,%d): reapplied %d, fresh %d", x, y, a, b)
			}
		}
	}
}

func TestShapePreviewContour(t *testing.T) {
	_, _, op, _ := newTestShapeOperator(64)

	shape := square(20, 20, 40)
	contours, err := op.PreviewContour(shape, 0, 0)
	if err != nil {
		t.Fatalf("PreviewContour: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("expected one outline, got %d", len(contours))
	}
	// All points must sit near the polygon boundary in world space.
	for _, p := range contours[0] {
		onX := near(p.X, 20, 2) || near(p.X, 60, 2)
		onY := near(p.Y, 20, 2) || near(p.Y, 60, 2)
		if !onX && !onY {
			t.Fatalf("contour point %v is far from every polygon edge", p)
		}
	}
}

func TestShapePreviewContourFeatherAddsInner(t *testing.T) {
	_, _, op, _ := newTestShapeOperator(64)

	contours, err := op.PreviewContour(square(20, 20, 40), 0, 8)
	if err != nil {
		t.Fatalf("PreviewContour: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("expected outer plus inner contour, got %d", len(contours))
	}
}

func TestShapePreviewContourPure(t *testing.T) {
	store, _, op, _ := newTestShapeOperator(64)

	if _, err := op.PreviewContour(square(20, 20, 40), 3, 5); err != nil {
		t.Fatalf("PreviewContour: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("preview must not mutate the store, got %d chunks", store.Len())
	}
}

func TestShapeSchedulePreviewSupersedes(t *testing.T) {
	_, _, op, clock := newTestShapeOperator(64)

	var calls int
	var lastLen int
	op.OnPreview = func(cs []Polyline) {
		calls++
		lastLen = len(cs)
	}

	op.SchedulePreview(square(20, 20, 40), 0, 8) // would yield 2 contours
	op.SchedulePreview(square(20, 20, 40), 0, 0) // supersedes: 1 contour

	clock.Advance(20 * time.Millisecond)
	op.preview.Tick()

	if calls != 1 {
		t.Fatalf("expected one preview run, got %d", calls)
	}
	if lastLen != 1 {
		t.Errorf("latest parameters must win: got %d contours, want 1", lastLen)
	}
}

func TestShapeCancelPreview(t *testing.T) {
	_, _, op, clock := newTestShapeOperator(64)

	var calls int
	op.OnPreview = func([]Polyline) { calls++ }

	op.SchedulePreview(square(20, 20, 40), 0, 0)
	op.CancelPreview()

	clock.Advance(20 * time.Millisecond)
	op.preview.Tick()

	if calls != 0 {
		t.Errorf("cancelled preview must not run, got %d calls", calls)
	}
}

func near(v, target, tol float64) bool {
	d := v - target
	if d < 0 {
		d = -d
	}
	return d <= tol
}
