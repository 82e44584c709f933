package tilemask

import (
	"math"
	"testing"
	"time"

	"github.com/gogpu/tilemask/cache"
)

func newTestStroke(chunkSize int) (*StrokeEngine, *ChunkStore, *ActiveCompositor) {
	clock := newFakeClock()
	store := newChunkStore(chunkSize, 64, 1, clock)
	comp := newCompositor(store, clock, 16*time.Millisecond)
	stamps := cache.New[uint64, *Mask](16)
	return newStrokeEngine(store, comp, stamps), store, comp
}

func TestInterpolateStroke(t *testing.T) {
	// Short travel: a single point, no synthesis.
	pts := interpolateStroke(Pt(0, 0), Pt(10, 0), 30)
	if len(pts) != 1 || pts[0] != Pt(10, 0) {
		t.Fatalf("expected single endpoint, got %v", pts)
	}

	// Travel beyond radius/2: ceil(dist/(radius/3)) synthesized points.
	pts = interpolateStroke(Pt(0, 0), Pt(10, 0), 12)
	if want := int(math.Ceil(10.0 / 4.0)); len(pts) != want {
		t.Fatalf("expected %d points, got %d", want, len(pts))
	}
	if last := pts[len(pts)-1]; last != Pt(10, 0) {
		t.Errorf("last synthesized point must be the endpoint, got %v", last)
	}
	// Evenly spaced.
	prev := Pt(0, 0)
	step := pts[0].Distance(prev)
	for _, p := range pts {
		if math.Abs(p.Distance(prev)-step) > 1e-9 {
			t.Errorf("uneven spacing at %v", p)
		}
		prev = p
	}
}

// A horizontal stroke crossing one tile boundary leaves exactly the two
// crossed tiles non-empty.
func TestStrokeCrossesTileBoundary(t *testing.T) {
	s, store, _ := newTestStroke(512)
	s.SetBrush(BrushProfile{Radius: 50, Strength: 1, Hardness: 1})

	s.Begin(Pt(60, 256))
	s.Extend(Pt(600, 256))
	s.End()

	for _, coord := range []TileCoord{{0, 0}, {1, 0}} {
		c := store.Get(coord)
		if c == nil || c.Empty {
			t.Errorf("tile %v must be non-empty", coord)
		}
	}
	if store.Len() != 2 {
		t.Errorf("expected exactly 2 chunks, got %d", store.Len())
	}
	if store.NonEmptyCount() != 2 {
		t.Errorf("expected 2 non-empty chunks, got %d", store.NonEmptyCount())
	}
}

func TestStrokeCommitMatchesOverlay(t *testing.T) {
	s, _, comp := newTestStroke(128)
	s.SetBrush(BrushProfile{Radius: 15, Strength: 0.7, Hardness: 0.4})

	s.Begin(Pt(40, 40))
	s.Extend(Pt(180, 60))
	s.Extend(Pt(200, 150))

	s.RefreshOverlay()
	overlay, oorigin, ok := s.Overlay()
	if !ok {
		t.Fatal("expected overlay while drawing")
	}
	// Keep a copy: End discards the overlay.
	overlay = overlay.Clone()

	s.End()
	composite, corigin := comp.Composite()

	for y := 0; y < overlay.Height(); y++ {
		for x := 0; x < overlay.Width(); x++ {
			wx := int(oorigin.X) + x
			wy := int(oorigin.Y) + y
			got := composite.At(wx-int(corigin.X), wy-int(corigin.Y))
			want := overlay.At(x, y)
			if got != want {
				t.Fatalf("pixel (%d,%d): committed %d, preview %d", wx, wy, got, want)
			}
		}
	}
}

func TestStrokeZeroStrengthIsNoOp(t *testing.T) {
	s, store, _ := newTestStroke(128)
	s.SetBrush(BrushProfile{Radius: 20, Strength: 0, Hardness: 1})

	s.Begin(Pt(10, 10))
	s.Extend(Pt(100, 100))
	s.End()

	if store.Len() != 0 {
		t.Errorf("zero-strength stroke must not touch the store, got %d chunks", store.Len())
	}
}

func TestStrokeOutOfStateCalls(t *testing.T) {
	s, store, _ := newTestStroke(128)

	// Extend and End without Begin must be safe no-ops.
	s.Extend(Pt(10, 10))
	s.End()
	if store.Len() != 0 {
		t.Error("out-of-state calls must not mutate the store")
	}

	// Begin during a stroke is ignored; the original path survives.
	s.Begin(Pt(10, 10))
	s.Begin(Pt(500, 500))
	s.Extend(Pt(20, 10))
	s.End()
	if _, _, ok := s.Overlay(); ok {
		t.Error("overlay must be discarded after End")
	}
	if store.Get(TileCoord{3, 3}) != nil {
		t.Error("ignored Begin must not relocate the stroke")
	}
}

func TestStrokeCancel(t *testing.T) {
	s, store, _ := newTestStroke(128)
	s.Begin(Pt(10, 10))
	s.Extend(Pt(50, 50))
	s.Cancel()

	if s.Drawing() {
		t.Error("expected idle after cancel")
	}
	if store.Len() != 0 {
		t.Error("cancelled stroke must not commit")
	}
	if _, _, ok := s.Overlay(); ok {
		t.Error("cancelled stroke must discard the overlay")
	}
}

func TestStrokeClickDab(t *testing.T) {
	s, store, _ := newTestStroke(128)
	s.SetBrush(BrushProfile{Radius: 10, Strength: 1, Hardness: 1})

	s.Begin(Pt(64, 64))
	s.End()

	c := store.Get(TileCoord{0, 0})
	if c == nil || c.Empty {
		t.Fatal("a click must paint a dab")
	}
	if got := c.Surface.At(64, 64); got != 255 {
		t.Errorf("dab center: expected 255, got %d", got)
	}
	if got := c.Surface.At(64, 80); got != 0 {
		t.Errorf("outside dab: expected 0, got %d", got)
	}
}

func TestSetBrushIgnoredMidStroke(t *testing.T) {
	s, _, _ := newTestStroke(128)
	s.SetBrush(BrushProfile{Radius: 10, Strength: 1, Hardness: 1})
	s.Begin(Pt(10, 10))
	s.SetBrush(BrushProfile{Radius: 99, Strength: 0.1, Hardness: 0})
	if s.Brush().Radius != 10 {
		t.Error("brush profile must stay fixed during a stroke")
	}
	s.End()
	s.SetBrush(BrushProfile{Radius: 99, Strength: 0.1, Hardness: 0})
	if s.Brush().Radius != 99 {
		t.Error("brush must be settable between strokes")
	}
}

func TestStrokeOverlayGrows(t *testing.T) {
	s, _, _ := newTestStroke(128)
	s.SetBrush(BrushProfile{Radius: 8, Strength: 1, Hardness: 1})

	s.Begin(Pt(10, 10))
	s.Extend(Pt(300, 10))
	overlay, origin, ok := s.Overlay()
	if !ok {
		t.Fatal("expected overlay")
	}
	if float64(overlay.Width())+origin.X < 300 {
		t.Error("overlay must grow to cover the extended stroke")
	}
	// Early pixels survive the growth.
	if got := overlay.At(int(Pt(12, 10).X-origin.X), int(Pt(12, 10).Y-origin.Y)); got == 0 {
		t.Error("overlay growth must preserve already painted pixels")
	}
	s.End()
}
