package tilemask

import (
	"testing"

	"github.com/chewxy/math32"
)

// maskFromRows builds a mask from a string grid where '#' is foreground.
func maskFromRows(rows ...string) *Mask {
	h := len(rows)
	w := len(rows[0])
	m := NewMask(w, h)
	for y, row := range rows {
		for x := 0; x < w; x++ {
			if row[x] == '#' {
				m.Set(x, y, 255)
			}
		}
	}
	return m
}

func sameForeground(t *testing.T, a, b *Mask) {
	t.Helper()
	if a.Width() != b.Width() || a.Height() != b.Height() {
		t.Fatalf("dimensions differ: %dx%d vs %dx%d", a.Width(), a.Height(), b.Width(), b.Height())
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if (a.At(x, y) > 0) != (b.At(x, y) > 0) {
				t.Fatalf("foreground differs at (%d,%d): %d vs %d", x, y, a.At(x, y), b.At(x, y))
			}
		}
	}
}

// subsetOf fails unless every foreground pixel of a is foreground in b.
func subsetOf(t *testing.T, a, b *Mask) {
	t.Helper()
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.At(x, y) > 0 && b.At(x, y) == 0 {
				t.Fatalf("pixel (%d,%d) in subset but not superset", x, y)
			}
		}
	}
}

func TestDistanceTransformSeedForeground(t *testing.T) {
	m := maskFromRows(
		"...",
		".#.",
		"...",
	)
	d := DistanceTransform(m, SeedForeground)

	if d[1*3+1] != 0 {
		t.Errorf("seed pixel: expected 0, got %f", d[4])
	}
	// Axis neighbors at 1, diagonals at sqrt 2.
	if d[1*3+0] != 1 || d[0*3+1] != 1 {
		t.Errorf("axis neighbors: expected 1, got %f / %f", d[3], d[1])
	}
	if math32.Abs(d[0]-math32.Sqrt2) > 1e-6 {
		t.Errorf("diagonal: expected sqrt2, got %f", d[0])
	}
}

func TestDistanceTransformBackgroundSeedsBorder(t *testing.T) {
	// Fully filled raster: depth grows inward from the raster edge.
	m := NewMask(5, 5)
	m.Fill(255)
	d := DistanceTransform(m, SeedBackground)

	if d[0] != 1 {
		t.Errorf("corner pixel depth: expected 1, got %f", d[0])
	}
	if d[2*5+2] != 3 {
		t.Errorf("center pixel depth: expected 3, got %f", d[2*5+2])
	}
}

func TestZeroRadiusIdentity(t *testing.T) {
	m := maskFromRows(
		".....",
		".##..",
		".###.",
		".....",
	)
	sameForeground(t, Erode(Dilate(m, 0), 0), m)
}

// A single pixel dilated by 1 becomes a plus shape: the chamfer
// diagonal weight sqrt2 exceeds 1, so corners stay background.
func TestDilateSinglePixelPlus(t *testing.T) {
	m := maskFromRows(
		"...",
		".#.",
		"...",
	)
	got := Dilate(m, 1)
	want := maskFromRows(
		".#.",
		"###",
		".#.",
	)
	sameForeground(t, got, want)
}

func TestDilateMonotonic(t *testing.T) {
	m := maskFromRows(
		"........",
		"...##...",
		"...##...",
		"........",
	)
	d1 := Dilate(m, 1)
	d2 := Dilate(m, 2)
	subsetOf(t, m, d1)
	subsetOf(t, d1, d2)
}

func TestErodeMonotonic(t *testing.T) {
	m := NewMask(10, 10)
	m.FillRegion(1, 1, 8, 8, 255)

	e1 := Erode(m, 1)
	e2 := Erode(m, 2)
	subsetOf(t, e2, e1)
	subsetOf(t, e1, m)
}

func TestErodeRemovesRim(t *testing.T) {
	m := maskFromRows(
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	)
	got := Erode(m, 1)
	want := maskFromRows(
		".....",
		".....",
		"..#..",
		".....",
		".....",
	)
	sameForeground(t, got, want)
}

func TestErodeWipesThinMask(t *testing.T) {
	m := maskFromRows(
		"....",
		"####",
		"....",
	)
	if !Erode(m, 1).IsEmpty() {
		t.Error("a 1px line eroded by 1 must vanish")
	}
}

func TestErodeDilateDual(t *testing.T) {
	m := maskFromRows(
		"..........",
		"..######..",
		"..######..",
		"..######..",
		"..######..",
		"..........",
	)
	// erode(m) == invert(dilate(invert(m))) on the foreground predicate,
	// ignoring raster-border effects (kept clear of the border here).
	inv := m.Clone()
	inv.Invert()
	dual := Dilate(inv, 1)
	dual.Invert()
	dual.Binarize(0)
	sameForeground(t, Erode(m, 1), dual)
}

// A fully filled 100x100 mask feathered by 10: alpha 0 at the boundary,
// 255 at depth >= 10, monotonically non-decreasing in between.
func TestFeatherFieldRamp(t *testing.T) {
	m := NewMask(100, 100)
	m.Fill(255)
	f := FeatherField(m, 10)

	if got := f.At(0, 50); got != 0 {
		t.Errorf("boundary pixel: expected alpha 0, got %d", got)
	}
	if got := f.At(50, 50); got != 255 {
		t.Errorf("deep interior: expected alpha 255, got %d", got)
	}
	if got := f.At(10, 50); got != 255 {
		t.Errorf("depth 10: expected alpha 255, got %d", got)
	}

	// Walking inward from the left edge the ramp never decreases.
	prev := uint8(0)
	for x := 0; x < 50; x++ {
		v := f.At(x, 50)
		if v < prev {
			t.Fatalf("alpha decreased at x=%d: %d after %d", x, v, prev)
		}
		prev = v
	}
}

func TestFeatherFieldExterior(t *testing.T) {
	m := maskFromRows(
		"......",
		"..##..",
		"..##..",
		"......",
	)
	f := FeatherField(m, 2)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if m.At(x, y) == 0 && f.At(x, y) != 0 {
				t.Fatalf("exterior pixel (%d,%d) must stay 0, got %d", x, y, f.At(x, y))
			}
		}
	}
}

func TestFeatherFieldZeroRadius(t *testing.T) {
	m := maskFromRows(
		"....",
		".##.",
		"....",
	)
	m.Set(1, 1, 77) // partially covered sample counts as foreground
	f := FeatherField(m, 0)
	if f.At(1, 1) != 255 || f.At(2, 1) != 255 {
		t.Error("zero feather must binarize the foreground")
	}
	if f.At(0, 0) != 0 {
		t.Error("zero feather must keep the background empty")
	}
}
