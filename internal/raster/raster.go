// Package raster provides scanline polygon rasterization onto
// single-channel alpha surfaces.
package raster

import "math"

// Surface is the destination for rasterization. It is satisfied by the
// root package's mask type (interface here avoids an import cycle).
type Surface interface {
	Width() int
	Height() int
	At(x, y int) uint8
	Set(x, y int, value uint8)
}

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// subsamples is the number of sub-scanlines per pixel row. 4 matches
// the quality of common canvas rasterizers at far lower cost than full
// supersampling.
const subsamples = 4

// Rasterizer performs scanline rasterization of closed polygons.
// It keeps its scratch buffers between calls; reuse one instance when
// filling many polygons.
type Rasterizer struct {
	aet *ActiveEdgeTable
	cov []float64 // one row of pixel coverage, accumulated over sub-scanlines
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{aet: NewActiveEdgeTable()}
}

// Fill rasterizes a closed polygon onto dst with anti-aliasing.
//
// The polygon is implicitly closed: the last point connects back to the
// first. Coordinates are in pixel space where pixel (x, y) covers the
// unit square [x, x+1) x [y, y+1). alpha is the fill opacity at full
// coverage; partially covered pixels scale linearly. Destination samples
// are only ever increased (max blending), so overlapping fills do not
// compound.
//
// Polygons with fewer than 3 points produce no output.
func (r *Rasterizer) Fill(dst Surface, pts []Point, rule FillRule, alpha uint8) {
	if len(pts) < 3 || alpha == 0 {
		return
	}

	edges := make([]Edge, 0, len(pts))
	for i := range pts {
		p0 := pts[i]
		p1 := pts[(i+1)%len(pts)]
		// Horizontal edges contribute no crossings.
		if math.Abs(p1.Y-p0.Y) < 1e-9 {
			continue
		}
		edges = append(edges, NewEdge(p0, p1))
	}
	if len(edges) == 0 {
		return
	}

	yMin := math.MaxFloat64
	yMax := -math.MaxFloat64
	for _, e := range edges {
		yMin = math.Min(yMin, e.y0)
		yMax = math.Max(yMax, e.y1)
	}

	y0 := int(math.Floor(yMin))
	y1 := int(math.Ceil(yMax))
	if y0 < 0 {
		y0 = 0
	}
	if y1 > dst.Height() {
		y1 = dst.Height()
	}

	w := dst.Width()
	if cap(r.cov) < w {
		r.cov = make([]float64, w)
	}
	r.cov = r.cov[:w]

	for y := y0; y < y1; y++ {
		for x := range r.cov {
			r.cov[x] = 0
		}
		for s := 0; s < subsamples; s++ {
			scanY := float64(y) + (float64(s)+0.5)/subsamples
			r.scanline(edges, scanY, rule, w)
		}
		for x := 0; x < w; x++ {
			c := r.cov[x]
			if c <= 0 {
				continue
			}
			if c > 1 {
				c = 1
			}
			a := uint8(math.Round(c * float64(alpha)))
			if a > dst.At(x, y) {
				dst.Set(x, y, a)
			}
		}
	}
}

// scanline accumulates coverage for one sub-scanline into r.cov.
func (r *Rasterizer) scanline(edges []Edge, y float64, rule FillRule, w int) {
	r.aet.Clear()
	for _, e := range edges {
		if e.y0 <= y && y < e.y1 {
			r.aet.AddAtY(e, y)
		}
	}
	active := r.aet.Edges()
	if len(active) == 0 {
		return
	}
	r.aet.Sort()

	if rule == FillRuleNonZero {
		winding := 0
		var x1 float64
		for _, e := range active {
			if winding == 0 {
				x1 = e.x
			}
			winding += e.dir
			if winding == 0 {
				r.accumulateSpan(x1, e.x, w)
			}
		}
	} else {
		for i := 0; i+1 < len(active); i += 2 {
			r.accumulateSpan(active[i].x, active[i+1].x, w)
		}
	}
}

// accumulateSpan adds one sub-scanline's worth of coverage for the span
// [x1, x2), with fractional coverage at both ends.
func (r *Rasterizer) accumulateSpan(x1, x2 float64, w int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > float64(w) {
		x2 = float64(w)
	}
	if x1 >= x2 {
		return
	}

	const weight = 1.0 / subsamples
	i1 := int(x1)
	i2 := int(x2)
	if i1 == i2 {
		r.cov[i1] += (x2 - x1) * weight
		return
	}
	r.cov[i1] += (float64(i1+1) - x1) * weight
	for x := i1 + 1; x < i2; x++ {
		r.cov[x] += weight
	}
	if i2 < w {
		r.cov[i2] += (x2 - float64(i2)) * weight
	}
}
