package tilemask

import "math"

// BrushProfile describes a round soft brush. The profile is captured at
// stroke begin and stays fixed for the duration of one stroke.
type BrushProfile struct {
	// Radius is the brush radius in world pixels.
	Radius float64

	// Strength is the peak alpha of the stroke, in [0, 1].
	// A strength of 0 makes drawing a no-op.
	Strength float64

	// Hardness controls the falloff, in [0, 1]. At 1 the brush is a flat
	// disc; below 1 alpha ramps linearly from radius*hardness down to 0
	// at the outer radius.
	Hardness float64
}

// DefaultBrush returns a medium soft brush.
func DefaultBrush() BrushProfile {
	return BrushProfile{Radius: 20, Strength: 1, Hardness: 0.5}
}

// Normalized returns a copy with Strength and Hardness clamped to
// [0, 1] and a non-negative Radius.
func (b BrushProfile) Normalized() BrushProfile {
	b.Radius = math.Max(b.Radius, 0)
	b.Strength = clamp01(b.Strength)
	b.Hardness = clamp01(b.Hardness)
	return b
}

// WithRadius returns a copy with the given radius.
func (b BrushProfile) WithRadius(r float64) BrushProfile {
	b.Radius = r
	return b
}

// WithStrength returns a copy with the given strength.
func (b BrushProfile) WithStrength(s float64) BrushProfile {
	b.Strength = s
	return b
}

// WithHardness returns a copy with the given hardness.
func (b BrushProfile) WithHardness(h float64) BrushProfile {
	b.Hardness = h
	return b
}

// coverage maps a distance from the stroke spine to an alpha fraction
// in [0, 1]. Inside radius*hardness the brush paints at full Strength;
// between there and Radius the alpha ramps linearly to 0.
func (b BrushProfile) coverage(dist float64) float64 {
	if dist >= b.Radius {
		return 0
	}
	inner := b.Radius * b.Hardness
	if dist <= inner {
		return b.Strength
	}
	return b.Strength * (1 - (dist-inner)/(b.Radius-inner))
}

// stampSegment draws one round-capped stroke segment into dst. dst's
// pixel (x, y) covers the world unit square at origin+(x, y); coverage
// is sampled at pixel centers. Samples accumulate with max blending so
// overlapping segments of one stroke never compound.
func stampSegment(dst *Mask, origin Point, a, b Point, brush BrushProfile) {
	if brush.Strength <= 0 || brush.Radius <= 0 {
		return
	}

	seg := NewRect(a, b).Expand(brush.Radius + 1)
	x0 := int(math.Floor(seg.Min.X - origin.X))
	y0 := int(math.Floor(seg.Min.Y - origin.Y))
	x1 := int(math.Ceil(seg.Max.X - origin.X))
	y1 := int(math.Ceil(seg.Max.Y - origin.Y))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > dst.Width() {
		x1 = dst.Width()
	}
	if y1 > dst.Height() {
		y1 = dst.Height()
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			center := Pt(origin.X+float64(x)+0.5, origin.Y+float64(y)+0.5)
			dist := center.DistanceToSegment(a, b)
			c := brush.coverage(dist)
			if c <= 0 {
				continue
			}
			alpha := uint8(math.Round(c * 255))
			if alpha > dst.At(x, y) {
				dst.Set(x, y, alpha)
			}
		}
	}
}

// stampKey quantizes radius and hardness into a cache key for
// precomputed dab stamps. Radius is quantized to quarter pixels,
// hardness to 1/255.
func stampKey(b BrushProfile) uint64 {
	r := uint64(math.Round(b.Radius * 4))
	h := uint64(math.Round(b.Hardness * 255))
	return r<<16 | h
}

// renderStamp precomputes a full-strength dab: a square mask holding
// the radial falloff of the brush centered on the stamp. Strength is
// applied when the stamp is drawn, so one stamp serves any strength.
func renderStamp(b BrushProfile) *Mask {
	d := int(math.Ceil(b.Radius*2)) + 2
	stamp := NewMask(d, d)
	center := float64(d) / 2
	full := b.WithStrength(1)
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			c := full.coverage(math.Hypot(dx, dy))
			if c > 0 {
				stamp.Set(x, y, uint8(math.Round(c*255)))
			}
		}
	}
	return stamp
}

// drawStamp blits a precomputed dab into dst with its center at the
// world point p, scaling each sample by strength and blending with max.
func drawStamp(dst *Mask, origin Point, p Point, stamp *Mask, strength float64) {
	if strength <= 0 {
		return
	}
	dx := int(math.Round(p.X-origin.X)) - stamp.Width()/2
	dy := int(math.Round(p.Y-origin.Y)) - stamp.Height()/2
	for y := 0; y < stamp.Height(); y++ {
		for x := 0; x < stamp.Width(); x++ {
			v := stamp.At(x, y)
			if v == 0 {
				continue
			}
			a := uint8(math.Round(float64(v) * strength))
			if a > dst.At(x+dx, y+dy) {
				dst.Set(x+dx, y+dy, a)
			}
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
