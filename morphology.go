package tilemask

import "github.com/chewxy/math32"

// SeedMode selects which pixel class seeds a distance transform at 0.
type SeedMode int

const (
	// SeedForeground seeds mask foreground (sample > 0) at 0, so the
	// field holds each pixel's distance to the mask. Used by Dilate.
	SeedForeground SeedMode = iota

	// SeedBackground seeds the background at 0, so the field holds each
	// foreground pixel's depth inside the mask. Used by Erode and
	// FeatherField. Out-of-raster pixels count as background, which is
	// what makes a fully filled raster erode and feather from its edges.
	SeedBackground
)

// DistanceTransform computes a two-pass chamfer approximation of the
// Euclidean distance field over the mask. Propagation weights are
// exactly {1, sqrt 2}; the seed value of the far class is w+h, an
// unreachable upper bound that callers must treat as "no seed in
// range", never compare against.
//
// The result is indexed row-major, matching the mask's data layout.
func DistanceTransform(m *Mask, seed SeedMode) []float32 {
	w, h := m.Width(), m.Height()
	inf := float32(w + h)
	d := make([]float32, w*h)

	data := m.Data()
	for i, v := range data {
		if (v > 0) == (seed == SeedForeground) {
			d[i] = 0
		} else {
			d[i] = inf
		}
	}

	// Out-of-raster neighbors belong to the background class.
	border := inf
	if seed == SeedBackground {
		border = 0
	}
	at := func(x, y int) float32 {
		if x < 0 || x >= w || y < 0 || y >= h {
			return border
		}
		return d[y*w+x]
	}

	const diag = math32.Sqrt2

	// Forward pass: top-left to bottom-right.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			v := d[i]
			v = math32.Min(v, at(x-1, y)+1)
			v = math32.Min(v, at(x, y-1)+1)
			v = math32.Min(v, at(x-1, y-1)+diag)
			v = math32.Min(v, at(x+1, y-1)+diag)
			d[i] = v
		}
	}

	// Backward pass: bottom-right to top-left.
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			i := y*w + x
			v := d[i]
			v = math32.Min(v, at(x+1, y)+1)
			v = math32.Min(v, at(x, y+1)+1)
			v = math32.Min(v, at(x+1, y+1)+diag)
			v = math32.Min(v, at(x-1, y+1)+diag)
			d[i] = v
		}
	}

	return d
}

// Dilate grows the mask's foreground by r pixels: a result pixel is
// foreground iff its chamfer distance to the input foreground is at
// most r. The result has sharp, binarized edges for any r. r <= 0
// returns an unchanged copy.
func Dilate(m *Mask, r int) *Mask {
	if r <= 0 {
		return m.Clone()
	}
	d := DistanceTransform(m, SeedForeground)
	out := NewMask(m.Width(), m.Height())
	rr := float32(r)
	data := out.Data()
	for i, dist := range d {
		if dist <= rr {
			data[i] = 255
		}
	}
	return out
}

// Erode shrinks the mask's foreground by r pixels; the dual of Dilate.
// A pixel survives iff its depth inside the foreground exceeds r.
// r <= 0 returns an unchanged copy.
func Erode(m *Mask, r int) *Mask {
	if r <= 0 {
		return m.Clone()
	}
	d := DistanceTransform(m, SeedBackground)
	out := NewMask(m.Width(), m.Height())
	rr := float32(r)
	src := m.Data()
	dst := out.Data()
	for i, v := range src {
		if v > 0 && d[i] > rr {
			dst[i] = 255
		}
	}
	return out
}

// FeatherField converts a hard mask into a continuous inward alpha
// ramp: alpha rises linearly from 0 at the mask boundary to 255 at
// featherRadius pixels inside, stays 255 deeper in, and is 0 on every
// exterior pixel. featherRadius <= 0 returns the binarized mask.
//
// The boundary-most foreground pixel sits at chamfer depth 1, so depth
// minus one is the distance from the boundary.
func FeatherField(m *Mask, featherRadius int) *Mask {
	out := NewMask(m.Width(), m.Height())
	src := m.Data()
	dst := out.Data()

	if featherRadius <= 0 {
		for i, v := range src {
			if v > 0 {
				dst[i] = 255
			}
		}
		return out
	}

	d := DistanceTransform(m, SeedBackground)
	fr := float32(featherRadius)
	for i, v := range src {
		if v == 0 {
			continue
		}
		dist := d[i] - 1
		if dist < 0 {
			dist = 0
		}
		if dist >= fr {
			dst[i] = 255
		} else {
			dst[i] = uint8(math32.Round(dist / fr * 255))
		}
	}
	return out
}
