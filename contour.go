package tilemask

// Polyline is an ordered sequence of points tracing one mask contour.
type Polyline []Point

// contourMaxPoints bounds the rendered length of one simplified
// contour, keeping per-frame preview cost flat regardless of mask size.
const contourMaxPoints = 200

// mooreDirs is the 8-neighborhood in clockwise order, starting East.
var mooreDirs = [8]struct{ dx, dy int }{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// TraceAll extracts every boundary contour of the mask's foreground
// (sample > 0) as point sequences at pixel coordinates. Outer
// boundaries and interior holes are both returned, unclassified: render
// them with an even-odd fill rule to get holes right.
//
// Contours are simplified by uniform subsampling so no polyline exceeds
// roughly contourMaxPoints points. An all-background mask yields an
// empty list; a single isolated pixel yields a degenerate length-1
// contour, which callers that need an area should filter at length > 2.
func TraceAll(m *Mask) []Polyline {
	return traceAll(m, true)
}

func traceAll(m *Mask, simplify bool) []Polyline {
	w, h := m.Width(), m.Height()
	visited := make([]bool, w*h)
	var out []Polyline

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.At(x, y) == 0 || visited[y*w+x] {
				continue
			}
			// Boundary seed: a foreground pixel with at least one
			// background 4-neighbor (At treats out-of-raster as 0).
			if m.At(x-1, y) > 0 && m.At(x+1, y) > 0 && m.At(x, y-1) > 0 && m.At(x, y+1) > 0 {
				continue
			}
			contour := traceFrom(m, x, y, visited)
			if simplify {
				contour = subsample(contour)
			}
			out = append(out, contour)
		}
	}
	return out
}

// traceFrom follows the boundary clockwise from the seed using
// Moore-neighbor tracing: from each pixel the neighbor search restarts
// two positions clockwise from the entry direction and sweeps the
// 8-neighborhood until it finds foreground. Tracing stops when the path
// returns to the seed. All touched pixels are marked visited so they
// seed no further contour.
func traceFrom(m *Mask, sx, sy int, visited []bool) Polyline {
	w := m.Width()
	contour := Polyline{Pt(float64(sx), float64(sy))}
	visited[sy*w+sx] = true

	cx, cy := sx, sy
	// Synthesize an arrival direction so the first sweep starts at a
	// background 4-neighbor. For outer boundaries that is the pixel to
	// the west (the row-major scan guarantees it); hole boundaries may
	// only have background on another side.
	dir := 6
	for _, b := range [4]int{4, 6, 0, 2} {
		nx := sx + mooreDirs[b].dx
		ny := sy + mooreDirs[b].dy
		if m.At(nx, ny) == 0 {
			dir = (b + 2) % 8
			break
		}
	}
	// The boundary cannot be longer than the pixel count; the cap only
	// guards against a broken visited invariant.
	for steps := 0; steps < 4*w*m.Height()+8; steps++ {
		found := false
		start := (dir + 6) % 8
		for i := 0; i < 8; i++ {
			d := (start + i) % 8
			nx := cx + mooreDirs[d].dx
			ny := cy + mooreDirs[d].dy
			if m.At(nx, ny) > 0 {
				cx, cy, dir = nx, ny, d
				found = true
				break
			}
		}
		if !found {
			break // isolated pixel: degenerate length-1 contour
		}
		if cx == sx && cy == sy {
			break
		}
		contour = append(contour, Pt(float64(cx), float64(cy)))
		visited[cy*w+cx] = true
	}
	return contour
}

// subsample keeps every k-th point with k = max(1, len/contourMaxPoints).
func subsample(p Polyline) Polyline {
	k := len(p) / contourMaxPoints
	if k <= 1 {
		return p
	}
	out := make(Polyline, 0, len(p)/k+1)
	for i := 0; i < len(p); i += k {
		out = append(out, p[i])
	}
	return out
}
