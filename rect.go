package tilemask

import "math"

// Rect represents an axis-aligned rectangle in world coordinates.
// Min is the top-left corner (minimum coordinates).
// Max is the bottom-right corner (maximum coordinates).
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two points.
// The points are normalized so Min <= Max.
func NewRect(p1, p2 Point) Rect {
	return Rect{
		Min: Point{X: math.Min(p1.X, p2.X), Y: math.Min(p1.Y, p2.Y)},
		Max: Point{X: math.Max(p1.X, p2.X), Y: math.Max(p1.Y, p2.Y)},
	}
}

// RectWH creates a rectangle from an origin and a size.
func RectWH(x, y, w, h float64) Rect {
	return NewRect(Point{X: x, Y: y}, Point{X: x + w, Y: y + h})
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, other.Min.X), Y: math.Min(r.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, other.Max.X), Y: math.Max(r.Max.Y, other.Max.Y)},
	}
}

// Intersects reports whether r and other overlap (touching edges count).
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X <= other.Max.X && other.Min.X <= r.Max.X &&
		r.Min.Y <= other.Max.Y && other.Min.Y <= r.Max.Y
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand returns the rectangle grown by margin on all four sides.
// Negative margins shrink; the result is not re-normalized.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - margin, Y: r.Min.Y - margin},
		Max: Point{X: r.Max.X + margin, Y: r.Max.Y + margin},
	}
}

// TileCoord identifies one chunk tile on the infinite tile grid.
// A world position (x, y) maps to tile (floor(x/size), floor(y/size)).
type TileCoord struct {
	X, Y int
}

// TileCoordOf returns the tile containing the world position p for the
// given tile size.
func TileCoordOf(p Point, size int) TileCoord {
	return TileCoord{
		X: int(math.Floor(p.X / float64(size))),
		Y: int(math.Floor(p.Y / float64(size))),
	}
}

// TileRect is an inclusive range of tiles: every tile t with
// Min.X <= t.X <= Max.X and Min.Y <= t.Y <= Max.Y belongs to the range.
type TileRect struct {
	Min, Max TileCoord
}

// TileRectOf returns the smallest tile range covering the world rectangle.
// Points exactly on the right/bottom edge still count toward the edge tile,
// so a zero-area rect maps to the single tile containing it.
func TileRectOf(r Rect, size int) TileRect {
	return TileRect{
		Min: TileCoordOf(r.Min, size),
		Max: TileCoordOf(r.Max, size),
	}
}

// Cols returns the number of tile columns in the range.
func (t TileRect) Cols() int {
	return t.Max.X - t.Min.X + 1
}

// Rows returns the number of tile rows in the range.
func (t TileRect) Rows() int {
	return t.Max.Y - t.Min.Y + 1
}

// Contains reports whether the tile c lies inside the range.
func (t TileRect) Contains(c TileCoord) bool {
	return c.X >= t.Min.X && c.X <= t.Max.X && c.Y >= t.Min.Y && c.Y <= t.Max.Y
}

// ContainsRect reports whether other lies entirely inside t.
func (t TileRect) ContainsRect(other TileRect) bool {
	return t.Contains(other.Min) && t.Contains(other.Max)
}

// Union returns the smallest tile range containing both t and other.
func (t TileRect) Union(other TileRect) TileRect {
	return TileRect{
		Min: TileCoord{X: min(t.Min.X, other.Min.X), Y: min(t.Min.Y, other.Min.Y)},
		Max: TileCoord{X: max(t.Max.X, other.Max.X), Y: max(t.Max.Y, other.Max.Y)},
	}
}

// Include returns the range grown to contain the tile c.
func (t TileRect) Include(c TileCoord) TileRect {
	return TileRect{
		Min: TileCoord{X: min(t.Min.X, c.X), Y: min(t.Min.Y, c.Y)},
		Max: TileCoord{X: max(t.Max.X, c.X), Y: max(t.Max.Y, c.Y)},
	}
}

// Expand returns the range grown by n tiles on all four sides.
func (t TileRect) Expand(n int) TileRect {
	return TileRect{
		Min: TileCoord{X: t.Min.X - n, Y: t.Min.Y - n},
		Max: TileCoord{X: t.Max.X + n, Y: t.Max.Y + n},
	}
}

// WorldRect returns the world-space extent of the tile range for the
// given tile size.
func (t TileRect) WorldRect(size int) Rect {
	s := float64(size)
	return Rect{
		Min: Point{X: float64(t.Min.X) * s, Y: float64(t.Min.Y) * s},
		Max: Point{X: float64(t.Max.X+1) * s, Y: float64(t.Max.Y+1) * s},
	}
}
