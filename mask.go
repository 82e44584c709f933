package tilemask

import (
	"image"

	"github.com/gogpu/tilemask/internal/blend"
)

// Mask is a single-channel alpha raster. Values range from 0 (fully
// transparent) to 255 (fully opaque). It is the unit of storage for
// chunk surfaces, the composite, and every scratch buffer in the
// engine.
type Mask struct {
	width  int
	height int
	data   []uint8
}

// NewMask creates a new empty mask with the given dimensions.
// All values are initialized to 0 (fully transparent).
// Dimensions below 1 are clamped to 1.
func NewMask(width, height int) *Mask {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// NewMaskFromAlpha creates a mask from an image's alpha channel.
func NewMaskFromAlpha(img image.Image) *Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := NewMask(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// a is 0-65535, shift by 8 to get 0-255
			mask.data[y*w+x] = uint8(a >> 8)
		}
	}

	return mask
}

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// At returns the mask value at (x, y).
// Returns 0 for coordinates outside the mask bounds.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set sets the mask value at (x, y).
// Coordinates outside the mask bounds are ignored.
func (m *Mask) Set(x, y int, value uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = value
}

// Fill fills the entire mask with a value.
func (m *Mask) Fill(value uint8) {
	for i := range m.data {
		m.data[i] = value
	}
}

// Invert inverts all mask values (255 - value).
func (m *Mask) Invert() {
	for i := range m.data {
		m.data[i] = 255 - m.data[i]
	}
}

// Clear clears the mask (sets all values to 0).
func (m *Mask) Clear() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// Clone creates a copy of the mask.
func (m *Mask) Clone() *Mask {
	clone := NewMask(m.width, m.height)
	copy(clone.data, m.data)
	return clone
}

// Data returns the underlying mask data slice.
// This is useful for advanced operations.
func (m *Mask) Data() []uint8 {
	return m.data
}

// IsEmpty reports whether every sample is 0.
func (m *Mask) IsEmpty() bool {
	for _, v := range m.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// DrawMask composites src into m with its top-left corner at (dx, dy),
// using the given blend mode. The source is clipped to m's bounds;
// offsets may be negative.
func (m *Mask) DrawMask(src *Mask, dx, dy int, mode blend.Mode) {
	fn := blend.ForMode(mode)

	x0, y0 := 0, 0
	if dx < 0 {
		x0 = -dx
	}
	if dy < 0 {
		y0 = -dy
	}
	x1, y1 := src.width, src.height
	if dx+x1 > m.width {
		x1 = m.width - dx
	}
	if dy+y1 > m.height {
		y1 = m.height - dy
	}

	for sy := y0; sy < y1; sy++ {
		srow := src.data[sy*src.width:]
		drow := m.data[(sy+dy)*m.width:]
		for sx := x0; sx < x1; sx++ {
			di := sx + dx
			drow[di] = fn(srow[sx], drow[di])
		}
	}
}

// FillRegion fills the axis-aligned region of width w and height h with
// its top-left corner at (x, y). The region is clipped to the mask.
func (m *Mask) FillRegion(x, y, w, h int, value uint8) {
	x0, y0 := x, y
	x1, y1 := x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > m.width {
		x1 = m.width
	}
	if y1 > m.height {
		y1 = m.height
	}
	for yy := y0; yy < y1; yy++ {
		row := m.data[yy*m.width : yy*m.width+m.width]
		for xx := x0; xx < x1; xx++ {
			row[xx] = value
		}
	}
}

// CopyRegion returns a new mask holding the w x h region with its
// top-left corner at (x, y). Parts of the region outside the mask read
// as 0.
func (m *Mask) CopyRegion(x, y, w, h int) *Mask {
	out := NewMask(w, h)
	x0, y0 := 0, 0
	if x < 0 {
		x0 = -x
	}
	if y < 0 {
		y0 = -y
	}
	x1, y1 := w, h
	if x+x1 > m.width {
		x1 = m.width - x
	}
	if y+y1 > m.height {
		y1 = m.height - y
	}
	for yy := y0; yy < y1; yy++ {
		srow := m.data[(yy+y)*m.width:]
		drow := out.data[yy*out.width:]
		for xx := x0; xx < x1; xx++ {
			drow[xx] = srow[xx+x]
		}
	}
	return out
}

// Image returns the mask as an image.Image view, alpha visualized as
// opaque gray. The view shares the mask's storage.
func (m *Mask) Image() image.Image {
	return &image.Gray{Pix: m.data, Stride: m.width, Rect: m.Bounds()}
}

// Binarize sets every sample above the threshold to 255 and every other
// sample to 0, in place.
func (m *Mask) Binarize(threshold uint8) {
	for i, v := range m.data {
		if v > threshold {
			m.data[i] = 255
		} else {
			m.data[i] = 0
		}
	}
}
