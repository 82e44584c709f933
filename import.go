package tilemask

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/tilemask/internal/blend"
)

// ImportMask extracts a mask from img, bilinearly resamples it to w x h,
// and composites it source-over into the store at the given world
// offset. Opaque images contribute luminance, images with transparency
// contribute their alpha channel. The composite is invalidated so the
// next read picks up the imported pixels.
func (e *Engine) ImportMask(img image.Image, w, h int, offset Point) error {
	if w < 1 || h < 1 {
		return ErrInvalidDimensions
	}
	if w > maxScratchDim || h > maxScratchDim {
		return ErrScratchTooLarge
	}

	src := maskFromImage(img)
	m := src
	if src.Width() != w || src.Height() != h {
		m = resampleMask(src, w, h)
	}

	e.shapes.compose(m, offset, blend.SourceOver)
	e.store.ActivateArea(RectWH(offset.X, offset.Y, float64(w), float64(h)))
	e.comp.Invalidate()
	Logger().Debug("tilemask: mask imported",
		"source", img.Bounds().Size(),
		"width", w,
		"height", h,
	)
	return nil
}

// resampleMask scales a mask to the target size with bilinear
// filtering through the alpha channel.
func resampleMask(m *Mask, w, h int) *Mask {
	src := image.NewAlpha(image.Rect(0, 0, m.Width(), m.Height()))
	copy(src.Pix, m.Data())
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out := NewMask(w, h)
	copy(out.Data(), dst.Pix)
	return out
}
