// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenmask

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/tilemask"
)

// View connects a tilemask.Engine to Ebitengine: it maps mouse input to
// brush strokes, uploads the composite into a GPU image when it
// changes, and draws contour previews as marching ants.
//
// View is NOT safe for concurrent use.
type View struct {
	eng *tilemask.Engine

	// CameraX, CameraY is the world position of the screen's top-left
	// corner. Callers panning the viewport update these directly.
	CameraX, CameraY float64

	// Tint is the display color of the mask. Alpha scales the mask's
	// own alpha.
	Tint color.NRGBA

	img        *ebiten.Image
	pix        []byte
	generation uint64
	origin     tilemask.Point

	ants     *Ants
	contours []tilemask.Polyline
}

// NewView creates a view over the given engine. The engine's shape
// operator preview callback is claimed by the view; contours arriving
// from SchedulePreview are drawn as marching ants until the next
// CancelPreview.
func NewView(eng *tilemask.Engine) *View {
	v := &View{
		eng:  eng,
		Tint: color.NRGBA{R: 255, G: 255, B: 255, A: 160},
		ants: NewAnts(),
	}
	eng.Shapes().OnPreview = func(cs []tilemask.Polyline) {
		v.contours = cs
	}
	return v
}

// Engine returns the underlying mask engine.
func (v *View) Engine() *tilemask.Engine { return v.eng }

// ClearContours drops the current contour preview overlay.
func (v *View) ClearContours() {
	v.eng.Shapes().CancelPreview()
	v.contours = nil
}

// Update maps mouse state to the stroke lifecycle and pumps the
// engine's throttled work. Call once per Ebitengine Update.
func (v *View) Update() {
	mx, my := ebiten.CursorPosition()
	world := tilemask.Pt(float64(mx)+v.CameraX, float64(my)+v.CameraY)

	s := v.eng.Stroke()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		s.Begin(world)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && s.Drawing():
		s.Extend(world)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && s.Drawing():
		s.Extend(world)
		s.End()
	}

	v.eng.Tick()
	v.ants.Update(1.0 / float32(ebiten.TPS()))
}

// Image returns the composite as a GPU image, re-uploading only when
// the engine reports a new build. The world origin of the image's
// top-left pixel is returned alongside.
func (v *View) Image() (*ebiten.Image, tilemask.Point) {
	mask, origin := v.eng.Composite()
	gen := v.eng.Compositor().Generation()
	if v.img != nil && gen == v.generation {
		return v.img, v.origin
	}

	w, h := mask.Width(), mask.Height()
	if v.img == nil || v.img.Bounds().Dx() != w || v.img.Bounds().Dy() != h {
		if v.img != nil {
			v.img.Deallocate()
		}
		v.img = ebiten.NewImage(w, h)
		v.pix = make([]byte, 4*w*h)
	}

	expandTint(v.pix, mask.Data(), v.Tint)
	v.img.WritePixels(v.pix)
	v.generation = gen
	v.origin = origin
	return v.img, v.origin
}

// Draw blits the mask at its world position and overlays any contour
// preview. Call from Ebitengine Draw.
func (v *View) Draw(screen *ebiten.Image) {
	img, origin := v.Image()

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(origin.X-v.CameraX, origin.Y-v.CameraY)
	screen.DrawImage(img, &op)

	if len(v.contours) > 0 {
		v.ants.DrawContours(screen, v.contours, -v.CameraX, -v.CameraY)
	}
}

// expandTint expands single-channel mask data into premultiplied RGBA
// with the given tint.
func expandTint(dst []byte, src []uint8, tint color.NRGBA) {
	for i, a := range src {
		// Premultiply: mask alpha scaled by tint alpha, color by result.
		pa := uint32(a) * uint32(tint.A) / 255
		o := i * 4
		dst[o+0] = byte(uint32(tint.R) * pa / 255)
		dst[o+1] = byte(uint32(tint.G) * pa / 255)
		dst[o+2] = byte(uint32(tint.B) * pa / 255)
		dst[o+3] = byte(pa)
	}
}
