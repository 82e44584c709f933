package tilemask

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
)

const dataURLPrefix = "data:image/png;base64,"

// EncodePNG writes the mask as a PNG with white pixels and the mask
// value in the alpha channel, the interchange form used for mask
// transport.
func (m *Mask) EncodePNG(w io.Writer) error {
	img := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	data := m.data
	for i, a := range data {
		o := i * 4
		img.Pix[o+0] = 255
		img.Pix[o+1] = 255
		img.Pix[o+2] = 255
		img.Pix[o+3] = a
	}
	return png.Encode(w, img)
}

// DecodePNG reads a PNG and extracts a mask from it: the alpha channel
// when the image carries transparency, luminance otherwise.
func DecodePNG(r io.Reader) (*Mask, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("tilemask: decode png: %w", err)
	}
	return maskFromImage(img), nil
}

// EncodeDataURL returns the mask as a base64 data:image/png URL, the
// form masks travel in when embedded in JSON payloads.
func EncodeDataURL(m *Mask) (string, error) {
	var buf bytes.Buffer
	if err := m.EncodePNG(&buf); err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL parses a data:image/png URL produced by EncodeDataURL
// or an external mask source. A bare base64 payload without the prefix
// is accepted too.
func DecodeDataURL(s string) (*Mask, error) {
	payload := strings.TrimPrefix(s, dataURLPrefix)
	if payload == s && strings.HasPrefix(s, "data:") {
		return nil, fmt.Errorf("tilemask: unsupported data URL media type")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("tilemask: decode data url: %w", err)
	}
	return DecodePNG(bytes.NewReader(raw))
}

// EncodePNG writes the engine's current composite as a PNG.
func (e *Engine) EncodePNG(w io.Writer) error {
	m, _ := e.Composite()
	return m.EncodePNG(w)
}

// EncodeDataURL returns the engine's current composite as a base64
// data:image/png URL.
func (e *Engine) EncodeDataURL() (string, error) {
	m, _ := e.Composite()
	return EncodeDataURL(m)
}

// maskFromImage extracts alpha from img, falling back to luminance for
// fully opaque images.
func maskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())

	opaque := true
	if o, ok := img.(interface{ Opaque() bool }); ok {
		opaque = o.Opaque()
	} else {
	scan:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
					opaque = false
					break scan
				}
			}
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v uint8
			if opaque {
				v = color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			} else {
				_, _, _, a := img.At(x, y).RGBA()
				v = uint8(a >> 8)
			}
			m.Set(x-b.Min.X, y-b.Min.Y, v)
		}
	}
	return m
}
