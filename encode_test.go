package tilemask

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func gradientMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, uint8((x*7+y*13)%256))
		}
	}
	return m
}

func TestEncodeDecodePNGRoundTrip(t *testing.T) {
	src := gradientMask(33, 21)

	var buf bytes.Buffer
	if err := src.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	got, err := DecodePNG(&buf)
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	if got.Width() != src.Width() || got.Height() != src.Height() {
		t.Fatalf("dims %dx%d, want %dx%d", got.Width(), got.Height(), src.Width(), src.Height())
	}
	gd, sd := got.Data(), src.Data()
	for i := range sd {
		if gd[i] != sd[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, gd[i], sd[i])
		}
	}
}

func TestDecodePNGOpaqueUsesLuminance(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 30)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	m, err := DecodePNG(&buf)
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	for x := 0; x < 8; x++ {
		if got := m.At(x, 0); got != uint8(x*30) {
			t.Errorf("luminance at x=%d: got %d, want %d", x, got, x*30)
		}
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	src := gradientMask(16, 16)

	s, err := EncodeDataURL(src)
	if err != nil {
		t.Fatalf("EncodeDataURL: %v", err)
	}
	if !strings.HasPrefix(s, "data:image/png;base64,") {
		t.Fatalf("missing data URL prefix: %.40s", s)
	}
	got, err := DecodeDataURL(s)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	gd, sd := got.Data(), src.Data()
	for i := range sd {
		if gd[i] != sd[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, gd[i], sd[i])
		}
	}
}

func TestDecodeDataURLErrors(t *testing.T) {
	if _, err := DecodeDataURL("data:image/jpeg;base64,AAAA"); err == nil {
		t.Error("non-PNG media type must fail")
	}
	if _, err := DecodeDataURL("data:image/png;base64,!!not-base64!!"); err == nil {
		t.Error("invalid base64 must fail")
	}
}

func TestEngineEncodeDataURL(t *testing.T) {
	eng, _ := newTestEngine()
	if err := eng.Shapes().Apply(square(10, 10, 40), 0, 0, Point{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	s, err := eng.EncodeDataURL()
	if err != nil {
		t.Fatalf("EncodeDataURL: %v", err)
	}
	m, err := DecodeDataURL(s)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if m.IsEmpty() {
		t.Error("encoded composite must not be empty")
	}
}
