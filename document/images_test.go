package document

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestJPEGFrameHeader(t *testing.T) {
	// SOI, APP0 stub, SOF0: 8 bits, 16x32, 3 components.
	data := []byte{
		0xFF, 0xD8,
		0xFF, 0xE0, 0x00, 0x04, 0x00, 0x00,
		0xFF, 0xC0, 0x00, 0x11,
		0x08, 0x00, 0x10, 0x00, 0x20, 0x03,
		0x01, 0x11, 0x00, 0x02, 0x11, 0x00, 0x03, 0x11, 0x00,
	}
	bits, w, h, comps, err := jpegFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if bits != 8 || w != 32 || h != 16 || comps != 3 {
		t.Errorf("frame = %d bits %dx%d comps %d", bits, w, h, comps)
	}
}

func TestJPEGWithoutFrameHeader(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xDA, 0x00, 0x02}
	if _, _, _, _, err := jpegFrame(data); err == nil {
		t.Error("scan before frame header must fail")
	}
}

func TestImageRejectsUnknownData(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	err = d.Image([]byte("GIF89a..."), 72, 72)
	if err == nil {
		t.Fatal("non JPEG/PNG data must be rejected")
	}
	if !strings.Contains(err.Error(), "neither JPEG nor PNG") {
		t.Errorf("error = %v", err)
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPNGImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		src.Set(i%2, i/2, color.NRGBA{R: 255, A: 255})
	}

	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Image(encodePNG(t, src), 72, 72, ImageOptions{Width: 100}); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "/Subtype /Image") {
		t.Error("no image XObject written")
	}
	if strings.Contains(out, "/SMask") {
		t.Error("opaque image should not get a soft mask")
	}
}

func TestPNGAlphaBecomesSoftMask(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(1, 0, color.NRGBA{R: 255, A: 128})

	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Image(encodePNG(t, src), 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "/SMask") {
		t.Error("translucent image needs a soft mask")
	}
}

func TestImagesDeduplicate(t *testing.T) {
	data := encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Image(data, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.Image(data, 100, 100); err != nil {
		t.Fatal(err)
	}
	if len(d.images) != 1 {
		t.Errorf("identical data should register once, got %d", len(d.images))
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestPlacedSize(t *testing.T) {
	cases := []struct {
		opts ImageOptions
		w, h float64
	}{
		{ImageOptions{}, 200, 100},
		{ImageOptions{Width: 100}, 100, 50},
		{ImageOptions{Height: 300}, 600, 300},
		{ImageOptions{Width: 50, Height: 80}, 50, 80},
		{ImageOptions{Scale: 0.5}, 100, 50},
		{ImageOptions{Fit: &[2]float64{100, 100}}, 100, 50},
	}
	for _, tc := range cases {
		w, h := placedSize(200, 100, tc.opts)
		if w != tc.w || h != tc.h {
			t.Errorf("placedSize(%+v) = %g,%g want %g,%g", tc.opts, w, h, tc.w, tc.h)
		}
	}
}
