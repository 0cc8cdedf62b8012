package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

func TestThumbnailResizesToWidth(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 400))
	for x := 0; x < 640; x++ {
		for y := 0; y < 400; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode source: %v", err)
	}

	out, err := Thumbnail(buf.Bytes())
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	thumb, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	b := thumb.Bounds()
	if b.Dx() != 320 {
		t.Fatalf("width = %d, want 320", b.Dx())
	}
	if b.Dy() != 200 {
		t.Fatalf("height = %d, want 200 (aspect preserved)", b.Dy())
	}
}

func TestThumbnailRejectsNonImage(t *testing.T) {
	if _, err := Thumbnail([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-image data")
	}
}
