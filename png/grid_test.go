// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package png

import (
	"bytes"
	"image"
	"image/color"
	goimgpng "image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int, fill func(x, y int) color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	var buf bytes.Buffer
	if err := goimgpng.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeDimensions(t *testing.T) {
	data := encodeTestPNG(t, 16, 8, func(x, y int) color.NRGBA {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	})

	grid, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if grid.W != 16 || grid.H != 8 {
		t.Fatalf("dimensions = %dx%d, want 16x8", grid.W, grid.H)
	}
	if grid.Len() != 128 {
		t.Fatalf("Len() = %d, want 128", grid.Len())
	}
}

func TestDecodePixelValues(t *testing.T) {
	data := encodeTestPNG(t, 2, 2, func(x, y int) color.NRGBA {
		return color.NRGBA{R: byte(x * 10), G: byte(y * 20), B: 5, A: 200}
	})

	grid, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	r, g, b, a := grid.At(0)
	if r != 0 || g != 0 || b != 5 || a != 200 {
		t.Fatalf("pixel 0 = (%d,%d,%d,%d), want (0,0,5,200)", r, g, b, a)
	}
	r, g, b, a = grid.At(1) // x=1,y=0
	if r != 10 || g != 0 || b != 5 || a != 200 {
		t.Fatalf("pixel 1 = (%d,%d,%d,%d), want (10,0,5,200)", r, g, b, a)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	grid := &Grid{W: 3, H: 2, Pix: make([]byte, 3*2*4)}
	for i := 0; i < grid.Len(); i++ {
		grid.Set(i, byte(i), byte(i*2), byte(i*3), 255)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, grid); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.W != grid.W || decoded.H != grid.H {
		t.Fatalf("dimensions changed: got %dx%d, want %dx%d", decoded.W, decoded.H, grid.W, grid.H)
	}
	for i := 0; i < grid.Len(); i++ {
		r1, g1, b1, a1 := grid.At(i)
		r2, g2, b2, a2 := decoded.At(i)
		if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
			t.Fatalf("pixel %d changed: (%d,%d,%d,%d) -> (%d,%d,%d,%d)", i, r1, g1, b1, a1, r2, g2, b2, a2)
		}
	}
}
