// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package png provides the PixelGrid: a lossless RGBA byte-array view
// of a cover image. It accepts both JPEG and PNG images as input (the
// caller is responsible for only feeding JPEG covers through a
// lossless pipeline, per spec) and always emits PNG.
package png

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
)

// Grid is a random-access RGBA byte-array view of an image: Pix holds
// W*H*4 bytes, row-major, R at offset 0 of each pixel. The engine
// reads and writes pixels through pixel index i in [0, W*H), not
// through (x, y) coordinates.
type Grid struct {
	W, H int
	Pix  []byte
}

// Len returns the number of pixels, W*H.
func (g *Grid) Len() int {
	return g.W * g.H
}

// At returns the R, G, B, A bytes of pixel i.
func (g *Grid) At(i int) (byte, byte, byte, byte) {
	o := i * 4
	return g.Pix[o], g.Pix[o+1], g.Pix[o+2], g.Pix[o+3]
}

// Set overwrites the R, G, B, A bytes of pixel i.
func (g *Grid) Set(i int, r, gg, b, a byte) {
	o := i * 4
	g.Pix[o] = r
	g.Pix[o+1] = gg
	g.Pix[o+2] = b
	g.Pix[o+3] = a
}

// Decode decodes a PNG or JPEG image from r into a Grid. Colour
// values are taken from the image's non-premultiplied NRGBA
// representation, so no premultiplied-alpha arithmetic leaks into the
// grid.
func Decode(r io.Reader) (*Grid, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("png: decode: %w", err)
	}

	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	grid := &Grid{W: w, H: h, Pix: make([]byte, w*h*4)}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			grid.Set(i, c.R, c.G, c.B, c.A)
			i++
		}
	}
	return grid, nil
}

// Encode writes grid to w as a PNG image.
func Encode(w io.Writer, grid *Grid) error {
	img := image.NewNRGBA(image.Rect(0, 0, grid.W, grid.H))
	for i := 0; i < grid.Len(); i++ {
		r, g, b, a := grid.At(i)
		img.SetNRGBA(i%grid.W, i/grid.W, color.NRGBA{R: r, G: g, B: b, A: a})
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("png: encode: %w", err)
	}
	return nil
}
