// Package coverart renders a segment's first frame as an upscaled PNG cover
// image, for the export_cover CLI command.
package coverart

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

// toImage converts a Frame's packed ARGB pixels into a standard image.RGBA.
func toImage(f *visual.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, visual.Width, visual.Height))
	for y := 0; y < visual.Height; y++ {
		for x := 0; x < visual.Width; x++ {
			argb := f.At(x, y)
			a := byte(argb >> 24)
			r := byte(argb >> 16)
			g := byte(argb >> 8)
			b := byte(argb)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}

// Write upscales frame by scale (minimum 1, no-op at 1) using Catmull-Rom
// interpolation and encodes the result as a PNG to w.
func Write(w io.Writer, f *visual.Frame, scale int) error {
	if scale < 1 {
		scale = 1
	}
	src := toImage(f)
	if scale == 1 {
		return png.Encode(w, src)
	}

	dstRect := image.Rect(0, 0, visual.Width*scale, visual.Height*scale)
	dst := image.NewRGBA(dstRect)
	draw.CatmullRom.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)

	return png.Encode(w, dst)
}
