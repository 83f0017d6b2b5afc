// Package ppm writes frame buffers as P6 raw binary PPM images: RGB, no
// alpha channel, row-major top-to-bottom, one header per frame.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

// WriteFrame writes one P6 PPM image of f to w. Concatenating the output of
// successive calls on the same w is a legal PPM stream (pipe mode).
func WriteFrame(w io.Writer, f *visual.Frame) error {
	header := fmt.Sprintf("P6\n%d %d\n255\n", visual.Width, visual.Height)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	buf := make([]byte, visual.Width*3)
	for y := 0; y < visual.Height; y++ {
		row := buf[:0]
		for x := 0; x < visual.Width; x++ {
			argb := f.At(x, y)
			r := byte(argb >> 16)
			g := byte(argb >> 8)
			b := byte(argb)
			row = append(row, r, g, b)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteFrameFile writes f as a standalone PPM file at path (used for the
// frame_%06d.ppm file-per-frame output mode).
func WriteFrameFile(path string, f *visual.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := WriteFrame(w, f); err != nil {
		return err
	}
	return w.Flush()
}

// FrameFileName formats the fixed six-digit zero-padded frame file name.
func FrameFileName(frame int) string {
	return fmt.Sprintf("frame_%06d.ppm", frame)
}
