package ppm

import (
	"bytes"
	"testing"

	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

func TestWriteFrameHeader(t *testing.T) {
	f := visual.NewFrame()
	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != nil {
		t.Fatal(err)
	}
	want := "P6\n800 600\n255\n"
	got := buf.String()[:len(want)]
	if got != want {
		t.Fatalf("header = %q, want %q", got, want)
	}
}

func TestWriteFrameByteLength(t *testing.T) {
	f := visual.NewFrame()
	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != nil {
		t.Fatal(err)
	}
	header := "P6\n800 600\n255\n"
	wantLen := len(header) + visual.Width*visual.Height*3
	if buf.Len() != wantLen {
		t.Fatalf("total length = %d, want %d", buf.Len(), wantLen)
	}
}

func TestWriteFrameDropsAlphaChannel(t *testing.T) {
	f := visual.NewFrame()
	f.SetPixel(0, 0, visual.PackARGB(128, 10, 20, 30))
	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != nil {
		t.Fatal(err)
	}
	header := "P6\n800 600\n255\n"
	pixelBytes := buf.Bytes()[len(header):]
	if pixelBytes[0] != 10 || pixelBytes[1] != 20 || pixelBytes[2] != 30 {
		t.Fatalf("pixel 0 = %v, want [10 20 30]", pixelBytes[:3])
	}
}

func TestConcatenatedStreamHasTwoHeaders(t *testing.T) {
	f := visual.NewFrame()
	var buf bytes.Buffer
	WriteFrame(&buf, f)
	WriteFrame(&buf, f)
	header := []byte("P6\n800 600\n255\n")
	if !bytes.HasPrefix(buf.Bytes(), header) {
		t.Fatal("first frame missing header")
	}
	frameLen := len(header) + visual.Width*visual.Height*3
	if !bytes.HasPrefix(buf.Bytes()[frameLen:], header) {
		t.Fatal("second frame missing header in concatenated stream")
	}
}

func TestFrameFileNameFormat(t *testing.T) {
	if got := FrameFileName(7); got != "frame_000007.ppm" {
		t.Fatalf("FrameFileName(7) = %q, want frame_000007.ppm", got)
	}
	if got := FrameFileName(123456); got != "frame_123456.ppm" {
		t.Fatalf("FrameFileName(123456) = %q, want frame_123456.ppm", got)
	}
}
