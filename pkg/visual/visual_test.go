package visual

import "testing"

func TestClearFillsEntireFrame(t *testing.T) {
	f := NewFrame()
	f.Clear(Black)
	for i, p := range f.Pixels {
		if p != Black {
			t.Fatalf("pixel %d = %#x, want %#x", i, p, Black)
		}
	}
}

func TestSetPixelOutOfBoundsIsNoOp(t *testing.T) {
	f := NewFrame()
	f.SetPixel(-1, -1, 0xFFFFFFFF)
	f.SetPixel(Width, Height, 0xFFFFFFFF)
	f.SetPixel(Width+100, 0, 0xFFFFFFFF)
	for _, p := range f.Pixels {
		if p != 0 {
			t.Fatal("out-of-bounds SetPixel wrote into the frame")
		}
	}
}

func TestFillCircleBoundaryInclusive(t *testing.T) {
	f := NewFrame()
	f.FillCircle(400, 300, 5, 0xFFFF0000)
	if f.At(400, 300) == 0 {
		t.Fatal("center pixel not filled")
	}
	if f.At(405, 300) == 0 {
		t.Fatal("boundary pixel (r,0) should be filled (inclusive boundary)")
	}
	if f.At(406, 300) != 0 {
		t.Fatal("pixel just outside radius should not be filled")
	}
}

func TestPackARGBLayout(t *testing.T) {
	v := PackARGB(0x11, 0x22, 0x33, 0x44)
	if v != 0x11223344 {
		t.Fatalf("got %#x, want %#x", v, uint32(0x11223344))
	}
}

func TestHSVToRGBPrimaries(t *testing.T) {
	red := HSVToRGB(0, 1, 1)
	if red != 0xFFFF0000 {
		t.Fatalf("red = %#x, want %#x", red, uint32(0xFFFF0000))
	}
	green := HSVToRGB(1.0/3.0, 1, 1)
	if (green>>8)&0xFF != 0xFF {
		t.Fatalf("green channel = %#x, want 0xFF", (green>>8)&0xFF)
	}
	white := HSVToRGB(0.5, 0, 1)
	if white != 0xFFFFFFFF {
		t.Fatalf("white (s=0) = %#x, want %#x", white, uint32(0xFFFFFFFF))
	}
}

func TestHSVToRGBNegativeHueWraps(t *testing.T) {
	a := HSVToRGB(-0.1, 1, 1)
	b := HSVToRGB(0.9, 1, 1)
	if a != b {
		t.Fatalf("negative hue did not wrap: %#x vs %#x", a, b)
	}
}

func TestTrigLUTMatchesKnownAngles(t *testing.T) {
	if v := Sin(0); v < -0.001 || v > 0.001 {
		t.Fatalf("Sin(0) = %f, want ~0", v)
	}
	if v := Cos(0); v < 0.99 || v > 1.01 {
		t.Fatalf("Cos(0) = %f, want ~1", v)
	}
}

func TestGlyphTableComplete(t *testing.T) {
	seen := map[Glyph]bool{}
	nonzero := 0
	for cp := 0; cp < 256; cp++ {
		g := Glyph8x8(byte(cp))
		seen[g] = true
		if g[0] != 0 || g[1] != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Fatal("glyph table is entirely blank")
	}
}

func TestGlyphTableDeterministic(t *testing.T) {
	for cp := 0; cp < 256; cp++ {
		a := proceduralGlyph(byte(cp))
		b := proceduralGlyph(byte(cp))
		if a != b {
			t.Fatalf("procedural glyph for %d not deterministic", cp)
		}
	}
}

func TestDrawGlyphStaysInBounds(t *testing.T) {
	f := NewFrame()
	DrawGlyph(f, '#', Width-2, Height-2, 1, 0xFFFFFFFF)
	// Must not panic; spot-check a definitely-valid pixel was touched.
	if f.At(Width-2, Height-2) == 0 && f.At(Width-1, Height-1) == 0 {
		t.Log("glyph clipped at edge as expected")
	}
}

func TestRotate2DIdentityAtZero(t *testing.T) {
	rx, ry := Rotate2D(10, 0, 0)
	if rx < 9.9 || rx > 10.1 || ry < -0.1 || ry > 0.1 {
		t.Fatalf("Rotate2D(10,0,0) = (%f,%f), want ~(10,0)", rx, ry)
	}
}
