// Package ship renders the seed-driven ASCII ship with audio-reactive
// motion: sway, bob, and a beat-driven dodge.
package ship

import (
	"github.com/songadaymann/notdeafbeef/pkg/prng"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

// BaseX and BaseY place the ship at roughly 25% from the left, per spec
// §4.10's "x ≈ 200".
const (
	BaseX = 200
	BaseY = 300
)

// noseParts, bodyParts, wingParts, trailParts are the fixed four-entry
// glyph tables for each ship component, indexed by the ship PRNG's
// component choice (mod 4).
var noseParts = [4][]byte{
	{'>', 0},
	{'^', 0},
	{'A', 0},
	{'*', 0},
}

var bodyParts = [4][]byte{
	{'=', '=', '='},
	{'-', '#', '-'},
	{'[', '=', ']'},
	{'(', '+', ')'},
}

var wingParts = [4][]byte{
	{'/', '\\'},
	{'<', '>'},
	{'v', '^'},
	{'\\', '/'},
}

var trailParts = [4][]byte{
	{'~', '~'},
	{'.', '.'},
	{':', ':'},
	{'-', '-'},
}

// Ship is the derived, fixed-for-the-segment set of ship component indices
// and colors.
type Ship struct {
	NoseIdx  int
	BodyIdx  int
	WingsIdx int
	TrailIdx int
	Size     int // 1, 2, or 3
	HuePrime float64
	HueAlt   float64
}

// New derives a Ship from the ship PRNG stream (seed XOR ship magic).
func New(seed uint32) *Ship {
	stream := prng.New(seed, prng.MagicShip)
	s := &Ship{
		NoseIdx:  stream.Intn(4),
		BodyIdx:  stream.Intn(4),
		WingsIdx: stream.Intn(4),
		TrailIdx: stream.Intn(4),
		Size:     1 + stream.Intn(3),
	}
	s.HuePrime = stream.Float64()
	s.HueAlt = s.HuePrime + 0.3
	if s.HueAlt >= 1.0 {
		s.HueAlt -= 1.0
	}
	return s
}

// Offsets computes the audio-reactive sway/bob/dodge offsets for frame f at
// audio level l.
func Offsets(frame int, level float64) (dx, dy float64) {
	sway := 40 * visual.Sin(float64(frame)*0.05)
	bob := 30 * visual.Sin(float64(frame)*0.07)
	dodge := 35 * level
	return sway + dodge, bob
}

// Draw renders the ship at its base position plus audio-reactive offsets,
// drawing Size concentric/staggered copies of the component glyphs.
func Draw(f *visual.Frame, s *Ship, frame int, level float64) {
	dx, dy := Offsets(frame, level)
	x := BaseX + int(dx)
	y := BaseY + int(dy)

	for layer := 0; layer < s.Size; layer++ {
		hue := s.HuePrime
		if layer%2 == 1 {
			hue = s.HueAlt
		}
		argb := visual.HSVToRGB(hue, 0.8, 0.9)
		stagger := layer * 8

		drawRow(f, noseParts[s.NoseIdx], x+stagger, y-16, argb)
		drawRow(f, wingParts[s.WingsIdx], x+stagger-8, y-8, argb)
		drawRow(f, bodyParts[s.BodyIdx], x+stagger-8, y, argb)
		drawRow(f, trailParts[s.TrailIdx], x+stagger-16, y+8, argb)
	}
}

func drawRow(f *visual.Frame, glyphs []byte, x, y int, argb uint32) {
	cx := x
	for _, g := range glyphs {
		if g == 0 {
			continue
		}
		visual.DrawGlyph(f, g, cx, y, 1, argb)
		cx += 8
	}
}
