// Package terrain renders the two-layer procedural landscape: a 64-tile
// bottom layer with audio-reactive per-type palettes, and a top ASCII band
// that follows a slow sine wave. Both layers are driven entirely by the
// terrain PRNG stream (seed XOR 0x7E44A1) plus the current frame number and
// audio level, never by an independent clock.
package terrain

import (
	"math"

	"github.com/songadaymann/notdeafbeef/pkg/prng"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

// NumTiles is the fixed bottom-layer tile count.
const NumTiles = 64

// TileSize is the pixel width of one tile; a power of two so scroll offset
// and tile index arithmetic can use bitwise AND instead of a general
// modulo.
const TileSize = 16

// TileType enumerates the bottom layer's five tile kinds.
type TileType int

const (
	Flat TileType = iota
	Wall
	SlopeUp
	SlopeDown
	Gap
)

// BottomY0 and BottomHeight place the bottom tile band in the frame.
const (
	BottomY0     = 440
	BottomHeight = 160
)

// TopY0 and TopHeight place the sine-wave ASCII band above the tile band.
const (
	TopY0     = 80
	TopHeight = 120
)

// Terrain holds the generated, fixed 64-tile bottom layer for one segment.
// It is built once from the seed and never mutated afterward; everything
// reactive (color, characters, scroll) is computed per frame from frame
// number and audio level.
type Terrain struct {
	tiles [NumTiles]TileType
}

// New builds a Terrain using the terrain PRNG stream, weighted tile choice,
// and variable-length runs (run_len = 2 + next()%5).
func New(seed uint32) *Terrain {
	stream := prng.New(seed, prng.MagicTerrain)
	var t Terrain

	i := 0
	for i < NumTiles {
		kind := weightedTileChoice(stream)
		runLen := 2 + stream.Intn(5)
		for j := 0; j < runLen && i < NumTiles; j++ {
			t.tiles[i] = kind
			i++
		}
	}
	return &t
}

// weightedTileChoice favors flat ground, with walls/slopes/gaps
// progressively rarer.
func weightedTileChoice(stream *prng.State) TileType {
	r := stream.Intn(100)
	switch {
	case r < 40:
		return Flat
	case r < 55:
		return Wall
	case r < 70:
		return SlopeUp
	case r < 85:
		return SlopeDown
	default:
		return Gap
	}
}

// scrollSpeed computes the per-frame horizontal scroll speed, audio-reactive
// per spec §4.9.
func scrollSpeed(frame int, level float64) int {
	return int(math.Floor(float64(frame) * 2 * (1 + 3*level)))
}

// glyphCell is the ASCII character cell size the bottom layer is quantized
// to; TileSize and BottomHeight both divide evenly by it.
const glyphCell = 8

// Dense, medium, and sparse glyph sets for the bottom layer's ASCII density
// bands, in the order spec §4.9 lists them.
var (
	denseGlyphs  = []byte{'#', '@', '%', '*'}
	mediumGlyphs = []byte{'=', '+', '~', ':'}
	sparseGlyphs = []byte{'-', '.', ',', '_'}
)

// DrawBottom draws the 64-tile bottom layer for the given frame and audio
// level as a grid of density-selected ASCII glyphs, not flat color blocks.
func DrawBottom(f *visual.Frame, t *Terrain, frame int, level float64) {
	speed := scrollSpeed(frame, level)
	tileOffset := mod(frame*speed, TileSize)
	scrollTiles := (frame * speed) / TileSize

	colsVisible := visual.Width/TileSize + 2
	for col := 0; col < colsVisible; col++ {
		tileIdx := mod(scrollTiles+col, NumTiles)
		kind := t.tiles[tileIdx]
		screenX0 := col*TileSize - tileOffset

		for gx := 0; gx < TileSize; gx += glyphCell {
			x := screenX0 + gx
			if x+glyphCell <= 0 || x >= visual.Width {
				continue
			}
			for gy := 0; gy < BottomHeight; gy += glyphCell {
				y := BottomY0 + gy
				cp, argb := bottomGlyphAndColor(kind, x, gy, frame, level)
				visual.DrawGlyph(f, cp, x, y, 1, argb)
			}
		}
	}
}

// bottomGlyphAndColor picks a tile-type palette, modulates saturation/value
// by audio level, and chooses an ASCII density glyph via the position hash
// spec §4.9 defines: dense/medium/sparse sets selected by threshold, then
// the specific glyph within the selected set chosen by the same hash.
func bottomGlyphAndColor(kind TileType, worldX, tileY, frame int, level float64) (byte, uint32) {
	hue := paletteHue(kind)
	if kind == Wall {
		hue += level * 0.1
	}
	sat := 0.9 + level*0.1
	val := 0.8 + level*0.2

	h := (worldX*13+tileY*7) ^ (worldX >> 3)
	h &= 0xFF

	denseThreshold := 40 + level*100 + float64(frame)/8
	mediumThreshold := denseThreshold + 60

	var set []byte
	switch {
	case float64(h) < denseThreshold:
		set = denseGlyphs
		val *= 1.1
	case float64(h) < mediumThreshold:
		set = mediumGlyphs
		val *= 0.85
	default:
		set = sparseGlyphs
		val *= 0.6
	}
	cp := set[h%len(set)]

	argb := visual.HSVToRGB(math.Mod(hue, 1.0), clamp01(sat), clamp01(val))
	return cp, argb
}

func paletteHue(kind TileType) float64 {
	switch kind {
	case Flat:
		return 0.6 // blue/rainbow family
	case Wall:
		return 0.33 // green/yellow family
	case SlopeUp:
		return 0.83 // magenta
	case SlopeDown:
		return 0.5 // cyan
	case Gap:
		return 0.08 // orange
	default:
		return 0
	}
}

// DrawTop draws the sine-wave ASCII band above the tile layer, scrolling at
// 2x the bottom layer's horizontal speed.
func DrawTop(f *visual.Frame, frame int, level float64, hueBase float64) {
	speed := scrollSpeed(frame, level) * 2
	hue := math.Mod(hueBase+0.3, 1.0)

	for x := 0; x < visual.Width; x += 8 {
		worldX := x + speed
		phase := float64(worldX)*0.02 + float64(frame)*0.03
		heightFrac := (visual.Sin(phase) + 1) / 2 // [0,1]
		colHeight := int(heightFrac * TopHeight)

		for dy := 0; dy < colHeight; dy++ {
			y := TopY0 + TopHeight - dy
			intensity := float64(dy) / float64(TopHeight+1)
			cp := topGlyphForIntensity(intensity)
			argb := visual.HSVToRGB(hue, 0.8, 0.6+0.4*intensity)
			visual.DrawGlyph(f, cp, x, y, 1, argb)
		}
	}
}

func topGlyphForIntensity(intensity float64) byte {
	switch {
	case intensity > 0.75:
		return '^'
	case intensity > 0.5:
		return '='
	case intensity > 0.3:
		return '~'
	case intensity > 0.1:
		return '-'
	default:
		return '_'
	}
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
