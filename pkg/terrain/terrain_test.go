package terrain

import (
	"testing"

	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

func TestNewProducesFullTileSet(t *testing.T) {
	tr := New(0xCAFEBABE)
	if len(tr.tiles) != NumTiles {
		t.Fatalf("got %d tiles, want %d", len(tr.tiles), NumTiles)
	}
}

func TestNewDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	if *a != *b {
		t.Fatal("terrain generation not deterministic for the same seed")
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)
	if *a == *b {
		t.Fatal("different seeds produced identical terrain (suspicious)")
	}
}

func TestDrawBottomDoesNotPanic(t *testing.T) {
	tr := New(0xDEADBEEF)
	f := visual.NewFrame()
	for frame := 0; frame < 5; frame++ {
		DrawBottom(f, tr, frame, 0.5)
	}
}

func TestDrawTopDoesNotPanic(t *testing.T) {
	f := visual.NewFrame()
	for frame := 0; frame < 5; frame++ {
		DrawTop(f, frame, 0.3, 0.1)
	}
}

func TestScrollSpeedMonotonicWithLevel(t *testing.T) {
	lo := scrollSpeed(100, 0.0)
	hi := scrollSpeed(100, 1.0)
	if hi < lo {
		t.Fatalf("scroll speed should increase with level: lo=%d hi=%d", lo, hi)
	}
}
