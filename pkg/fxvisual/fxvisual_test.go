package fxvisual

import (
	"testing"

	"github.com/songadaymann/notdeafbeef/pkg/prng"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

func TestParticlePoolNeverExceedsCapacity(t *testing.T) {
	p := NewParticles()
	stream := prng.New(1, prng.MagicParticles)
	for i := 0; i < 50; i++ {
		p.SpawnExplosion(stream, 100, 100, 0.5, 1.0)
	}
	if p.ActiveCount() > MaxParticles {
		t.Fatalf("active count %d exceeds capacity %d", p.ActiveCount(), MaxParticles)
	}
}

func TestParticleExplosionCountFormula(t *testing.T) {
	p := NewParticles()
	stream := prng.New(1, prng.MagicParticles)
	p.SpawnExplosion(stream, 0, 0, 0.1, 0.0)
	if p.ActiveCount() != 5 {
		t.Fatalf("level 0 explosion: got %d particles, want 5", p.ActiveCount())
	}
}

func TestParticleExpiresAfterLifeRunsOut(t *testing.T) {
	p := NewParticles()
	stream := prng.New(1, prng.MagicParticles)
	p.SpawnExplosion(stream, 0, 0, 0.1, 0.0)
	for i := 0; i < 200; i++ {
		p.Update()
	}
	if p.ActiveCount() != 0 {
		t.Fatal("particles should have all expired")
	}
}

func TestParticleDrawDoesNotPanic(t *testing.T) {
	f := visual.NewFrame()
	p := NewParticles()
	stream := prng.New(1, prng.MagicParticles)
	p.SpawnExplosion(stream, 400, 300, 0.5, 1.0)
	for i := 0; i < 10; i++ {
		p.Update()
		p.Draw(f)
	}
}

func TestChaosSpiralSpawnsEightParticles(t *testing.T) {
	p := NewParticles()
	stream := prng.New(1, prng.MagicParticles)
	p.SpawnChaosSpiral(stream, 400, 300, 0.2, 0)
	if p.ActiveCount() != 8 {
		t.Fatalf("chaos spiral: got %d particles, want 8", p.ActiveCount())
	}
}

func TestIsSawStep(t *testing.T) {
	sawSteps := map[int]bool{0: true, 8: true, 16: true, 24: true, 32: true}
	for step := 0; step <= 32; step++ {
		if IsSawStep(step) != sawSteps[step] {
			t.Fatalf("IsSawStep(%d) = %v, want %v", step, IsSawStep(step), sawSteps[step])
		}
	}
}

func TestBassHitPoolNeverExceedsCapacity(t *testing.T) {
	b := NewBassHits()
	stream := prng.New(1, prng.MagicShapes)
	for i := 0; i < MaxBassHits*3; i++ {
		b.Spawn(stream, 400, 300, 0.8)
	}
	if b.ActiveCount() > MaxBassHits {
		t.Fatalf("active count %d exceeds capacity %d", b.ActiveCount(), MaxBassHits)
	}
}

func TestBassHitLifeFromAmplitude(t *testing.T) {
	b := NewBassHits()
	stream := prng.New(1, prng.MagicShapes)
	b.Spawn(stream, 0, 0, 0.1)
	if b.pool[0].Life != 200 {
		t.Fatalf("life = %d, want 200", b.pool[0].Life)
	}
}

func TestBassHitExpires(t *testing.T) {
	b := NewBassHits()
	stream := prng.New(1, prng.MagicShapes)
	b.Spawn(stream, 0, 0, 0.01)
	for i := 0; i < 50; i++ {
		b.Update()
	}
	if b.ActiveCount() != 0 {
		t.Fatal("bass hit should have expired")
	}
}

func TestBassHitDrawDoesNotPanic(t *testing.T) {
	f := visual.NewFrame()
	b := NewBassHits()
	stream := prng.New(1, prng.MagicShapes)
	b.Spawn(stream, 400, 300, 0.8)
	b.Draw(f, 0)
}

func TestIntensityWithinBounds(t *testing.T) {
	for frame := 0; frame < 300; frame += 7 {
		for _, level := range []float64{0, 0.5, 1.0} {
			for _, fsb := range []int{-1, 0, 1, 2, 5} {
				v := Intensity(frame, level, fsb)
				if v < 0 || v > MaxIntensity {
					t.Fatalf("Intensity(%d,%f,%d) = %f out of [0,%f]", frame, level, fsb, v, MaxIntensity)
				}
			}
		}
	}
}

func TestIntensityBeatExplosionBoost(t *testing.T) {
	base := Intensity(10, 0.0, -1)
	boosted := Intensity(10, 0.0, 1)
	if boosted <= base {
		t.Fatalf("expected beat explosion to boost intensity: base=%f boosted=%f", base, boosted)
	}
}

func TestApplyZeroIntensityIsNoOp(t *testing.T) {
	f := visual.NewFrame()
	Apply(f, 0xCAFEBABE, 0, 0)
	for i, px := range f.Pixels {
		if px != 0 {
			t.Fatalf("pixel %d modified at zero intensity", i)
		}
	}
}

func TestApplyDeterministic(t *testing.T) {
	f1 := visual.NewFrame()
	f2 := visual.NewFrame()
	Apply(f1, 0xCAFEBABE, 42, 1.5)
	Apply(f2, 0xCAFEBABE, 42, 1.5)
	for i := range f1.Pixels {
		if f1.Pixels[i] != f2.Pixels[i] {
			t.Fatalf("pixel %d diverged between identical Apply runs", i)
		}
	}
}

func TestApplyDoesNotPanicAcrossFrames(t *testing.T) {
	f := visual.NewFrame()
	for frame := 0; frame < 30; frame++ {
		Apply(f, 0xDEADBEEF, frame, Intensity(frame, 0.7, frame%10))
	}
}
