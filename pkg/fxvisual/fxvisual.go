// Package fxvisual implements the three audio-triggered transient effects:
// particles, bass-hit shapes, and the glitch overlay. Particles and bass hits
// live in fixed-capacity pools allocated at construction; slots cycle via
// liveness flags and never grow. The glitch overlay keeps no state.
package fxvisual

import (
	"math"

	"github.com/songadaymann/notdeafbeef/pkg/boss"
	"github.com/songadaymann/notdeafbeef/pkg/prng"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

// --- Particles -----------------------------------------------------------

// MaxParticles is the fixed particle pool capacity.
const MaxParticles = 256

// Particle is one transient spark: position, velocity, remaining life, hue.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   int
	Hue    float64
	Active bool
}

// Particles is the fixed-capacity, never-growing particle pool.
type Particles struct {
	pool [MaxParticles]Particle
}

func NewParticles() *Particles { return &Particles{} }

func (p *Particles) spawnOne(stream *prng.State, x, y, hue float64) {
	for i := range p.pool {
		if p.pool[i].Active {
			continue
		}
		angle := stream.Float64() * 2 * math.Pi
		speed := 1 + stream.Float64()*4
		p.pool[i] = Particle{
			X: x, Y: y,
			VX:     math.Cos(angle) * speed,
			VY:     math.Sin(angle) * speed,
			Life:   30 + stream.Intn(30),
			Hue:    hue,
			Active: true,
		}
		return
	}
	// Pool is saturated; the spawn is silently dropped, never an error.
}

// SpawnExplosion spawns N = 5 + floor(level*15) particles at (x,y).
func (p *Particles) SpawnExplosion(stream *prng.State, x, y, hue, level float64) {
	n := 5 + int(math.Floor(level*15))
	for i := 0; i < n; i++ {
		p.spawnOne(stream, x, y, hue)
	}
}

// SpawnChaosSpiral spawns an 8-spoke spiral burst, used only in chaos mode.
func (p *Particles) SpawnChaosSpiral(stream *prng.State, x, y, hue float64, frame int) {
	for spoke := 0; spoke < 8; spoke++ {
		angle := float64(spoke)*(2*math.Pi/8) + float64(frame)*0.1
		for i := range p.pool {
			if p.pool[i].Active {
				continue
			}
			speed := 2.0
			p.pool[i] = Particle{
				X: x, Y: y,
				VX:     math.Cos(angle) * speed,
				VY:     math.Sin(angle) * speed,
				Life:   40,
				Hue:    hue,
				Active: true,
			}
			break
		}
	}
}

// Update advances every active particle by one frame: x += vx; y += vy;
// vy += 0.02 (slight gravity); life -= 1; removed when life <= 0.
func (p *Particles) Update() {
	for i := range p.pool {
		pt := &p.pool[i]
		if !pt.Active {
			continue
		}
		pt.X += pt.VX
		pt.Y += pt.VY
		pt.VY += 0.02
		pt.Life--
		if pt.Life <= 0 {
			pt.Active = false
		}
	}
}

// Draw renders every active particle as a single glyph colored by its hue.
func (p *Particles) Draw(f *visual.Frame) {
	for i := range p.pool {
		pt := &p.pool[i]
		if !pt.Active {
			continue
		}
		argb := visual.HSVToRGB(pt.Hue, 0.9, 1.0)
		visual.DrawGlyph(f, '*', int(pt.X), int(pt.Y), 1, argb)
	}
}

// ActiveCount reports live particle count, for the pool bounds invariant.
func (p *Particles) ActiveCount() int {
	n := 0
	for i := range p.pool {
		if p.pool[i].Active {
			n++
		}
	}
	return n
}

// --- Bass hits -------------------------------------------------------------

// MaxBassHits is the fixed bass-hit pool capacity.
const MaxBassHits = 96

// BassHit is one transient shape triggered on a saw step.
type BassHit struct {
	X, Y      float64
	Amplitude float64
	Life      int
	Active    bool
	Shape     boss.ShapeKind
}

// BassHits is the fixed-capacity, never-growing bass-hit pool.
type BassHits struct {
	pool [MaxBassHits]BassHit
}

func NewBassHits() *BassHits { return &BassHits{} }

// IsSawStep reports whether step is one of the designated saw steps
// (0, 8, 16, 24, 32) a segment may trigger bass-hit shapes on.
func IsSawStep(step int) bool {
	return step == 0 || step == 8 || step == 16 || step == 24 || step == 32
}

// Spawn activates the next free slot with life = floor(amplitude * 2000).
func (b *BassHits) Spawn(stream *prng.State, x, y, amplitude float64) {
	for i := range b.pool {
		if b.pool[i].Active {
			continue
		}
		b.pool[i] = BassHit{
			X: x, Y: y,
			Amplitude: amplitude,
			Life:      int(math.Floor(amplitude * 2000)),
			Active:    true,
			Shape:     boss.ShapeKind(stream.Intn(5)),
		}
		return
	}
}

// Update ages every active bass hit by one frame.
func (b *BassHits) Update() {
	for i := range b.pool {
		h := &b.pool[i]
		if !h.Active {
			continue
		}
		h.Life--
		if h.Life <= 0 {
			h.Active = false
		}
	}
}

// Draw renders every active bass hit as its assigned shape polygon.
func (b *BassHits) Draw(f *visual.Frame, rotIdx int) {
	for i := range b.pool {
		h := &b.pool[i]
		if !h.Active {
			continue
		}
		argb := visual.HSVToRGB(h.Amplitude, 0.9, 1.0)
		size := 10 + h.Amplitude*30
		boss.DrawShape(f, h.X, h.Y, size, h.Shape, rotIdx, argb)
	}
}

// ActiveCount reports live bass-hit count, for the pool bounds invariant.
func (b *BassHits) ActiveCount() int {
	n := 0
	for i := range b.pool {
		if b.pool[i].Active {
			n++
		}
	}
	return n
}

// --- Glitch overlay ---------------------------------------------------------

// MaxIntensity is the glitch scalar's upper bound.
const MaxIntensity = 3.0

// Intensity computes the per-frame glitch intensity: base + audio_level +
// a 3-frame post-beat explosion + a slow sine wave.
func Intensity(frame int, level float64, framesSinceBeat int) float64 {
	base := 0.1 + level*1.0
	var beatExplosion float64
	if framesSinceBeat >= 0 && framesSinceBeat < 3 {
		beatExplosion = 1.0
	}
	slow := 0.2 * (visual.Sin(float64(frame)*0.01) + 1) / 2
	v := base + beatExplosion + slow
	if v > MaxIntensity {
		v = MaxIntensity
	}
	if v < 0 {
		v = 0
	}
	return v
}

// glitchHash derives a deterministic, position+frame-keyed value so the
// glitch overlay never touches a global random stream — the same pixel at
// the same frame always decides the same way.
func glitchHash(streamSeed uint32, x, y, frame int) uint32 {
	s := prng.New(streamSeed^prng.MagicGlitch, uint32(x)*73856093^uint32(y)*19349663^uint32(frame)*83492791)
	return s.Next()
}

// Apply runs the glitch overlay over the frame: character substitution,
// matrix-cascade columns, and digital noise pixels, all driven by the
// glitch PRNG stream and intensity.
func Apply(f *visual.Frame, seed uint32, frame int, intensity float64) {
	if intensity <= 0 {
		return
	}

	substProb := intensity / MaxIntensity * 0.05
	cascadeCols := int(intensity * 4)
	noisePixels := int(intensity * 200)

	for col := 0; col < cascadeCols; col++ {
		x := (col * 137) % visual.Width
		h := glitchHash(seed, x, 0, frame)
		if float64(h%1000)/1000.0 > 0.5 {
			continue
		}
		colHeight := int(h % 400)
		argb := visual.HSVToRGB(0.33, 1.0, 1.0)
		for y := 0; y < colHeight; y += 8 {
			visual.DrawGlyph(f, '1', x, y, 1, argb)
		}
	}

	for i := 0; i < noisePixels; i++ {
		h := glitchHash(seed, i*97, i*53, frame)
		x := int(h % uint32(visual.Width))
		y := int((h / uint32(visual.Width)) % uint32(visual.Height))
		argb := visual.PackARGB(255, byte(h), byte(h>>8), byte(h>>16))
		f.SetPixel(x, y, argb)
	}

	for y := 0; y < visual.Height; y += 8 {
		for x := 0; x < visual.Width; x += 8 {
			h := glitchHash(seed, x, y, frame)
			if float64(h%10000)/10000.0 < substProb {
				argb := visual.HSVToRGB(float64(h%256)/256.0, 1.0, 1.0)
				visual.DrawGlyphAlpha(f, byte(h%95+32), x, y, 1, argb)
			}
		}
	}
}
