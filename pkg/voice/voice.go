// Package voice implements the six sound sources a segment schedules events
// against: kick, snare, hat, melody, and two FM voices (mid and bass). Every
// voice follows the same init/trigger/process contract so the generator can
// iterate them uniformly; only trigger parameters differ per kind.
package voice

import "math"

const twoPi = 2 * math.Pi

// NoiseSource is the minimal PRNG surface a voice needs for its noise
// component. Voices never own a PRNG themselves; the generator's scheduling
// stream is shared across all voices that need noise, so a single segment's
// audio is reproducible from one stream plus the event schedule.
type NoiseSource interface {
	Next() uint32
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapPhase brings p into [-pi, pi] so sineApprox's polynomial stays
// accurate; phases accumulate unbounded over a voice's lifetime otherwise.
func wrapPhase(p float64) float64 {
	for p > math.Pi {
		p -= twoPi
	}
	for p < -math.Pi {
		p += twoPi
	}
	return p
}

// sineApprox is the 5th-order polynomial sine approximation x - x^3/6 +
// x^5/120 on x in [-pi, pi]. Audio does not need the visual package's LUT
// treatment (it runs at sample rate, not per-pixel), but a shared polynomial
// keeps all oscillators bit-identical to one another and to repeated runs.
func sineApprox(x float64) float64 {
	x = wrapPhase(x)
	x2 := x * x
	return x - (x*x2)/6 + (x*x2*x2)/120
}

// noiseSample returns a value in [-1, 1) drawn from src.
func noiseSample(src NoiseSource) float64 {
	return float64(src.Next())/2147483648.0 - 1.0
}

// Voice is the uniform contract every voice type satisfies: init zeroes
// state, process advances n samples of stereo signal into the accumulation
// buffers, adding (never overwriting) so multiple voices share a bus.
type Voice interface {
	Init(sampleRate int)
	Process(ld, rd []float64, n int)
}

// --- Kick -------------------------------------------------------------

// Kick is a one-pole resonant sinusoid at 70 Hz with an exponential
// amplitude envelope lasting about 0.5 s.
type Kick struct {
	sampleRate int
	phase      float64
	phaseInc   float64
	env        float64
	envCoeff   float64
	remaining  int
}

func NewKick() *Kick { return &Kick{} }

func (k *Kick) Init(sampleRate int) {
	k.sampleRate = sampleRate
	k.phase = 0
	k.remaining = 0
}

// Trigger fires the kick. MUST NOT allocate.
func (k *Kick) Trigger() {
	const freq = 70.0
	const duration = 0.5
	const amp = 0.9
	const floor = 0.001

	k.phase = 0
	k.phaseInc = twoPi * freq / float64(k.sampleRate)
	k.remaining = int(duration * float64(k.sampleRate))
	k.env = amp
	k.envCoeff = math.Pow(floor/amp, 1.0/float64(k.remaining))
}

func (k *Kick) Process(ld, rd []float64, n int) {
	for i := 0; i < n; i++ {
		if k.remaining <= 0 {
			continue
		}
		s := sineApprox(k.phase) * k.env
		s = clamp(s, -1, 1)
		ld[i] += s
		rd[i] += s

		k.phase += k.phaseInc
		k.env *= k.envCoeff
		k.remaining--
	}
}

// --- Snare --------------------------------------------------------------

// Snare mixes a band-limited noise burst with a 180 Hz tonal component over
// about 0.2 s.
type Snare struct {
	sampleRate int
	noise      NoiseSource
	phase      float64
	phaseInc   float64
	env        float64
	envCoeff   float64
	remaining  int
}

func NewSnare(noise NoiseSource) *Snare { return &Snare{noise: noise} }

func (s *Snare) Init(sampleRate int) {
	s.sampleRate = sampleRate
	s.phase = 0
	s.remaining = 0
}

func (s *Snare) Trigger() {
	const tone = 180.0
	const duration = 0.2
	const amp = 0.6
	const floor = 0.001

	s.phase = 0
	s.phaseInc = twoPi * tone / float64(s.sampleRate)
	s.remaining = int(duration * float64(s.sampleRate))
	s.env = amp
	s.envCoeff = math.Pow(floor/amp, 1.0/float64(s.remaining))
}

func (s *Snare) Process(ld, rd []float64, n int) {
	for i := 0; i < n; i++ {
		if s.remaining <= 0 {
			continue
		}
		tonal := sineApprox(s.phase) * 0.4
		hiss := noiseSample(s.noise) * 0.6
		out := clamp((tonal+hiss)*s.env, -1, 1)
		ld[i] += out
		rd[i] += out

		s.phase += s.phaseInc
		s.env *= s.envCoeff
		s.remaining--
	}
}

// --- Hat ------------------------------------------------------------------

// Hat is high-frequency noise with a fast (~0.05 s) decay.
type Hat struct {
	sampleRate int
	noise      NoiseSource
	env        float64
	envCoeff   float64
	remaining  int
}

func NewHat(noise NoiseSource) *Hat { return &Hat{noise: noise} }

func (h *Hat) Init(sampleRate int) {
	h.sampleRate = sampleRate
	h.remaining = 0
}

func (h *Hat) Trigger() {
	const duration = 0.05
	const amp = 0.35
	const floor = 0.001

	h.remaining = int(duration * float64(h.sampleRate))
	h.env = amp
	h.envCoeff = math.Pow(floor/amp, 1.0/float64(h.remaining))
}

func (h *Hat) Process(ld, rd []float64, n int) {
	for i := 0; i < n; i++ {
		if h.remaining <= 0 {
			continue
		}
		out := clamp(noiseSample(h.noise)*h.env, -1, 1)
		ld[i] += out
		rd[i] += out

		h.env *= h.envCoeff
		h.remaining--
	}
}

// --- Melody ---------------------------------------------------------------

// Melody is a sawtooth oscillator at a note frequency derived by the caller
// from root frequency and step-based scale degree.
type Melody struct {
	sampleRate int
	phase      float64
	phaseInc   float64
	env        float64
	envCoeff   float64
	remaining  int
}

func NewMelody() *Melody { return &Melody{} }

func (m *Melody) Init(sampleRate int) {
	m.sampleRate = sampleRate
	m.phase = 0
	m.remaining = 0
}

// Trigger fires a note at noteFreq Hz.
func (m *Melody) Trigger(noteFreq float64) {
	const duration = 0.18
	const amp = 0.07
	const floor = 0.001

	m.phase = 0
	m.phaseInc = noteFreq / float64(m.sampleRate)
	m.remaining = int(duration * float64(m.sampleRate))
	m.env = amp
	m.envCoeff = math.Pow(floor/amp, 1.0/float64(m.remaining))
}

func (m *Melody) Process(ld, rd []float64, n int) {
	for i := 0; i < n; i++ {
		if m.remaining <= 0 {
			continue
		}
		// Sawtooth from a [0,1) ramping phase: 2*phase - 1.
		out := clamp((2*m.phase-1)*m.env, -1, 1)
		ld[i] += out
		rd[i] += out

		m.phase += m.phaseInc
		if m.phase >= 1 {
			m.phase -= 1
		}
		m.env *= m.envCoeff
		m.remaining--
	}
}

// --- MidFM ------------------------------------------------------------

// MidFM is a sine carrier modulated by a sine modulator, carrier around 2x
// note frequency, modulation index 2.5, duration about 0.16 s.
type MidFM struct {
	sampleRate    int
	carrierPhase  float64
	carrierInc    float64
	modPhase      float64
	modInc        float64
	index         float64
	env           float64
	envCoeff      float64
	remaining     int
}

func NewMidFM() *MidFM { return &MidFM{} }

func (v *MidFM) Init(sampleRate int) {
	v.sampleRate = sampleRate
	v.carrierPhase = 0
	v.modPhase = 0
	v.remaining = 0
}

// Trigger fires with carrier at 2x noteFreq and a 2x modulator ratio typical
// of a bright FM bell.
func (v *MidFM) Trigger(noteFreq float64) {
	const ratio = 2.0
	const index = 2.5
	const duration = 0.16
	const amp = 0.25
	const floor = 0.001

	carrierFreq := noteFreq * 2.0
	modFreq := carrierFreq * ratio

	v.carrierPhase = 0
	v.modPhase = 0
	v.carrierInc = twoPi * carrierFreq / float64(v.sampleRate)
	v.modInc = twoPi * modFreq / float64(v.sampleRate)
	v.index = index
	v.remaining = int(duration * float64(v.sampleRate))
	v.env = amp
	v.envCoeff = math.Pow(floor/amp, 1.0/float64(v.remaining))
}

func (v *MidFM) Process(ld, rd []float64, n int) {
	for i := 0; i < n; i++ {
		if v.remaining <= 0 {
			continue
		}
		modOut := sineApprox(v.modPhase)
		carrierPhase := clamp(v.carrierPhase+v.index*modOut, -math.Pi, math.Pi)
		out := clamp(sineApprox(carrierPhase)*v.env, -1, 1)
		ld[i] += out
		rd[i] += out

		v.carrierPhase = wrapPhase(v.carrierPhase + v.carrierInc)
		v.modPhase = wrapPhase(v.modPhase + v.modInc)
		v.env *= v.envCoeff
		v.remaining--
	}
}

// --- BassFM -----------------------------------------------------------

// BassFM is a lower-register FM voice, ratio 1.5, index 8.0, duration
// about 1.25 s. Its envelope length MUST be recomputed at every trigger
// from sampleRate; a zero sampleRate here yields remaining = 0 and the
// voice silently decays to nothing, which is why the generator asserts
// every voice is initialized before any event fires.
type BassFM struct {
	sampleRate   int
	carrierPhase float64
	carrierInc   float64
	modPhase     float64
	modInc       float64
	index        float64
	env          float64
	envCoeff     float64
	remaining    int
}

func NewBassFM() *BassFM { return &BassFM{} }

func (v *BassFM) Init(sampleRate int) {
	v.sampleRate = sampleRate
	v.carrierPhase = 0
	v.modPhase = 0
	v.remaining = 0
}

func (v *BassFM) Trigger(noteFreq float64) {
	const ratio = 1.5
	const index = 8.0
	const duration = 1.25
	const amp = 0.45
	const floor = 0.001

	carrierFreq := noteFreq / 2.0 // bass register: one octave below note
	modFreq := carrierFreq * ratio

	v.carrierPhase = 0
	v.modPhase = 0
	v.carrierInc = twoPi * carrierFreq / float64(v.sampleRate)
	v.modInc = twoPi * modFreq / float64(v.sampleRate)
	v.index = index
	v.remaining = int(duration * float64(v.sampleRate))
	v.env = amp
	if v.remaining > 0 {
		v.envCoeff = math.Pow(floor/amp, 1.0/float64(v.remaining))
	} else {
		v.envCoeff = 0
	}
}

func (v *BassFM) Process(ld, rd []float64, n int) {
	for i := 0; i < n; i++ {
		if v.remaining <= 0 {
			continue
		}
		modOut := sineApprox(v.modPhase)
		carrierPhase := clamp(v.carrierPhase+v.index*modOut, -math.Pi, math.Pi)
		out := clamp(sineApprox(carrierPhase)*v.env, -1, 1)
		ld[i] += out
		rd[i] += out

		v.carrierPhase = wrapPhase(v.carrierPhase + v.carrierInc)
		v.modPhase = wrapPhase(v.modPhase + v.modInc)
		v.env *= v.envCoeff
		v.remaining--
	}
}
