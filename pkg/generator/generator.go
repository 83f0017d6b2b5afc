// Package generator schedules and mixes one segment's worth of audio: it
// drives the event queue, feeds the six voices into a drum bus and a synth
// bus, runs the tape delay and peak limiter, and emits the final stereo
// block. A Generator is built once per seed and Generate()'d once.
package generator

import (
	"math"

	"github.com/songadaymann/notdeafbeef/pkg/event"
	"github.com/songadaymann/notdeafbeef/pkg/fx"
	"github.com/songadaymann/notdeafbeef/pkg/musictime"
	"github.com/songadaymann/notdeafbeef/pkg/prng"
	"github.com/songadaymann/notdeafbeef/pkg/voice"
)

// maxBlockSamples bounds how many samples are processed between step
// boundary checks; per spec this may be smaller (clipped to the next step
// boundary) but never larger.
const maxBlockSamples = 1024

// pentatonic is the fixed ascending pentatonic scale (semitone offsets) the
// melody/FM voices are indexed into by step mod 5. This is the committed
// answer to the open scale-mapping question: a 32-step segment cycles
// through the five degrees 6.4 times, alternating octaves every 5 steps.
var pentatonic = [5]int{0, 2, 4, 7, 9}

func noteForStep(step int) int {
	degree := pentatonic[step%5]
	octave := (step / 5) % 2
	return degree + 12*octave
}

// Segment is the fully rendered output of one Generate() call: the stereo
// samples plus enough of the schedule to build a timeline sidecar from.
type Segment struct {
	Seed   uint32
	Timing musictime.Timing
	L, R   []float64
	Events []event.Event
}

// Generator holds everything needed to render exactly one segment for one
// seed: the scheduling PRNG stream, the event queue, the six voice states,
// the two buses' effects, and playback position.
type Generator struct {
	seed   uint32
	timing musictime.Timing

	scheduling *prng.State
	queue      *event.Queue

	kick   *voice.Kick
	snare  *voice.Snare
	hat    *voice.Hat
	melody *voice.Melody
	midFM  *voice.MidFM
	bassFM *voice.BassFM

	voices []voice.Voice

	delay       *fx.Delay
	melodyDelay *fx.Delay
	limiter     *fx.Limiter

	melodyOnlyDelay bool
}

// New builds a Generator for seed. melodyOnlyDelay selects the routing mode
// from the open design question: when true, melody alone passes through a
// dedicated delay bus while the rest of the synth bus bypasses it; when
// false (the default), the whole synth bus shares one delay.
func New(seed uint32, melodyOnlyDelay bool) *Generator {
	scheduling := prng.New(seed, prng.MagicMusic)
	timing := musictime.Derive(scheduling)

	g := &Generator{
		seed:            seed,
		timing:          timing,
		scheduling:      scheduling,
		melodyOnlyDelay: melodyOnlyDelay,
	}

	g.kick = voice.NewKick()
	g.snare = voice.NewSnare(scheduling)
	g.hat = voice.NewHat(scheduling)
	g.melody = voice.NewMelody()
	g.midFM = voice.NewMidFM()
	g.bassFM = voice.NewBassFM()

	// Every voice is initialized here, unconditionally, as a single list —
	// adding a voice is data, not a hand-written call site, so there is no
	// "forgot to init" regression possible.
	g.voices = []voice.Voice{g.kick, g.snare, g.hat, g.melody, g.midFM, g.bassFM}
	for _, v := range g.voices {
		v.Init(musictime.SampleRate)
	}
	assertSampleRateInitialized(musictime.SampleRate)

	delaySamples := eighthNoteSamples(timing)
	g.delay = fx.NewDelay(musictime.SampleRate, delaySamples, 0.45, 0.35, 0.65)
	if melodyOnlyDelay {
		g.melodyDelay = fx.NewDelay(musictime.SampleRate, delaySamples, 0.45, 0.35, 0.65)
	}
	g.limiter = fx.NewLimiter(0.98, 0.9995)

	auxFor := func(k event.Kind, step int) int {
		switch k {
		case event.Melody, event.MidFM, event.BassFM:
			return noteForStep(step)
		default:
			return 0
		}
	}
	events := event.Build(timing.StepsPerSegment, timing.StepSamples, auxFor)
	g.queue = event.NewQueue(events)

	return g
}

// assertSampleRateInitialized is the generator-construction-time check spec
// §4.4/§4.6 requires: a voice triggered with sample_rate == 0 silently
// computes remaining = 0 and decays. Since every voice here is always
// initialized with the fixed SampleRate constant, this only ever fails if
// that wiring is broken, which is exactly the bug class it guards against.
func assertSampleRateInitialized(sampleRate int) {
	if sampleRate == 0 {
		panic("generator: voice sample_rate must be nonzero before any trigger")
	}
}

func eighthNoteSamples(t musictime.Timing) int {
	return t.StepSamples * 2
}

func (g *Generator) noteFreq(semitones int) float64 {
	return g.timing.RootFreq * math.Pow(2.0, float64(semitones)/12.0)
}

func (g *Generator) fireDue(now int) {
	for _, e := range g.queue.PopDue(now) {
		switch e.Kind {
		case event.Kick:
			g.kick.Trigger()
		case event.Snare:
			g.snare.Trigger()
		case event.Hat:
			g.hat.Trigger()
		case event.Melody:
			g.melody.Trigger(g.noteFreq(e.Aux))
		case event.MidFM:
			g.midFM.Trigger(g.noteFreq(e.Aux))
		case event.BassFM:
			g.bassFM.Trigger(g.noteFreq(e.Aux))
		}
	}
}

func zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Generate runs the full segment and returns the mixed stereo output. Each
// block is clipped so pos_in_step stays strictly below step_samples; letting
// it reach step_samples would walk past the step boundary and corrupt the block-clipping
// invariant (the historical off-by-one spec §4.6/§9 calls out).
func (g *Generator) Generate() *Segment {
	total := g.timing.TotalSamples
	stepSamples := g.timing.StepSamples

	outL := make([]float64, total)
	outR := make([]float64, total)

	ld := make([]float64, maxBlockSamples)
	rd := make([]float64, maxBlockSamples)
	ls := make([]float64, maxBlockSamples)
	rs := make([]float64, maxBlockSamples)

	var melLs, melRs []float64
	if g.melodyOnlyDelay {
		melLs = make([]float64, maxBlockSamples)
		melRs = make([]float64, maxBlockSamples)
	}

	pos := 0
	posInStep := 0

	for pos < total {
		g.fireDue(pos)

		blockLen := maxBlockSamples
		if remain := stepSamples - posInStep; remain < blockLen {
			blockLen = remain
		}
		if remain := total - pos; remain < blockLen {
			blockLen = remain
		}
		if blockLen <= 0 {
			break
		}

		zero(ld[:blockLen])
		zero(rd[:blockLen])
		zero(ls[:blockLen])
		zero(rs[:blockLen])
		if g.melodyOnlyDelay {
			zero(melLs[:blockLen])
			zero(melRs[:blockLen])
		}

		g.kick.Process(ld[:blockLen], rd[:blockLen], blockLen)
		g.snare.Process(ld[:blockLen], rd[:blockLen], blockLen)
		g.hat.Process(ld[:blockLen], rd[:blockLen], blockLen)

		if g.melodyOnlyDelay {
			g.melody.Process(melLs[:blockLen], melRs[:blockLen], blockLen)
			g.midFM.Process(ls[:blockLen], rs[:blockLen], blockLen)
			g.bassFM.Process(ls[:blockLen], rs[:blockLen], blockLen)
			g.melodyDelay.Process(melLs[:blockLen], melRs[:blockLen], blockLen)
		} else {
			g.melody.Process(ls[:blockLen], rs[:blockLen], blockLen)
			g.midFM.Process(ls[:blockLen], rs[:blockLen], blockLen)
			g.bassFM.Process(ls[:blockLen], rs[:blockLen], blockLen)
			g.delay.Process(ls[:blockLen], rs[:blockLen], blockLen)
		}

		for i := 0; i < blockLen; i++ {
			l := ld[i] + ls[i]
			r := rd[i] + rs[i]
			if g.melodyOnlyDelay {
				l += melLs[i]
				r += melRs[i]
			}
			outL[pos+i] = l
			outR[pos+i] = r
		}
		g.limiter.Process(outL[pos:pos+blockLen], outR[pos:pos+blockLen], blockLen)

		pos += blockLen
		posInStep += blockLen
		if posInStep >= stepSamples {
			posInStep -= stepSamples
		}
	}

	return &Segment{
		Seed:   g.seed,
		Timing: g.timing,
		L:      outL,
		R:      outR,
		Events: g.queue.All(),
	}
}
