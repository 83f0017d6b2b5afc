// Package analyzer derives the per-frame audio signals the frame driver
// needs: smoothed level, beat detection, bass/treble energy, and a hue
// base. It prefers a timeline sidecar for beat timing (sample-accurate,
// scheduled at generation time) and falls back to RMS onset detection on
// the raw WAV when no sidecar is present, per spec §4.7/§4.13.
package analyzer

import (
	"math"

	"github.com/songadaymann/notdeafbeef/pkg/timeline"
	"github.com/songadaymann/notdeafbeef/pkg/wav"
)

// SampleRate and FPS are the fixed rates the whole pipeline runs at.
const (
	SampleRate = 44100
	FPS        = 60
)

// windowSize is the RMS analysis window, centered on each frame's sample
// position.
const windowSize = 1024

// Signal is one frame's worth of derived audio-reactive values.
type Signal struct {
	Level        float64
	BeatNow      bool
	BassEnergy   float64
	TrebleEnergy float64
	HueBase      float64
}

// Analyzer holds the precomputed per-frame signal sequence for one segment.
type Analyzer struct {
	signals []Signal
}

// TotalFrames computes floor(totalSamples/sampleRate * FPS) — duration
// truncation, not rounding, so frames never run past the audio.
func TotalFrames(totalSamples int) int {
	return int(math.Floor(float64(totalSamples) / SampleRate * FPS))
}

// New builds an Analyzer from decoded audio and, optionally, a sidecar
// timeline. tl may be nil, in which case beat detection falls back to RMS
// onset heuristics entirely.
func New(audio *wav.Audio, tl *timeline.Timeline) *Analyzer {
	totalFrames := TotalFrames(len(audio.L))
	signals := make([]Signal, totalFrames)

	var beatFrames map[int]bool
	var hueSeed float64
	if tl != nil {
		beatFrames = make(map[int]bool, len(tl.Beats))
		for _, b := range tl.Beats {
			f := int(float64(b) / SampleRate * FPS)
			beatFrames[f] = true
		}
		hueSeed = math.Mod(tl.BPM/1000.0, 1.0)
	}

	prevLevel := 0.0
	prevRMS := 0.0
	lastBeatFrame := -1000

	for f := 0; f < totalFrames; f++ {
		center := int(float64(f) * SampleRate / FPS)
		rawLevel := windowRMS(audio.L, audio.R, center, windowSize)
		level := 0.8*prevLevel + 0.2*rawLevel
		prevLevel = level

		bass := lowFrequencyEnergy(audio.L, audio.R, center, windowSize)
		treble := highFrequencyEnergy(audio.L, audio.R, center, windowSize)

		var beatNow bool
		if beatFrames != nil {
			beatNow = beatFrames[f]
		} else {
			rms := windowRMS(audio.L, audio.R, center, windowSize)
			if rms > prevRMS*1.05 && f-lastBeatFrame >= 3 {
				beatNow = true
				lastBeatFrame = f
			}
			prevRMS = rms
		}

		signals[f] = Signal{
			Level:        clamp01(level),
			BeatNow:      beatNow,
			BassEnergy:   clamp01(bass),
			TrebleEnergy: clamp01(treble),
			HueBase:      math.Mod(hueSeed+float64(f)*0.0015, 1.0),
		}
	}

	return &Analyzer{signals: signals}
}

// TotalFrames reports how many frames this Analyzer covers.
func (a *Analyzer) TotalFrames() int {
	return len(a.signals)
}

// At returns frame f's signal. Callers must keep f within [0, TotalFrames()).
func (a *Analyzer) At(f int) Signal {
	return a.signals[f]
}

func windowRMS(l, r []float64, center, size int) float64 {
	start, end := windowBounds(len(l), center, size)
	if end <= start {
		return 0
	}
	var sum float64
	for i := start; i < end; i++ {
		m := (l[i] + r[i]) / 2
		sum += m * m
	}
	return math.Sqrt(sum / float64(end-start))
}

// lowFrequencyEnergy approximates bass content as the RMS of the raw
// (unfiltered) window: a mixed track's low end dominates total energy, so
// plain RMS is a serviceable cheap proxy without a real filter bank.
func lowFrequencyEnergy(l, r []float64, center, size int) float64 {
	return windowRMS(l, r, center, size)
}

// highFrequencyEnergy approximates treble content as the RMS of the
// windowed first difference, which attenuates slow-moving (low frequency)
// content and emphasizes fast transitions.
func highFrequencyEnergy(l, r []float64, center, size int) float64 {
	start, end := windowBounds(len(l), center, size)
	if end-start < 2 {
		return 0
	}
	var sum float64
	count := 0
	for i := start + 1; i < end; i++ {
		dl := l[i] - l[i-1]
		dr := r[i] - r[i-1]
		m := (dl + dr) / 2
		sum += m * m
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum/float64(count)) * 4.0
}

func windowBounds(totalLen, center, size int) (start, end int) {
	start = center - size/2
	end = start + size
	if start < 0 {
		start = 0
	}
	if end > totalLen {
		end = totalLen
	}
	return start, end
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
