// Package musictime derives the tempo and timing grid a segment runs on from
// its seed: BPM, root pitch, step length in samples, and total segment
// length. Everything downstream (event queue, generator, timeline) builds on
// the Timing this package produces.
package musictime

import "math"

// SampleRate is the fixed output sample rate for every segment.
const SampleRate = 44100

// StepsPerSegment is the fixed number of 16th-note steps in one segment.
const StepsPerSegment = 32

// pitchTable holds a fixed 12-entry set of root pitches spanning A2-G#3,
// selected by next(music_stream) mod 12.
var pitchTable = [12]float64{
	110.00, // A2
	116.54, // A#2
	123.47, // B2
	130.81, // C3
	138.59, // C#3
	146.83, // D3
	155.56, // D#3
	164.81, // E3
	174.61, // F3
	185.00, // F#3
	196.00, // G3
	207.65, // G#3
}

// Timing is the derived timing grid for one segment.
type Timing struct {
	BPM             int
	RootFreq        float64
	StepSamples     int
	StepsPerSegment int
	TotalSamples    int
}

// musicStream is the minimal interface musictime needs from a PRNG stream,
// so this package does not import pkg/prng directly and stays leaf-level.
type musicStream interface {
	Next() uint32
}

// Derive computes the Timing for a fresh music-time stream. Callers supply an
// already-seeded stream (seed XOR the music magic); this package does not
// know about stream magics.
func Derive(stream musicStream) Timing {
	bpm := 70 + int(stream.Next()%111)
	root := pitchTable[stream.Next()%12]
	stepSamples := int(math.Round(float64(SampleRate) * 60.0 / float64(bpm) / 4.0))
	total := stepSamples * StepsPerSegment

	return Timing{
		BPM:             bpm,
		RootFreq:        root,
		StepSamples:     stepSamples,
		StepsPerSegment: StepsPerSegment,
		TotalSamples:    total,
	}
}
