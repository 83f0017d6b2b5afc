// Package fx implements the two effects every segment runs its mixed signal
// through: a stereo tape delay and a peak limiter. Both are stateful,
// per-segment, and own no allocation past construction.
package fx

// Delay is a stereo tape-style delay line: fixed delay time, feedback, and a
// wet/dry mix. The buffer is a circular buffer sized to the longest delay
// time the generator will ever request.
type Delay struct {
	bufL, bufR []float64
	writeHead  int
	delaySamp  int
	feedback   float64
	wet, dry   float64
}

// MinBufferSeconds is the minimum circular buffer length, sufficient for the
// longest delay time used (spec requires at least 0.75s at 44.1kHz).
const MinBufferSeconds = 0.75

// NewDelay builds a delay line for sampleRate with delaySamples of delay
// time, feedback, and wet/dry mix. The internal buffer is sized to the
// larger of delaySamples and MinBufferSeconds worth of samples so later
// re-tuning of delay time within a run never overruns the buffer.
func NewDelay(sampleRate, delaySamples int, feedback, wet, dry float64) *Delay {
	minLen := int(MinBufferSeconds * float64(sampleRate))
	bufLen := delaySamples
	if minLen > bufLen {
		bufLen = minLen
	}
	// Guard against a zero-length buffer if called with a degenerate
	// sampleRate; the buffer must always have at least one slot.
	if bufLen < 1 {
		bufLen = 1
	}

	return &Delay{
		bufL:      make([]float64, bufLen),
		bufR:      make([]float64, bufLen),
		delaySamp: delaySamples,
		feedback:  feedback,
		wet:       wet,
		dry:       dry,
	}
}

// Process runs the delay over n samples in place, reading and writing l, r.
func (d *Delay) Process(l, r []float64, n int) {
	bufLen := len(d.bufL)
	for i := 0; i < n; i++ {
		readHead := d.writeHead - d.delaySamp
		for readHead < 0 {
			readHead += bufLen
		}

		delayedL := d.bufL[readHead]
		delayedR := d.bufR[readHead]

		inL, inR := l[i], r[i]
		d.bufL[d.writeHead] = inL + delayedL*d.feedback
		d.bufR[d.writeHead] = inR + delayedR*d.feedback

		l[i] = inL*d.dry + delayedL*d.wet
		r[i] = inR*d.dry + delayedR*d.wet

		d.writeHead++
		if d.writeHead >= bufLen {
			d.writeHead = 0
		}
	}
}

// Limiter is a single-pole envelope-follower peak limiter: instant attack,
// slow release, with a hard ceiling. Guarantees |y| <= 1.0.
type Limiter struct {
	envelope float64
	ceiling  float64
	release  float64
}

// NewLimiter builds a limiter with the given ceiling and per-sample release
// coefficient.
func NewLimiter(ceiling, release float64) *Limiter {
	return &Limiter{ceiling: ceiling, release: release}
}

// Process applies the limiter to n stereo samples in place.
func (lim *Limiter) Process(l, r []float64, n int) {
	for i := 0; i < n; i++ {
		peak := abs(l[i])
		if rp := abs(r[i]); rp > peak {
			peak = rp
		}

		if peak > lim.envelope {
			lim.envelope = peak
		} else {
			lim.envelope *= lim.release
		}

		if lim.envelope > lim.ceiling {
			gain := lim.ceiling / lim.envelope
			l[i] *= gain
			r[i] *= gain
		}

		l[i] = clamp(l[i], -1, 1)
		r[i] = clamp(r[i], -1, 1)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
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
