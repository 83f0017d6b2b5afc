// Package report formats a human-readable summary of a generated segment
// for the describe CLI command.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/songadaymann/notdeafbeef/pkg/event"
	"github.com/songadaymann/notdeafbeef/pkg/generator"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
)

// pitchNames mirrors pkg/musictime's fixed 12-entry pitch table (A2-G#3), so
// the report can name a root frequency without pkg/musictime exporting its
// internal table.
var pitchNames = []struct {
	freq float64
	name string
}{
	{110.00, "A2"}, {116.54, "A#2"}, {123.47, "B2"}, {130.81, "C3"},
	{138.59, "C#3"}, {146.83, "D3"}, {155.56, "D#3"}, {164.81, "E3"},
	{174.61, "F3"}, {185.00, "F#3"}, {196.00, "G3"}, {207.65, "G#3"},
}

// noteName maps a root frequency back to its pitch-table name. Frequencies
// outside the fixed 12-entry table are reported as "unknown".
func noteName(freq float64) string {
	for _, p := range pitchNames {
		if approxEqual(p.freq, freq) {
			return p.name
		}
	}
	return "unknown"
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.01
}

// eventCounts tallies how many events of each kind a segment scheduled.
func eventCounts(events []event.Event) map[event.Kind]int {
	counts := make(map[event.Kind]int)
	for _, e := range events {
		counts[e.Kind]++
	}
	return counts
}

// Describe formats a multi-line human-readable report for seg, with section
// labels title-cased via a locale-aware caser.
func Describe(seg *generator.Segment) string {
	caser := cases.Title(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", caser.String("seed"))
	fmt.Fprintf(&b, "  %s\n\n", seed.Format(seg.Seed))

	fmt.Fprintf(&b, "%s\n", caser.String("tempo"))
	fmt.Fprintf(&b, "  bpm: %d\n", seg.Timing.BPM)
	fmt.Fprintf(&b, "  root: %s (%.2f Hz)\n", noteName(seg.Timing.RootFreq), seg.Timing.RootFreq)
	fmt.Fprintf(&b, "  step_samples: %d\n\n", seg.Timing.StepSamples)

	duration := float64(seg.Timing.TotalSamples) / 44100.0
	fmt.Fprintf(&b, "%s\n", caser.String("duration"))
	fmt.Fprintf(&b, "  %.2fs (%d samples)\n\n", duration, seg.Timing.TotalSamples)

	fmt.Fprintf(&b, "%s\n", caser.String("events"))
	counts := eventCounts(seg.Events)
	for _, k := range []event.Kind{event.Kick, event.Snare, event.Hat, event.Melody, event.MidFM, event.BassFM} {
		fmt.Fprintf(&b, "  %s: %d\n", k.String(), counts[k])
	}

	return b.String()
}
