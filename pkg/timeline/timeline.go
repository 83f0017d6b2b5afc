// Package timeline builds, serializes, and reads the JSON sidecar that
// records a segment's scheduled events in sample-accurate form. It is the
// primary source of truth the frame renderer consults; pkg/analyzer is the
// WAV-derived fallback when no sidecar is present.
package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/songadaymann/notdeafbeef/pkg/event"
	"github.com/songadaymann/notdeafbeef/pkg/generator"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
)

// EventRecord is one event as it appears in the sidecar JSON.
type EventRecord struct {
	T    int    `json:"t"`
	Kind string `json:"kind"`
	Aux  int    `json:"aux"`
}

// Timeline is the full sidecar record for one segment.
type Timeline struct {
	Seed         string        `json:"seed"`
	SampleRate   int           `json:"sample_rate"`
	BPM          float64       `json:"bpm"`
	StepSamples  int           `json:"step_samples"`
	TotalSamples int           `json:"total_samples"`
	Steps        []int         `json:"steps"`
	Beats        []int         `json:"beats"`
	Events       []EventRecord `json:"events"`
	Checksum     string        `json:"checksum,omitempty"`
}

// stepsAndBeats derives the steps[] (all 32 step boundaries) and beats[]
// (every 4th step) sample-index arrays from a segment's timing.
func stepsAndBeats(stepSamples, stepsPerSegment int) (steps, beats []int) {
	steps = make([]int, stepsPerSegment)
	for i := range steps {
		steps[i] = i * stepSamples
	}
	beats = make([]int, 0, stepsPerSegment/4)
	for i := 0; i < stepsPerSegment; i += 4 {
		beats = append(beats, steps[i])
	}
	return steps, beats
}

// FromSegment builds a Timeline from a rendered segment. checksum is the
// caller-supplied digest (pkg/checksum); pass "" to omit it.
func FromSegment(seg *generator.Segment, checksum string) *Timeline {
	steps, beats := stepsAndBeats(seg.Timing.StepSamples, seg.Timing.StepsPerSegment)

	events := make([]EventRecord, len(seg.Events))
	for i, e := range seg.Events {
		events[i] = EventRecord{T: e.TimeSamples, Kind: e.Kind.String(), Aux: e.Aux}
	}

	return &Timeline{
		Seed:         seed.Format(seg.Seed),
		SampleRate:   44100,
		BPM:          float64(seg.Timing.BPM),
		StepSamples:  seg.Timing.StepSamples,
		TotalSamples: seg.Timing.TotalSamples,
		Steps:        steps,
		Beats:        beats,
		Events:       events,
		Checksum:     checksum,
	}
}

// Write serializes tl as indented JSON to w.
func Write(w io.Writer, tl *Timeline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tl); err != nil {
		return fmt.Errorf("timeline: encode: %w", err)
	}
	return nil
}

// WriteFile serializes tl as JSON to path, atomically (temp file + rename)
// so a failed export never leaves a partial sidecar.
func WriteFile(path string, tl *Timeline) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("timeline: create temp file: %w", err)
	}
	if err := Write(f, tl); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("timeline: close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("timeline: rename into place: %w", err)
	}
	return nil
}

// Read decodes a sidecar Timeline from r.
func Read(r io.Reader) (*Timeline, error) {
	var tl Timeline
	if err := json.NewDecoder(r).Decode(&tl); err != nil {
		return nil, fmt.Errorf("timeline: decode: %w", err)
	}
	return &tl, nil
}

// ReadFile decodes a sidecar Timeline from path.
func ReadFile(path string) (*Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("timeline: open: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// kindFromString maps a sidecar "kind" string back to an event.Kind, for
// callers that need to re-derive structured events from a loaded sidecar.
func kindFromString(s string) (event.Kind, bool) {
	switch s {
	case "kick":
		return event.Kick, true
	case "snare":
		return event.Snare, true
	case "hat":
		return event.Hat, true
	case "melody":
		return event.Melody, true
	case "mid":
		return event.MidFM, true
	case "fm_bass":
		return event.BassFM, true
	default:
		return 0, false
	}
}

// ToEvents converts the sidecar's EventRecords back into event.Events,
// skipping any with an unrecognized kind string.
func (tl *Timeline) ToEvents() []event.Event {
	out := make([]event.Event, 0, len(tl.Events))
	for _, r := range tl.Events {
		k, ok := kindFromString(r.Kind)
		if !ok {
			continue
		}
		out = append(out, event.Event{TimeSamples: r.T, Kind: k, Aux: r.Aux})
	}
	return out
}
