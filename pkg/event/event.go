// Package event holds the time-ordered schedule of voice triggers built once
// per segment. The queue is populated during init and drained by the
// generator one block at a time; nothing pushes into it once the segment
// starts.
package event

import "sort"

// Kind identifies which voice an event triggers. The enum order is also the
// tie-break order for events sharing the same time_samples.
type Kind int

const (
	Kick Kind = iota
	Snare
	Hat
	Melody
	MidFM
	BassFM
)

// String names a Kind the way the timeline JSON schema spells it.
func (k Kind) String() string {
	switch k {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case Hat:
		return "hat"
	case Melody:
		return "melody"
	case MidFM:
		return "mid"
	case BassFM:
		return "fm_bass"
	default:
		return "unknown"
	}
}

// Event is one scheduled voice trigger.
type Event struct {
	TimeSamples int
	Kind        Kind
	Aux         int
}

// patterns gives the fixed default 8-step rhythmic bit pattern per voice
// kind. Bit i (from the LSB) corresponds to step i mod 8, matching spec
// §4.3's "steps 0,4,7 of each 8" style enumeration for kick's 0x91.
var patterns = map[Kind]uint8{
	Kick:   0x91,
	Snare:  0x44,
	Hat:    0xAA,
	Melody: 0x55,
	MidFM:  0x88,
	BassFM: 0x11,
}

// orderedKinds fixes the iteration order used when building the queue, which
// is also the enum tie-break order for same-time events.
var orderedKinds = []Kind{Kick, Snare, Hat, Melody, MidFM, BassFM}

// bitSet reports whether bit (step mod 8) of pattern is set, LSB first, so
// step 0 of each group of 8 maps to the pattern's least significant bit.
// This is the ordering that makes kick's 0x91 land on steps 0, 4, 7, per
// spec.
func bitSet(pattern uint8, step int) bool {
	idx := step % 8
	return pattern&(1<<uint(idx)) != 0
}

// Build constructs the full, time-sorted event queue for a segment of
// stepsPerSegment steps of stepSamples length each. aux is a per-kind payload
// callback so the caller (which holds the scale/note-mapping logic) can
// attach the right aux value; Build only decides when each kind fires.
func Build(stepsPerSegment, stepSamples int, auxFor func(k Kind, step int) int) []Event {
	queue := make([]Event, 0, stepsPerSegment*len(orderedKinds))

	for step := 0; step < stepsPerSegment; step++ {
		for _, k := range orderedKinds {
			if !bitSet(patterns[k], step) {
				continue
			}
			queue = append(queue, Event{
				TimeSamples: step * stepSamples,
				Kind:        k,
				Aux:         auxFor(k, step),
			})
		}
	}

	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].TimeSamples != queue[j].TimeSamples {
			return queue[i].TimeSamples < queue[j].TimeSamples
		}
		return queue[i].Kind < queue[j].Kind
	})

	return queue
}

// Queue is a cursor over an already-built, time-sorted Event slice. It is
// consulted by absolute sample time only; nothing is pushed after init.
type Queue struct {
	events []Event
	cursor int
}

// NewQueue wraps a built event slice for draining during generation.
func NewQueue(events []Event) *Queue {
	return &Queue{events: events}
}

// PopDue returns all events with TimeSamples <= now, advancing the cursor
// past them, in queue order.
func (q *Queue) PopDue(now int) []Event {
	start := q.cursor
	for q.cursor < len(q.events) && q.events[q.cursor].TimeSamples <= now {
		q.cursor++
	}
	return q.events[start:q.cursor]
}

// Len reports the total number of events in the full (unfiltered) queue,
// including those already popped.
func (q *Queue) Len() int {
	return len(q.events)
}

// All returns the full underlying slice, e.g. for timeline export.
func (q *Queue) All() []Event {
	return q.events
}
