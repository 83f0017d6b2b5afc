package event

import "testing"

func noAux(Kind, int) int { return 0 }

func TestKickPatternSteps(t *testing.T) {
	queue := Build(32, 100, noAux)
	var kickSteps []int
	for _, e := range queue {
		if e.Kind == Kick {
			kickSteps = append(kickSteps, e.TimeSamples/100)
		}
	}
	want := []int{0, 4, 7, 8, 12, 15, 16, 20, 23, 24, 28, 31}
	if len(kickSteps) != len(want) {
		t.Fatalf("kick steps = %v, want %v", kickSteps, want)
	}
	for i := range want {
		if kickSteps[i] != want[i] {
			t.Fatalf("kick steps = %v, want %v", kickSteps, want)
		}
	}
}

func TestMidFMMatchesKnownScenario(t *testing.T) {
	// spec scenario: exactly 8 mid_fm events at steps 3,7,11,...,31.
	queue := Build(32, 10, noAux)
	var steps []int
	for _, e := range queue {
		if e.Kind == MidFM {
			steps = append(steps, e.TimeSamples/10)
		}
	}
	want := []int{3, 7, 11, 15, 19, 23, 27, 31}
	if len(steps) != 8 {
		t.Fatalf("got %d mid_fm events, want 8: %v", len(steps), steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("mid_fm steps = %v, want %v", steps, want)
		}
	}
}

func TestQueueSortedByTimeThenKind(t *testing.T) {
	queue := Build(32, 100, noAux)
	for i := 1; i < len(queue); i++ {
		prev, cur := queue[i-1], queue[i]
		if cur.TimeSamples < prev.TimeSamples {
			t.Fatalf("event %d out of time order: %+v before %+v", i, prev, cur)
		}
		if cur.TimeSamples == prev.TimeSamples && cur.Kind < prev.Kind {
			t.Fatalf("event %d tie-break violated: %+v before %+v", i, prev, cur)
		}
	}
}

func TestPopDueAdvancesCursor(t *testing.T) {
	queue := Build(32, 100, noAux)
	q := NewQueue(queue)

	due := q.PopDue(0)
	for _, e := range due {
		if e.TimeSamples > 0 {
			t.Fatalf("PopDue(0) returned event with time %d", e.TimeSamples)
		}
	}

	all := due
	for now := 100; now <= 3200; now += 100 {
		batch := q.PopDue(now)
		all = append(all, batch...)
		for _, e := range batch {
			if e.TimeSamples > now {
				t.Fatalf("PopDue(%d) returned event with time %d", now, e.TimeSamples)
			}
		}
	}
	if len(all) != len(queue) {
		t.Fatalf("drained %d events, want %d", len(all), len(queue))
	}
}

func TestAuxCallbackInvoked(t *testing.T) {
	calls := 0
	aux := func(k Kind, step int) int {
		calls++
		return step
	}
	queue := Build(32, 10, aux)
	if calls == 0 {
		t.Fatal("auxFor was never called")
	}
	for _, e := range queue {
		if e.Aux != e.TimeSamples/10 {
			t.Fatalf("event %+v has wrong aux", e)
		}
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		Kick: "kick", Snare: "snare", Hat: "hat",
		Melody: "melody", MidFM: "mid", BassFM: "fm_bass",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", k, got, want)
		}
	}
}
