package generator

import "testing"

func TestGenerateLengthMatchesTotalSamples(t *testing.T) {
	seg := New(0xCAFEBABE, false).Generate()
	if len(seg.L) != seg.Timing.TotalSamples {
		t.Fatalf("len(L) = %d, want %d", len(seg.L), seg.Timing.TotalSamples)
	}
	if len(seg.R) != seg.Timing.TotalSamples {
		t.Fatalf("len(R) = %d, want %d", len(seg.R), seg.Timing.TotalSamples)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	seeds := []uint32{0, 1, 0xCAFEBABE, 0xDEADBEEF, 0x12345678, 0xFFFFFFFF}
	for _, s := range seeds {
		a := New(s, false).Generate()
		b := New(s, false).Generate()
		if len(a.L) != len(b.L) {
			t.Fatalf("seed %#x: length mismatch", s)
		}
		for i := range a.L {
			if a.L[i] != b.L[i] || a.R[i] != b.R[i] {
				t.Fatalf("seed %#x: sample %d diverged between runs", s, i)
			}
		}
	}
}

func TestGenerateAmplitudeSafety(t *testing.T) {
	seg := New(0xDEADBEEF, false).Generate()
	for i, v := range seg.L {
		if v < -1.0 || v > 1.0 {
			t.Fatalf("L[%d] = %f out of [-1,1]", i, v)
		}
		if r := seg.R[i]; r < -1.0 || r > 1.0 {
			t.Fatalf("R[%d] = %f out of [-1,1]", i, r)
		}
	}
}

func TestGenerateZeroSeedValid(t *testing.T) {
	seg := New(0, false).Generate()
	if seg.Timing.TotalSamples <= 0 {
		t.Fatal("seed 0 produced a degenerate zero-length segment")
	}
}

func TestEventTimesWithinSegment(t *testing.T) {
	seg := New(0x12345678, false).Generate()
	for _, e := range seg.Events {
		if e.TimeSamples >= seg.Timing.TotalSamples {
			t.Fatalf("event at %d falls outside segment of length %d", e.TimeSamples, seg.Timing.TotalSamples)
		}
	}
}

func TestMidFMEventCountForKnownSeed(t *testing.T) {
	// spec scenario: seed 0xDEADBEEF schedules exactly 8 mid_fm events.
	seg := New(0xDEADBEEF, false).Generate()
	count := 0
	for _, e := range seg.Events {
		if e.Kind.String() == "mid" {
			count++
		}
	}
	if count != 8 {
		t.Fatalf("mid_fm event count = %d, want 8", count)
	}
}

func TestMelodyOnlyDelayModeAlsoDeterministic(t *testing.T) {
	a := New(777, true).Generate()
	b := New(777, true).Generate()
	for i := range a.L {
		if a.L[i] != b.L[i] {
			t.Fatalf("sample %d diverged with melody-only delay routing", i)
		}
	}
}
