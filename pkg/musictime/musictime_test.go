package musictime

import "testing"

type fakeStream struct {
	vals []uint32
	i    int
}

func (f *fakeStream) Next() uint32 {
	v := f.vals[f.i]
	f.i++
	return v
}

func TestDeriveBPMRange(t *testing.T) {
	for _, raw := range []uint32{0, 55, 110, 1000, 4294967295} {
		s := &fakeStream{vals: []uint32{raw, 0}}
		tm := Derive(s)
		if tm.BPM < 70 || tm.BPM > 180 {
			t.Fatalf("raw=%d: bpm %d out of [70,180]", raw, tm.BPM)
		}
	}
}

func TestDeriveBoundaryBPM(t *testing.T) {
	// next() mod 111 == 0 gives bpm == 70 (minimum).
	s := &fakeStream{vals: []uint32{111, 0}}
	tm := Derive(s)
	if tm.BPM != 70 {
		t.Fatalf("bpm = %d, want 70", tm.BPM)
	}

	// next() mod 111 == 110 gives bpm == 180 (maximum).
	s2 := &fakeStream{vals: []uint32{110, 0}}
	tm2 := Derive(s2)
	if tm2.BPM != 180 {
		t.Fatalf("bpm = %d, want 180", tm2.BPM)
	}
}

func TestStepSamplesAtExtremes(t *testing.T) {
	s70 := &fakeStream{vals: []uint32{0, 0}}
	tm70 := Derive(s70)
	if tm70.StepSamples <= 0 {
		t.Fatalf("step samples must be positive at bpm=70, got %d", tm70.StepSamples)
	}

	s180 := &fakeStream{vals: []uint32{110, 0}}
	tm180 := Derive(s180)
	if tm180.StepSamples <= 0 {
		t.Fatalf("step samples must be positive at bpm=180, got %d", tm180.StepSamples)
	}
	if tm180.StepSamples >= tm70.StepSamples {
		t.Fatalf("higher bpm should yield fewer samples per step: bpm70=%d bpm180=%d", tm70.StepSamples, tm180.StepSamples)
	}
}

func TestTotalSamplesConsistent(t *testing.T) {
	s := &fakeStream{vals: []uint32{50, 3}}
	tm := Derive(s)
	if tm.TotalSamples != tm.StepSamples*StepsPerSegment {
		t.Fatalf("total_samples = %d, want %d", tm.TotalSamples, tm.StepSamples*StepsPerSegment)
	}
	if tm.StepsPerSegment != 32 {
		t.Fatalf("steps_per_segment = %d, want 32", tm.StepsPerSegment)
	}
}

func TestRootFreqFromTable(t *testing.T) {
	for mod := uint32(0); mod < 12; mod++ {
		s := &fakeStream{vals: []uint32{0, mod}}
		tm := Derive(s)
		found := false
		for _, p := range pitchTable {
			if tm.RootFreq == p {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("root freq %f not in pitch table", tm.RootFreq)
		}
	}
}
