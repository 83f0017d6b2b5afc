package voice

import "testing"

type sequentialNoise struct{ n uint32 }

func (s *sequentialNoise) Next() uint32 {
	s.n = s.n*1664525 + 1013904223
	return s.n
}

func TestKickSilentAfterDepletion(t *testing.T) {
	k := NewKick()
	k.Init(44100)
	k.Trigger()

	ld := make([]float64, k.remaining+10)
	rd := make([]float64, k.remaining+10)
	k.Process(ld, rd, len(ld))

	tail := ld[len(ld)-5:]
	for i, v := range tail {
		if v != 0 {
			t.Fatalf("kick sample %d after depletion = %f, want 0", i, v)
		}
	}
}

func TestKickAmplitudeSafety(t *testing.T) {
	k := NewKick()
	k.Init(44100)
	k.Trigger()

	n := 2000
	ld := make([]float64, n)
	rd := make([]float64, n)
	k.Process(ld, rd, n)

	for i, v := range ld {
		if v < -1.0 || v > 1.0 {
			t.Fatalf("ld[%d] = %f out of [-1,1]", i, v)
		}
		_ = rd[i]
	}
}

func TestSnareUsesNoiseDeterministically(t *testing.T) {
	noiseA := &sequentialNoise{n: 42}
	noiseB := &sequentialNoise{n: 42}

	a := NewSnare(noiseA)
	a.Init(44100)
	a.Trigger()

	b := NewSnare(noiseB)
	b.Init(44100)
	b.Trigger()

	n := 1000
	ldA, rdA := make([]float64, n), make([]float64, n)
	ldB, rdB := make([]float64, n), make([]float64, n)
	a.Process(ldA, rdA, n)
	b.Process(ldB, rdB, n)

	for i := range ldA {
		if ldA[i] != ldB[i] {
			t.Fatalf("sample %d diverged: %f vs %f", i, ldA[i], ldB[i])
		}
	}
}

func TestHatAmplitudeSafety(t *testing.T) {
	h := NewHat(&sequentialNoise{n: 7})
	h.Init(44100)
	h.Trigger()

	n := 3000
	ld, rd := make([]float64, n), make([]float64, n)
	h.Process(ld, rd, n)
	for i := range ld {
		if ld[i] < -1 || ld[i] > 1 || rd[i] < -1 || rd[i] > 1 {
			t.Fatalf("sample %d out of range", i)
		}
	}
}

func TestMelodySawtoothBounded(t *testing.T) {
	m := NewMelody()
	m.Init(44100)
	m.Trigger(440.0)

	n := 4000
	ld, rd := make([]float64, n), make([]float64, n)
	m.Process(ld, rd, n)
	for i := range ld {
		if ld[i] < -1 || ld[i] > 1 {
			t.Fatalf("sample %d = %f out of range", i, ld[i])
		}
	}
}

func TestMidFMAmplitudeSafety(t *testing.T) {
	v := NewMidFM()
	v.Init(44100)
	v.Trigger(440.0)

	n := 8000
	ld, rd := make([]float64, n), make([]float64, n)
	v.Process(ld, rd, n)
	for i := range ld {
		if ld[i] < -1 || ld[i] > 1 {
			t.Fatalf("sample %d = %f out of range", i, ld[i])
		}
	}
}

func TestBassFMZeroSampleRateYieldsNoSamples(t *testing.T) {
	v := NewBassFM()
	v.Init(0)
	v.Trigger(110.0)

	if v.remaining != 0 {
		t.Fatalf("remaining = %d, want 0 when sample_rate is uninitialized", v.remaining)
	}

	n := 10
	ld, rd := make([]float64, n), make([]float64, n)
	v.Process(ld, rd, n)
	for i := range ld {
		if ld[i] != 0 || rd[i] != 0 {
			t.Fatalf("sample %d nonzero with zero sample rate", i)
		}
	}
}

func TestBassFMAmplitudeSafety(t *testing.T) {
	v := NewBassFM()
	v.Init(44100)
	v.Trigger(110.0)

	n := 20000
	ld, rd := make([]float64, n), make([]float64, n)
	v.Process(ld, rd, n)
	for i := range ld {
		if ld[i] < -1 || ld[i] > 1 {
			t.Fatalf("sample %d = %f out of range", i, ld[i])
		}
	}
}

func TestRetriggerResetsState(t *testing.T) {
	k := NewKick()
	k.Init(44100)
	k.Trigger()

	half := k.remaining / 2
	ld, rd := make([]float64, half), make([]float64, half)
	k.Process(ld, rd, half)

	if k.remaining == 0 {
		t.Fatal("kick should still be active at the midpoint")
	}

	k.Trigger()
	if k.env != 0.9 {
		t.Fatalf("retrigger did not reset envelope, env=%f", k.env)
	}
}
