package checksum

import "testing"

func TestPCMDeterministic(t *testing.T) {
	l := []float64{0.1, 0.2, -0.3, 0.4}
	r := []float64{-0.1, -0.2, 0.3, -0.4}
	a := PCM(l, r)
	b := PCM(l, r)
	if a != b {
		t.Fatalf("checksum not deterministic: %s != %s", a, b)
	}
}

func TestPCMDiffersOnChange(t *testing.T) {
	l := []float64{0.1, 0.2, 0.3}
	r := []float64{0.1, 0.2, 0.3}
	a := PCM(l, r)
	l[1] = 0.25
	b := PCM(l, r)
	if a == b {
		t.Fatal("checksum did not change when PCM data changed")
	}
}

func TestPCMHexLength(t *testing.T) {
	sum := PCM([]float64{0}, []float64{0})
	if len(sum) != 64 {
		t.Fatalf("SHA3-256 hex digest length = %d, want 64", len(sum))
	}
}

func TestPCMEmptyIsStable(t *testing.T) {
	a := PCM(nil, nil)
	b := PCM(nil, nil)
	if a != b {
		t.Fatal("empty PCM checksum not stable")
	}
}
