package report

import (
	"strings"
	"testing"

	"github.com/songadaymann/notdeafbeef/pkg/generator"
)

func TestDescribeContainsKeySections(t *testing.T) {
	seg := generator.New(0xCAFEBABE, false).Generate()
	out := Describe(seg)

	for _, want := range []string{"Seed", "Tempo", "Duration", "Events", "bpm:", "kick:", "snare:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestNoteNameKnownFrequencies(t *testing.T) {
	if n := noteName(110.00); n != "A2" {
		t.Fatalf("noteName(110.00) = %q, want A2", n)
	}
	if n := noteName(207.65); n != "G#3" {
		t.Fatalf("noteName(207.65) = %q, want G#3", n)
	}
}

func TestNoteNameUnknownFrequency(t *testing.T) {
	if n := noteName(440.0); n != "unknown" {
		t.Fatalf("noteName(440.0) = %q, want unknown", n)
	}
}

func TestDescribeDeterministic(t *testing.T) {
	a := Describe(generator.New(0xDEADBEEF, false).Generate())
	b := Describe(generator.New(0xDEADBEEF, false).Generate())
	if a != b {
		t.Fatal("describe output not deterministic for the same seed")
	}
}
