// Command generate_segment renders one segment of deterministic audio for a
// seed and writes it as a 16-bit PCM stereo WAV.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/songadaymann/notdeafbeef/pkg/generator"
	"github.com/songadaymann/notdeafbeef/pkg/musictime"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
	"github.com/songadaymann/notdeafbeef/pkg/wav"
)

var (
	melodyOnlyDelay = flag.Bool("melody-only-delay", false, "route only the melody voice through the delay bus")
	logLevel        = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("invalid log level")
	}
	logrus.SetLevel(level)

	args := flag.Args()
	if len(args) < 1 {
		logrus.Fatal("usage: generate_segment <seed-hex> [out.wav]")
	}

	seedHex := args[0]
	outPath := "out.wav"
	if len(args) >= 2 {
		outPath = args[1]
	}

	s, err := seed.Parse(seedHex)
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse seed")
	}

	logrus.WithFields(logrus.Fields{"seed": seed.Format(s), "out": outPath}).Info("generating segment")

	g := generator.New(s, *melodyOnlyDelay)
	seg := g.Generate()

	if err := wav.WriteFile(outPath, musictime.SampleRate, seg.L, seg.R); err != nil {
		logrus.WithError(err).Fatal("failed to write WAV")
	}

	logrus.WithFields(logrus.Fields{
		"total_samples": seg.Timing.TotalSamples,
		"bpm":           seg.Timing.BPM,
		"out":           outPath,
	}).Info("segment written")
}
