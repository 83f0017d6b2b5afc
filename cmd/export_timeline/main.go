// Command export_timeline renders a segment and writes its JSON sidecar
// (scheduled events, step/beat sample indices, and a PCM checksum).
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/songadaymann/notdeafbeef/pkg/checksum"
	"github.com/songadaymann/notdeafbeef/pkg/generator"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
	"github.com/songadaymann/notdeafbeef/pkg/timeline"
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
		logrus.Fatal("usage: export_timeline <seed-hex> [out.json]")
	}

	seedHex := args[0]
	outPath := "timeline.json"
	if len(args) >= 2 {
		outPath = args[1]
	}

	s, err := seed.Parse(seedHex)
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse seed")
	}

	g := generator.New(s, *melodyOnlyDelay)
	seg := g.Generate()
	digest := checksum.PCM(seg.L, seg.R)
	tl := timeline.FromSegment(seg, digest)

	f, err := os.Create(outPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create timeline file")
	}
	defer f.Close()

	if err := timeline.Write(f, tl); err != nil {
		logrus.WithError(err).Fatal("failed to write timeline")
	}

	logrus.WithFields(logrus.Fields{
		"seed":     seed.Format(s),
		"out":      outPath,
		"checksum": digest,
	}).Info("timeline written")
}
