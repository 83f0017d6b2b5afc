// Command export_cover renders a seed's first video frame as an upscaled
// PNG cover image.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/songadaymann/notdeafbeef/pkg/analyzer"
	"github.com/songadaymann/notdeafbeef/pkg/checksum"
	"github.com/songadaymann/notdeafbeef/pkg/coverart"
	"github.com/songadaymann/notdeafbeef/pkg/framedriver"
	"github.com/songadaymann/notdeafbeef/pkg/generator"
	"github.com/songadaymann/notdeafbeef/pkg/musictime"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
	"github.com/songadaymann/notdeafbeef/pkg/timeline"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
	"github.com/songadaymann/notdeafbeef/pkg/wav"
)

var (
	scale           = flag.Int("scale", 1, "integer upscale factor for the cover image")
	melodyOnlyDelay = flag.Bool("melody-only-delay", false, "route only the melody voice through the delay bus")
	chaosMode       = flag.Bool("chaos", false, "enable chaos-spiral particle spawns")
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		logrus.Fatal("usage: export_cover <seed-hex> <out.png> [--scale N]")
	}

	seedHex := args[0]
	outPath := args[1]

	s, err := seed.Parse(seedHex)
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse seed")
	}

	g := generator.New(s, *melodyOnlyDelay)
	seg := g.Generate()
	digest := checksum.PCM(seg.L, seg.R)
	tl := timeline.FromSegment(seg, digest)

	az := analyzer.New(&wav.Audio{SampleRate: musictime.SampleRate, L: seg.L, R: seg.R}, tl)
	sig := az.At(0)

	d := framedriver.New(s, *chaosMode)
	f := visual.NewFrame()
	d.RenderFrame(f, 0, sig, 0)

	out, err := os.Create(outPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create cover file")
	}
	defer out.Close()

	if err := coverart.Write(out, f, *scale); err != nil {
		logrus.WithError(err).Fatal("failed to write cover PNG")
	}

	logrus.WithFields(logrus.Fields{"seed": seed.Format(s), "out": outPath, "scale": *scale}).Info("cover written")
}
