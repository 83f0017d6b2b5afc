// Command describe prints a human-readable summary of a seed's segment.
package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/songadaymann/notdeafbeef/pkg/generator"
	"github.com/songadaymann/notdeafbeef/pkg/report"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
)

var melodyOnlyDelay = flag.Bool("melody-only-delay", false, "route only the melody voice through the delay bus")

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		logrus.Fatal("usage: describe <seed-hex>")
	}

	s, err := seed.Parse(args[0])
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse seed")
	}

	g := generator.New(s, *melodyOnlyDelay)
	seg := g.Generate()

	fmt.Println(report.Describe(seg))
}
