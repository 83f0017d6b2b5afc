// Command render-queue manages a batch of seeds to render, backed by a
// SQLite cache so a long-running batch can be interrupted and resumed
// without re-rendering seeds already marked done.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/songadaymann/notdeafbeef/pkg/analyzer"
	"github.com/songadaymann/notdeafbeef/pkg/checksum"
	"github.com/songadaymann/notdeafbeef/pkg/config"
	"github.com/songadaymann/notdeafbeef/pkg/generator"
	"github.com/songadaymann/notdeafbeef/pkg/musictime"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
	"github.com/songadaymann/notdeafbeef/pkg/store"
	"github.com/songadaymann/notdeafbeef/pkg/timeline"
	"github.com/songadaymann/notdeafbeef/pkg/wav"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	if err := config.Load(); err != nil {
		logrus.WithError(err).Warn("failed to load config, using defaults")
	}
	cfg := config.Get()

	switch os.Args[1] {
	case "add":
		runAdd(os.Args[2:], cfg)
	case "list":
		runList(os.Args[2:], cfg)
	case "run":
		runRun(os.Args[2:], cfg)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: render-queue {add|list|run} [flags]")
	os.Exit(1)
}

func runAdd(args []string, cfg config.Config) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	dbPath := fs.String("db", cfg.CacheDBPath, "path to the render cache database")
	fs.Parse(args)

	if fs.NArg() < 1 {
		logrus.Fatal("usage: render-queue add <seed-hex> [seed-hex ...] [--db path]")
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open render cache")
	}
	defer st.Close()

	for _, raw := range fs.Args() {
		s, err := seed.Parse(raw)
		if err != nil {
			logrus.WithError(err).WithField("seed", raw).Error("skipping invalid seed")
			continue
		}
		seedHex := seed.Format(s)
		if err := st.Enqueue(seedHex); err != nil {
			logrus.WithError(err).WithField("seed", seedHex).Error("failed to enqueue seed")
			continue
		}
		logrus.WithField("seed", seedHex).Info("enqueued")
	}
}

func runList(args []string, cfg config.Config) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dbPath := fs.String("db", cfg.CacheDBPath, "path to the render cache database")
	fs.Parse(args)

	st, err := store.Open(*dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open render cache")
	}
	defer st.Close()

	jobs, err := st.All()
	if err != nil {
		logrus.WithError(err).Fatal("failed to list jobs")
	}

	for _, j := range jobs {
		fmt.Printf("%s\t%s\tframes=%d\tdigest=%s\n", j.Seed, j.Status, j.FrameCount, j.Digest)
	}
}

func runRun(args []string, cfg config.Config) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dbPath := fs.String("db", cfg.CacheDBPath, "path to the render cache database")
	outDir := fs.String("out-dir", "renders", "directory to write rendered WAV/timeline pairs into")
	melodyOnlyDelay := fs.Bool("melody-only-delay", cfg.MelodyOnlyDelay, "route only the melody voice through the delay bus")
	fs.Parse(args)

	st, err := store.Open(*dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open render cache")
	}
	defer st.Close()

	jobs, err := st.Queued()
	if err != nil {
		logrus.WithError(err).Fatal("failed to list queued jobs")
	}
	if len(jobs) == 0 {
		logrus.Info("no queued jobs")
		return
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logrus.WithError(err).Fatal("failed to create output directory")
	}

	for _, j := range jobs {
		logEntry := logrus.WithField("seed", j.Seed)
		if err := st.MarkRunning(j.Seed); err != nil {
			logEntry.WithError(err).Error("failed to mark job running")
			continue
		}

		s, err := seed.Parse(j.Seed)
		if err != nil {
			logEntry.WithError(err).Error("failed to parse cached seed")
			st.MarkFailed(j.Seed)
			continue
		}

		g := generator.New(s, *melodyOnlyDelay)
		seg := g.Generate()
		digest := checksum.PCM(seg.L, seg.R)
		tl := timeline.FromSegment(seg, digest)

		wavPath := filepath.Join(*outDir, j.Seed+".wav")
		timelinePath := wavPath + ".json"

		if err := wav.WriteFile(wavPath, musictime.SampleRate, seg.L, seg.R); err != nil {
			logEntry.WithError(err).Error("failed to write WAV")
			st.MarkFailed(j.Seed)
			continue
		}

		tf, err := os.Create(timelinePath)
		if err != nil {
			logEntry.WithError(err).Error("failed to create timeline file")
			st.MarkFailed(j.Seed)
			continue
		}
		err = timeline.Write(tf, tl)
		tf.Close()
		if err != nil {
			logEntry.WithError(err).Error("failed to write timeline")
			st.MarkFailed(j.Seed)
			continue
		}

		frameCount := analyzer.TotalFrames(seg.Timing.TotalSamples)
		if err := st.MarkDone(j.Seed, wavPath, timelinePath, frameCount, digest); err != nil {
			logEntry.WithError(err).Error("failed to mark job done")
			continue
		}

		logEntry.WithFields(logrus.Fields{"wav": wavPath, "timeline": timelinePath}).Info("render complete")
	}
}
