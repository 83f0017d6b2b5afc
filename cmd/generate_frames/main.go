// Command generate_frames renders the synchronized 60fps video frame stream
// for a seed's audio segment, either to a directory of PPM files or as a
// single concatenated P6 stream on stdout for piping into an encoder. It
// reads an already-rendered WAV (from generate_segment) rather than
// re-deriving audio in-process, so the frame stream and the audio artifact
// it is meant to accompany are guaranteed to be the same recording.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/songadaymann/notdeafbeef/pkg/analyzer"
	"github.com/songadaymann/notdeafbeef/pkg/config"
	"github.com/songadaymann/notdeafbeef/pkg/framedriver"
	"github.com/songadaymann/notdeafbeef/pkg/livepreview"
	"github.com/songadaymann/notdeafbeef/pkg/ppm"
	"github.com/songadaymann/notdeafbeef/pkg/seed"
	"github.com/songadaymann/notdeafbeef/pkg/timeline"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
	"github.com/songadaymann/notdeafbeef/pkg/visualmod"
	"github.com/songadaymann/notdeafbeef/pkg/wav"
)

var (
	outDir     = flag.String("out-dir", "frames", "output directory for frame_NNNNNN.ppm files (ignored with --pipe-ppm)")
	pipePPM    = flag.Bool("pipe-ppm", false, "write a concatenated P6 stream to stdout instead of frame files")
	rangeStart = flag.Int("range-start", 0, "first frame index to render (inclusive)")
	rangeEnd   = flag.Int("range-end", -1, "last frame index to render (inclusive); -1 means until the segment ends")
	maxFrames  = flag.Int("max-frames", -1, "cap on the number of frames to render; -1 means no cap")
	fpsCap     = flag.Int("fps-cap", 0, "throttle pipe output to at most this many frames per second; 0 means unthrottled")
	watchAddr  = flag.String("watch", "", "if set, also broadcast each frame as PNG over a websocket live-preview server at this address")
	chaosMode  = flag.Bool("chaos", false, "enable chaos-spiral particle spawns")
	plugin     = flag.String("plugin", "", "path to a sandboxed WASM module exporting remap_hue(hue_fixed, frame, seed) to override the per-frame hue base; disabled by default, so default rendering stays bit-exact")
	logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("invalid log level")
	}
	logrus.SetLevel(level)

	if err := config.Load(); err != nil {
		logrus.WithError(err).Warn("failed to load config, using defaults")
	}
	cfg := config.Get()
	if !isFlagSet("fps-cap") {
		*fpsCap = cfg.PipeFPSCap
	}
	if !isFlagSet("chaos") {
		*chaosMode = cfg.ChaosMode
	}

	args := flag.Args()
	if len(args) < 2 {
		logrus.Fatal("usage: generate_frames <audio.wav> <seed-hex> [--pipe-ppm] [--out-dir DIR] [--range-start N --range-end N] [--max-frames N] [--fps-cap N] [--watch addr] [--plugin mod.wasm]")
	}
	audioPath, seedHex := args[0], args[1]

	s, err := seed.Parse(seedHex)
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse seed")
	}

	audio, err := wav.ReadFile(audioPath)
	if err != nil {
		logrus.WithError(err).WithField("path", audioPath).Fatal("failed to read audio")
	}

	// Sidecar-first: if <audio.wav>.json exists, beat timing comes from the
	// timeline exporter's sample-accurate schedule. Otherwise analyzer.New
	// falls back to RMS onset detection directly on the decoded WAV.
	sidecarPath := audioPath + ".json"
	var tl *timeline.Timeline
	if _, statErr := os.Stat(sidecarPath); statErr == nil {
		tl, err = timeline.ReadFile(sidecarPath)
		if err != nil {
			logrus.WithError(err).WithField("path", sidecarPath).Fatal("failed to read timeline sidecar")
		}
		logrus.WithField("path", sidecarPath).Info("using timeline sidecar for beat timing")
	} else {
		logrus.WithField("path", sidecarPath).Info("no timeline sidecar found; falling back to WAV RMS analysis")
	}

	az := analyzer.New(audio, tl)
	totalFrames := az.TotalFrames()

	stepSamples, stepsPerSegment := 0, 0
	if tl != nil {
		stepSamples = tl.StepSamples
		stepsPerSegment = len(tl.Steps)
	}

	start := *rangeStart
	end := *rangeEnd
	if end < 0 || end >= totalFrames {
		end = totalFrames - 1
	}
	if start < 0 {
		start = 0
	}
	frameCount := end - start + 1
	if *maxFrames >= 0 && frameCount > *maxFrames {
		frameCount = *maxFrames
		end = start + frameCount - 1
	}

	var preview *livepreview.Server
	if *watchAddr != "" {
		preview = livepreview.NewServer()
		go func() {
			if err := preview.ListenAndServe(*watchAddr); err != nil {
				logrus.WithError(err).Error("live preview server stopped")
			}
		}()
		logrus.WithField("addr", *watchAddr).Info("live preview available")
	}

	var mod *visualmod.Module
	if *plugin != "" {
		loader := visualmod.NewLoaderWithConfig(visualmod.Config{
			MemoryLimitBytes: 16 * 1024 * 1024,
			AllowedPaths:     []string{filepath.Dir(*plugin)},
		})
		mod, err = loader.Load(*plugin)
		if err != nil {
			logrus.WithError(err).Fatal("failed to load hue-remap plugin")
		}
		logrus.WithField("plugin", *plugin).Warn("hue-remap plugin loaded; output is no longer guaranteed bit-exact")
	}

	if !*pipePPM {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			logrus.WithError(err).Fatal("failed to create output directory")
		}
	}

	d := framedriver.New(s, *chaosMode)
	f := visual.NewFrame()

	var limiter *rate.Limiter
	if *pipePPM && *fpsCap > 0 {
		limiter = rate.NewLimiter(rate.Limit(*fpsCap), 1)
	}

	logrus.WithFields(logrus.Fields{
		"seed":   seed.Format(s),
		"frames": frameCount,
		"start":  start,
		"end":    end,
	}).Info("rendering frames")

	for frame := start; frame <= end; frame++ {
		sig := az.At(frame)
		step := -1
		if stepSamples > 0 {
			samplePos := int(float64(frame) * float64(analyzer.SampleRate) / float64(analyzer.FPS))
			step = (samplePos / stepSamples) % stepsPerSegment
		}

		if mod != nil {
			remapped, err := mod.RemapHue(sig.HueBase, frame, s)
			if err != nil {
				logrus.WithError(err).Warn("hue-remap plugin call failed; using unmodified hue")
			} else {
				sig.HueBase = remapped
			}
		}

		d.RenderFrame(f, frame, sig, step)

		if *pipePPM {
			if err := ppm.WriteFrame(os.Stdout, f); err != nil {
				logrus.WithError(err).Fatal("failed to write frame to stdout")
			}
			if limiter != nil {
				if err := limiter.Wait(context.Background()); err != nil {
					logrus.WithError(err).Warn("frame rate limiter wait failed")
				}
			}
		} else {
			path := filepath.Join(*outDir, ppm.FrameFileName(frame))
			if err := ppm.WriteFrameFile(path, f); err != nil {
				logrus.WithError(err).Fatal("failed to write frame file")
			}
		}

		if preview != nil {
			if err := preview.Broadcast(f); err != nil {
				logrus.WithError(err).Debug("live preview broadcast failed")
			}
		}
	}

	if !*pipePPM {
		fmt.Fprintf(os.Stderr, "wrote %d frames to %s\n", frameCount, *outDir)
	}
	logrus.WithField("frames", frameCount).Info("frame generation complete")
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
