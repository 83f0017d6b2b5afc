// Package framedriver orchestrates the per-frame render pipeline: it owns
// every stateful visual subsystem for one segment and advances them all in
// the normative draw order spec §4.13 fixes — reordering changes pixel
// output, so this package is the single place that order is allowed to
// live.
package framedriver

import (
	"github.com/songadaymann/notdeafbeef/pkg/analyzer"
	"github.com/songadaymann/notdeafbeef/pkg/boss"
	"github.com/songadaymann/notdeafbeef/pkg/fxvisual"
	"github.com/songadaymann/notdeafbeef/pkg/prng"
	"github.com/songadaymann/notdeafbeef/pkg/ship"
	"github.com/songadaymann/notdeafbeef/pkg/terrain"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

// BossCenterX and BossCenterY place the boss formation in the upper-right
// quadrant of the frame, opposite the ship's base position.
const (
	BossCenterX = 600
	BossCenterY = 150
)

// Driver holds every stateful visual subsystem for one segment and replays
// them frame by frame in the fixed draw order.
type Driver struct {
	seed uint32

	terr *terrain.Terrain
	shp  *ship.Ship
	bss  *boss.Boss

	particles   *fxvisual.Particles
	bassHits    *fxvisual.BassHits
	projectiles *boss.Projectiles

	particleStream   *prng.State
	shapeStream      *prng.State
	projectileStream *prng.State

	framesSinceBeat  int
	projectileCooldn int

	chaosMode bool
}

// New builds a Driver for seed. chaosMode enables the extra 8-spoke particle
// spirals spec §4.12 describes as a "chaos mode" addition.
func New(seed uint32, chaosMode bool) *Driver {
	return &Driver{
		seed:             seed,
		terr:             terrain.New(seed),
		shp:              ship.New(seed),
		bss:              boss.New(seed),
		particles:        fxvisual.NewParticles(),
		bassHits:         fxvisual.NewBassHits(),
		projectiles:      boss.NewProjectiles(),
		particleStream:   prng.New(seed, prng.MagicParticles),
		shapeStream:      prng.New(seed, prng.MagicShapes),
		projectileStream: prng.New(seed, prng.MagicProjectiles),
		framesSinceBeat:  1000,
		chaosMode:        chaosMode,
	}
}

// RenderFrame advances the driver by one frame and renders it into f, which
// is cleared first. sig is the frame's analyzed audio signal and step, if
// >= 0, is the current 32-step position (used to gate bass-hit triggers on
// saw steps); pass -1 when the step position is unknown.
func (d *Driver) RenderFrame(f *visual.Frame, frame int, sig analyzer.Signal, step int) {
	f.Clear(visual.Black)

	terrain.DrawBottom(f, d.terr, frame, sig.Level)
	terrain.DrawTop(f, frame, sig.Level, sig.HueBase)

	if sig.BeatNow {
		d.framesSinceBeat = 0
		d.particles.SpawnExplosion(d.particleStream, ship.BaseX, ship.BaseY, sig.HueBase, sig.Level)
		if step >= 0 && fxvisual.IsSawStep(step) {
			d.bassHits.Spawn(d.shapeStream, BossCenterX, BossCenterY, sig.Level)
		}
	} else {
		d.framesSinceBeat++
	}

	if d.chaosMode {
		d.particles.SpawnChaosSpiral(d.particleStream, ship.BaseX, ship.BaseY, sig.HueBase, frame)
	}

	d.projectileCooldn--
	if d.projectileCooldn <= 0 {
		d.projectiles.Spawn(d.projectileStream, ship.BaseX, ship.BaseY, BossCenterX, BossCenterY)
		d.projectileCooldn = boss.FireRate(sig.Level)
	}

	d.particles.Update()
	d.bassHits.Update()
	d.projectiles.Update(BossCenterX, BossCenterY, bossRadius(d.bss))

	d.particles.Draw(f)
	d.bassHits.Draw(f, frame%visual.LUTSize)
	projectileArgb := visual.HSVToRGB(sig.HueBase, 1.0, 1.0)
	d.projectiles.Draw(f, projectileArgb)

	ship.Draw(f, d.shp, frame, sig.Level)
	boss.Draw(f, d.bss, frame, sig.Level, BossCenterX, BossCenterY)

	intensity := fxvisual.Intensity(frame, sig.Level, d.framesSinceBeat)
	fxvisual.Apply(f, d.seed, frame, intensity)
}

// bossRadius gives the bounding-disc radius used for projectile collision,
// scaled to the widest component the boss formation ever draws.
func bossRadius(b *boss.Boss) float64 {
	maxSize := 0.0
	for _, c := range b.Components {
		if c.Size > maxSize {
			maxSize = c.Size
		}
	}
	if maxSize == 0 {
		maxSize = 20
	}
	return maxSize + 20
}
