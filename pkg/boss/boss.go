// Package boss renders the eight seed-selected boss formations and their
// polygon-shaped components, plus the projectiles the ship fires at the
// boss.
package boss

import (
	"math"

	"github.com/songadaymann/notdeafbeef/pkg/prng"
	"github.com/songadaymann/notdeafbeef/pkg/visual"
)

// ShapeKind enumerates the five polygon shapes a component may take.
type ShapeKind int

const (
	Triangle ShapeKind = iota
	Diamond
	Hexagon
	Star
	Square
)

// sides gives the vertex count used to draw each shape kind as a regular
// polygon (Star uses a doubled count to alternate inner/outer radius).
func (k ShapeKind) sides() int {
	switch k {
	case Triangle:
		return 3
	case Diamond:
		return 4
	case Hexagon:
		return 6
	case Star:
		return 10
	case Square:
		return 4
	default:
		return 3
	}
}

// Component is one boss part: a shape, size, color, rotation, and a
// formation-specific random offset (used only by formations that need a
// stored random position rather than a formula, e.g. cluster/chaos).
type Component struct {
	Shape       ShapeKind
	Size        float64
	Hue, Sat, Val float64
	RotationIdx int
	OffsetX     float64
	OffsetY     float64
}

// Boss is the fixed-for-the-segment formation type and component list,
// derived once from the boss PRNG stream.
type Boss struct {
	Formation  int // 0-7
	Components []Component
}

// New derives a Boss from the boss PRNG stream (seed XOR boss magic).
func New(seed uint32) *Boss {
	stream := prng.New(seed, prng.MagicBoss)
	formation := int(stream.Next() % 8)
	n := 3 + stream.Intn(10)

	comps := make([]Component, n)
	for i := range comps {
		comps[i] = Component{
			Shape:       ShapeKind(stream.Intn(5)),
			Size:        15 + stream.Float64()*25,
			Hue:         stream.Float64(),
			Sat:         0.5 + stream.Float64()*0.5,
			Val:         0.6 + stream.Float64()*0.4,
			RotationIdx: stream.Intn(visual.LUTSize),
			OffsetX:     (stream.Float64()*2 - 1) * 120,
			OffsetY:     (stream.Float64()*2 - 1) * 120,
		}
	}
	return &Boss{Formation: formation, Components: comps}
}

// position computes component i's center for the current frame/level,
// relative to (centerX, centerY), per the eight formation layouts.
func (b *Boss) position(i int, frame int, level float64, centerX, centerY float64) (x, y float64) {
	n := len(b.Components)
	c := b.Components[i]

	switch b.Formation {
	case 0: // star burst: radii grow outward with component index
		angle := float64(i) * (2 * math.Pi / float64(n))
		radius := 20 + float64(i)*15
		return centerX + radius*visual.Cos(angle), centerY + radius*visual.Sin(angle)

	case 1: // cluster: stored random offsets within a 120px disc
		ox, oy := c.OffsetX, c.OffsetY
		if d := math.Hypot(ox, oy); d > 120 {
			ox, oy = ox*120/d, oy*120/d
		}
		return centerX + ox, centerY + oy

	case 2: // wing: mirrored left/right arms around center
		side := 1.0
		if i%2 == 1 {
			side = -1.0
		}
		arm := float64(i/2) * 25
		return centerX + side*(30+arm), centerY - 40 + arm*0.5

	case 3: // spiral: polar spiral, angle advances with frame
		angle := float64(i)*(2*math.Pi/8) + float64(frame)*0.02
		radius := 20 + float64(i)*10
		return centerX + radius*visual.Cos(angle), centerY + radius*visual.Sin(angle)

	case 4: // grid: rows x cols fit to component count
		cols := int(math.Ceil(math.Sqrt(float64(n))))
		row := i / cols
		col := i % cols
		return centerX + float64(col-cols/2)*40, centerY + float64(row)*40 - 60

	case 5: // random chaos: uniform random over a rectangle
		return centerX + c.OffsetX, centerY + c.OffsetY*0.5

	case 6: // layered: concentric rings, shape chosen per ring (by index)
		ring := i % 4
		angle := float64(i) * (2 * math.Pi / float64(n))
		radius := 15 + float64(ring)*25
		return centerX + radius*visual.Cos(angle), centerY + radius*visual.Sin(angle)

	case 7: // pulsing: position fixed, size reacts (handled by Draw)
		angle := float64(i) * (2 * math.Pi / float64(n))
		radius := 40.0
		return centerX + radius*visual.Cos(angle), centerY + radius*visual.Sin(angle)

	default:
		return centerX, centerY
	}
}

// Draw renders every component of the boss centered at (centerX, centerY)
// for the given frame and audio level.
func Draw(f *visual.Frame, b *Boss, frame int, level float64, centerX, centerY float64) {
	for i := range b.Components {
		c := &b.Components[i]
		x, y := b.position(i, frame, level, centerX, centerY)

		size := c.Size
		if b.Formation == 7 {
			size *= 1 + 0.3*level
		}

		shape := c.Shape
		if b.Formation == 6 {
			shape = b.Components[i%4].Shape // layered: one shape per ring
		}

		argb := visual.HSVToRGB(c.Hue, c.Sat, c.Val)
		DrawShape(f, x, y, size, shape, c.RotationIdx, argb)
	}
}

// DrawShape draws shape as a closed polygon of glyph-stamped vertices plus
// an interpolated glyph edge, rotated via the sin/cos LUT. Exported so
// other transient effects (bass-hit shapes) can reuse the same polygon
// drawing without duplicating it.
func DrawShape(f *visual.Frame, cx, cy, radius float64, shape ShapeKind, rotIdx int, argb uint32) {
	n := shape.sides()
	points := make([][2]float64, n)

	for i := 0; i < n; i++ {
		r := radius
		if shape == Star && i%2 == 1 {
			r = radius * 0.45
		}
		angle := float64(i) * (2 * math.Pi / float64(n))
		lutIdx := rotIdx + int(angle*float64(visual.LUTSize)/(2*math.Pi))
		px, py := visual.Rotate2D(r, 0, lutIdx)
		points[i] = [2]float64{cx + px, cy + py}
	}

	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		drawEdge(f, a[0], a[1], b[0], b[1], argb)
	}
}

// drawEdge stamps a fixed glyph along the straight line between two
// points, the "interpolated edge made of a fixed glyph" spec §4.11 calls
// for.
func drawEdge(f *visual.Frame, x0, y0, x1, y1 float64, argb uint32) {
	dx := x1 - x0
	dy := y1 - y0
	dist := math.Hypot(dx, dy)
	steps := int(dist / 6)
	if steps < 1 {
		steps = 1
	}
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := x0 + dx*t
		y := y0 + dy*t
		visual.DrawGlyph(f, '*', int(x), int(y), 1, argb)
	}
}

// --- Projectiles --------------------------------------------------------

// projectileGlyphs is the fixed nine-character projectile glyph set.
var projectileGlyphs = []byte{'o', 'x', '-', '0', '*', '+', '>', '=', '~'}

// Projectile is one in-flight shot fired from the ship toward the boss.
type Projectile struct {
	X, Y   float64
	VX, VY float64
	Glyph  byte
	Life   int
	Active bool
}

// MaxProjectiles is the fixed pool capacity (spec requires >= 64).
const MaxProjectiles = 64

// Projectiles is the fixed-capacity, never-growing projectile pool.
type Projectiles struct {
	pool [MaxProjectiles]Projectile
}

// NewProjectiles allocates the pool; all slots start inactive.
func NewProjectiles() *Projectiles {
	return &Projectiles{}
}

// FireRate computes the frame interval between shots at the given audio
// level: clip(3, 20 - floor(L*17), 20).
func FireRate(level float64) int {
	rate := 20 - int(math.Floor(level*17))
	if rate < 3 {
		rate = 3
	}
	if rate > 20 {
		rate = 20
	}
	return rate
}

// Spawn activates the next free slot in the pool, firing from (x,y) toward
// (targetX, targetY). If the pool is full, the spawn is silently dropped
// (never an error, per spec's pool-saturation boundary behavior).
func (p *Projectiles) Spawn(stream *prng.State, x, y, targetX, targetY float64) {
	for i := range p.pool {
		if p.pool[i].Active {
			continue
		}
		dx := targetX - x
		dy := targetY - y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dist = 1
		}
		speed := 6.0
		p.pool[i] = Projectile{
			X: x, Y: y,
			VX:     dx / dist * speed,
			VY:     dy / dist * speed,
			Glyph:  projectileGlyphs[stream.Intn(len(projectileGlyphs))],
			Life:   180,
			Active: true,
		}
		return
	}
}

// Update advances every active projectile by one frame (linear motion, no
// gravity) and removes any colliding with the boss's bounding disc
// (centered at bossX, bossY with bossRadius) or expiring.
func (p *Projectiles) Update(bossX, bossY, bossRadius float64) {
	for i := range p.pool {
		pr := &p.pool[i]
		if !pr.Active {
			continue
		}
		pr.X += pr.VX
		pr.Y += pr.VY
		pr.Life--

		dx := pr.X - bossX
		dy := pr.Y - bossY
		if dx*dx+dy*dy <= bossRadius*bossRadius {
			pr.Active = false
			continue
		}
		if pr.Life <= 0 {
			pr.Active = false
		}
	}
}

// Draw renders every active projectile.
func (p *Projectiles) Draw(f *visual.Frame, argb uint32) {
	for i := range p.pool {
		pr := &p.pool[i]
		if !pr.Active {
			continue
		}
		visual.DrawGlyph(f, pr.Glyph, int(pr.X), int(pr.Y), 1, argb)
	}
}

// ActiveCount reports how many projectiles are currently live, for the pool
// bounds invariant.
func (p *Projectiles) ActiveCount() int {
	n := 0
	for i := range p.pool {
		if p.pool[i].Active {
			n++
		}
	}
	return n
}
