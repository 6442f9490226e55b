package audio

import "math"

// minimum loop width in samples below which wrapping degenerates to
// pinning at the loop start
const minLoopWidth = 1e-5

// grain is a single granular voice: an independently aged, windowed read
// cursor into the current clip. It is a plain value; the pool copies grains
// around freely.
type grain struct {
	pos   float64 // fractional sample index
	age   float64 // normalized lifetime [0, 1)
	delta float64 // per-sample age increment, 1/durationSamples
	speed float64 // playback speed ratio, 2^octaves
	shape float64 // envelope shape [0, 1], fixed at spawn
}

func (g *grain) sample(c *Clip, length int) float32 {
	return c.interpolatedRead(g.pos, length)
}

// envelope blends between three window shapes as shape sweeps 0..1:
// square at 0, triangle at 0.5, raised cosine at 1. Continuous in shape so
// modulating it sweeps audibly instead of stepping.
func (g *grain) envelope() float64 {
	square := 1.0
	tri := 1.0 - math.Abs(g.age-0.5)*2.0
	sine := 0.5 * (1.0 - math.Cos(2.0*math.Pi*g.age))

	if g.shape <= 0.5 {
		t := g.shape * 2.0
		return (1.0-t)*square + t*tri
	}
	t := (g.shape - 0.5) * 2.0
	return (1.0-t)*tri + t*sine
}

// advance moves the read cursor by the speed ratio, wrapping at loopEnd
// into the loop window, and ages the grain. A position below loopStart is
// clamped rather than wrapped, so a negative speed pins at the loop start.
func (g *grain) advance(loopStart, loopEnd float64) {
	g.pos += g.speed
	if g.pos >= loopEnd {
		overflow := g.pos - loopEnd
		width := loopEnd - loopStart
		if width > minLoopWidth {
			g.pos = loopStart + math.Mod(overflow, width)
		} else {
			g.pos = loopStart
		}
	} else if g.pos < loopStart {
		g.pos = loopStart
	}
	g.age += g.delta
}

func (g *grain) alive() bool { return g.age < 1.0 }
