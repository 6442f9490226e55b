package audio

import (
	"math"
	"math/rand"
)

// maxGrains caps the number of simultaneously live grains. Spawn attempts
// beyond capacity are dropped, which caps density instead of failing.
const maxGrains = 128

// pool holds the live grains and the spawn countdown. All methods run on
// the audio goroutine; the backing array is allocated once so steady-state
// processing never allocates.
type pool struct {
	grains     []grain
	spawnTimer float64 // seconds until the next spawn attempt
}

func newPool() *pool {
	return &pool{grains: make([]grain, 0, maxGrains)}
}

func (p *pool) reset() {
	p.grains = p.grains[:0]
	p.spawnTimer = 0
}

func (p *pool) size() int { return len(p.grains) }

// step runs one frame of the pool: spawn timing, mixdown of all live
// grains, advancement and removal. Returns the sqrt-normalized sum, which
// keeps perceived loudness roughly constant as density rises instead of
// peak-normalizing.
func (p *pool) step(fp *frameParams, clip *Clip, dt float64, rnd *rand.Rand) float64 {
	p.spawnTimer -= dt
	if p.spawnTimer <= 0 {
		density := randomize(fp.densityNorm, fp.randDensity, rnd)
		if fp.sync {
			p.spawnTimer = syncedPeriod(density, fp.bpm, true)
		} else {
			p.spawnTimer = 1.0 / rescale(density, 0, 1, minDensityHz, maxDensityHz)
		}
		if len(p.grains) < maxGrains {
			p.spawn(fp, clip, rnd)
		}
	}

	var out float64
	for i := range p.grains {
		g := &p.grains[i]
		out += float64(g.sample(clip, clip.activeLength)) * g.envelope()
		g.advance(fp.loopStartSamp, fp.loopEndSamp)
	}

	for i := len(p.grains) - 1; i >= 0; i-- {
		if !p.grains[i].alive() {
			last := len(p.grains) - 1
			p.grains[i] = p.grains[last]
			p.grains = p.grains[:last]
		}
	}

	if len(p.grains) > 0 {
		out /= math.Sqrt(float64(len(p.grains)))
	}
	return out
}

func (p *pool) spawn(fp *frameParams, clip *Clip, rnd *rand.Rand) {
	pos := randomize(fp.spawnPos, fp.randPos, rnd)
	if pos < fp.loopStartNorm {
		pos = fp.loopStartNorm
	}
	if pos > fp.loopEndNorm {
		pos = fp.loopEndNorm
	}

	var durationSec float64
	size := randomize(fp.sizeNorm, fp.randSize, rnd)
	if fp.sync {
		durationSec = syncedPeriod(size, fp.bpm, false)
	} else {
		durationSec = rescale(size, 0, 1, minSizeSec, maxSizeSec)
	}
	durationSamples := durationSec * float64(clip.sampleRate)
	if durationSamples < 1 {
		durationSamples = 1
	}

	p.grains = append(p.grains, grain{
		pos:   pos * float64(clip.activeLength-1),
		age:   0,
		delta: 1.0 / durationSamples,
		speed: speedRatio(fp.pitchVolts, fp.randPitch, rnd),
		shape: randomize(fp.shape, fp.randShape, rnd),
	})
}

// positions copies the live grains' cursor positions into dst and returns
// the count, for the display view.
func (p *pool) positions(dst []float64) int {
	count := 0
	for i := range p.grains {
		if count == len(dst) {
			break
		}
		dst[count] = p.grains[i].pos
		count++
	}
	return count
}
