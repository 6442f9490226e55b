package audio

import (
	"math"
	"math/rand"
	"sync/atomic"
)

// Parameter ranges, matching the knob ranges on the panel.
const (
	minDensityHz = 1.0
	maxDensityHz = 100.0
	minSizeSec   = 0.01
	maxSizeSec   = 2.0

	// ±10V CV at full modulation depth sweeps the full normalized range
	cvModScale = 0.1

	// pitch knob [0,1] maps to ±2 octaves
	pitchOctaveRange = 4.0
)

// Frame is one audio frame's snapshot of the control surface: the live
// input voltage, the record gate and the raw CV voltages for each
// modulatable parameter. Knob values come from Props instead, so the
// control surface only ever hands the engine plain scalars.
type Frame struct {
	Input  float64 // audio in, volts
	Record float64 // record gate, volts

	SizeCV     float64
	DensityCV  float64
	ShapeCV    float64
	PositionCV float64
	PitchCV    float64
}

// frameParams are the effective synthesis parameters for one frame, after
// CV modulation and clamping but before per-spawn randomization.
type frameParams struct {
	loopStartNorm float64
	loopEndNorm   float64
	loopStartSamp float64
	loopEndSamp   float64

	densityNorm float64
	sizeNorm    float64
	shape       float64
	spawnPos    float64
	pitchVolts  float64

	randDensity float64
	randSize    float64
	randShape   float64
	randPos     float64
	randPitch   float64

	compression float64

	sync bool
	bpm  float64
}

// stage computes effective parameters once per frame from the registered
// properties and the frame's CV voltages.
type stage struct {
	size        *atomic.Value
	density     *atomic.Value
	shape       *atomic.Value
	position    *atomic.Value
	pitch       *atomic.Value
	loopStart   *atomic.Value
	loopEnd     *atomic.Value
	compression *atomic.Value

	randSize     *atomic.Value
	randDensity  *atomic.Value
	randShape    *atomic.Value
	randPosition *atomic.Value
	randPitch    *atomic.Value

	modSize     *atomic.Value
	modDensity  *atomic.Value
	modShape    *atomic.Value
	modPosition *atomic.Value
	modPitch    *atomic.Value

	syncMode *atomic.Value
	bpm      *atomic.Value
}

func newStage(props *Props) *stage {
	return &stage{
		size:        props.MustRegister("size", setFloat64(minSizeSec, maxSizeSec), 0.5),
		density:     props.MustRegister("density", setFloat64(minDensityHz, maxDensityHz), 1.0),
		shape:       props.MustRegister("shape", setFloat64(0, 1), 0.5),
		position:    props.MustRegister("position", setFloat64(0, 1), 0.0),
		pitch:       props.MustRegister("pitch", setFloat64(0, 1), 0.5),
		loopStart:   props.MustRegister("loop.start", setFloat64(0, 1), 0.0),
		loopEnd:     props.MustRegister("loop.end", setFloat64(0, 1), 1.0),
		compression: props.MustRegister("compression", setFloat64(0, 1), 0.0),

		randSize:     props.MustRegister("rand.size", setFloat64(0, 1), 0.0),
		randDensity:  props.MustRegister("rand.density", setFloat64(0, 1), 0.0),
		randShape:    props.MustRegister("rand.shape", setFloat64(0, 1), 0.0),
		randPosition: props.MustRegister("rand.position", setFloat64(0, 1), 0.0),
		randPitch:    props.MustRegister("rand.pitch", setFloat64(0, 1), 0.0),

		modSize:     props.MustRegister("mod.size", setFloat64(-1, 1), 0.0),
		modDensity:  props.MustRegister("mod.density", setFloat64(-1, 1), 0.0),
		modShape:    props.MustRegister("mod.shape", setFloat64(-1, 1), 0.0),
		modPosition: props.MustRegister("mod.position", setFloat64(-1, 1), 0.0),
		modPitch:    props.MustRegister("mod.pitch", setFloat64(-1, 1), 0.0),

		syncMode: props.MustRegister("sync", setSyncMode, "free"),
		bpm:      props.MustRegister("bpm", setFloat64(20, 300), 120.0),
	}
}

// params computes the frame's effective parameters against the clip's
// active length. The loop window is order-independent: effective start and
// end are min and max of the two knobs.
func (st *stage) params(f Frame, activeLength int) frameParams {
	var p frameParams

	a := st.loopStart.Load().(float64)
	b := st.loopEnd.Load().(float64)
	p.loopStartNorm = math.Min(a, b)
	p.loopEndNorm = math.Max(a, b)

	last := float64(activeLength - 1)
	p.loopStartSamp = p.loopStartNorm * last
	p.loopEndSamp = p.loopEndNorm * last
	if p.loopEndSamp > last {
		p.loopEndSamp = last
	}
	if p.loopStartSamp < 0 {
		p.loopStartSamp = 0
	}
	if p.loopStartSamp >= p.loopEndSamp {
		p.loopStartSamp = p.loopEndSamp - 1
	}

	p.densityNorm = modulate(
		rescale(st.density.Load().(float64), minDensityHz, maxDensityHz, 0, 1),
		f.DensityCV, st.modDensity.Load().(float64))
	p.sizeNorm = modulate(
		rescale(st.size.Load().(float64), minSizeSec, maxSizeSec, 0, 1),
		f.SizeCV, st.modSize.Load().(float64))
	p.shape = modulate(st.shape.Load().(float64), f.ShapeCV, st.modShape.Load().(float64))
	p.spawnPos = modulate(st.position.Load().(float64), f.PositionCV, st.modPosition.Load().(float64))

	pitchKnob := modulate(st.pitch.Load().(float64), f.PitchCV, st.modPitch.Load().(float64))
	p.pitchVolts = (pitchKnob - 0.5) * pitchOctaveRange

	p.randDensity = st.randDensity.Load().(float64)
	p.randSize = st.randSize.Load().(float64)
	p.randShape = st.randShape.Load().(float64)
	p.randPos = st.randPosition.Load().(float64)
	p.randPitch = st.randPitch.Load().(float64)

	p.compression = st.compression.Load().(float64)

	p.sync = st.syncMode.Load().(string) == "sync"
	p.bpm = st.bpm.Load().(float64)
	return p
}

// modulate applies CV modulation to a normalized base value and clamps the
// result back into [0, 1].
func modulate(base, cv, amount float64) float64 {
	return clamp(base+cv*amount*cvModScale, 0, 1)
}

// randomize offsets a normalized value by up to ±amount/2 and clamps.
func randomize(base, amount float64, rnd *rand.Rand) float64 {
	offset := (rnd.Float64()*2 - 1) * amount * 0.5
	return clamp(base+offset, 0, 1)
}

// speedRatio converts a pitch offset in volts (octaves) plus random octave
// jitter into a playback speed multiplier.
func speedRatio(pitchVolts, randPitch float64, rnd *rand.Rand) float64 {
	jitter := (rnd.Float64()*2 - 1) * randPitch
	return math.Pow(2, pitchVolts+jitter)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func rescale(x, inLo, inHi, outLo, outHi float64) float64 {
	return outLo + (x-inLo)/(inHi-inLo)*(outHi-outLo)
}
