package audio

import (
	"math"
	"math/rand"
	"sync/atomic"
)

const outputVolts = 5.0

// Engine is the granular synthesis core. ProcessFrame runs once per audio
// sample on the audio goroutine and is allocation-free in steady state;
// everything else (property updates, clip loading, view reads) happens on
// other goroutines through the lock-free hand-offs in Props, Store and the
// published View.
type Engine struct {
	props *Props
	store *Store
	stage *stage
	pool  *pool
	rec   recorder
	rnd   *rand.Rand

	sampleRate int
	dt         float64

	loading   atomic.Bool
	recording atomic.Bool

	// spawn position of the last processed frame, for the playhead marker
	spawnPos float64

	// the view is double-buffered: the audio thread fills the snapshot the
	// readers are not looking at, then flips the pointer
	views [2]View
	view  atomic.Pointer[View]
	flip  int
}

func NewEngine(props *Props, sampleRate int) *Engine {
	e := &Engine{
		props:      props,
		store:      NewStore(),
		stage:      newStage(props),
		pool:       newPool(),
		rnd:        rand.New(rand.NewSource(1)),
		sampleRate: sampleRate,
		dt:         1.0 / float64(sampleRate),
	}
	for i := range e.views {
		e.views[i].grains = make([]float64, maxGrains)
	}
	e.view.Store(&e.views[0])
	e.flip = 1
	return e
}

func (e *Engine) Props() *Props { return e.props }

// Seed reseeds the engine's randomization source. Not safe to call while
// the stream is running.
func (e *Engine) Seed(seed int64) {
	e.rnd = rand.New(rand.NewSource(seed))
}

// ProcessFrame advances the engine by one sample and returns the output
// voltage, bounded to ±5 by the saturation stage.
func (e *Engine) ProcessFrame(f Frame) float32 {
	clip, replaced := e.store.take()
	if replaced {
		// a loaded file cancels any armed recording
		e.pool.reset()
		e.rec.cancel()
		e.loading.Store(false)
	}

	if e.rec.process(f.Record, f.Input, e.store, e.sampleRate) {
		e.recording.Store(true)
		return 0
	}
	e.recording.Store(false)
	clip = e.store.current // the recorder may have allocated one

	if e.loading.Load() || clip == nil || clip.activeLength == 0 {
		return 0
	}

	p := e.stage.params(f, clip.activeLength)
	e.spawnPos = p.spawnPos

	out := e.pool.step(&p, clip, e.dt, e.rnd)
	out *= 1.0 + p.compression*3.0
	return float32(outputVolts * math.Tanh(out))
}

// SetClip replaces the sample buffer with a decoded asset. Called from the
// loader goroutine; the swap is observed by the audio thread on its next
// frame.
func (e *Engine) SetClip(samples []float32, sampleRate int) {
	e.store.Replace(NewClip(samples, sampleRate))
}

// BeginLoad marks a decode as in flight; the engine outputs silence until
// SetClip or AbortLoad.
func (e *Engine) BeginLoad() { e.loading.Store(true) }

// AbortLoad clears the loading flag after a failed decode so the engine
// does not stay silent under a stuck load.
func (e *Engine) AbortLoad() { e.loading.Store(false) }

// View is a read-only snapshot of the engine for display purposes. Readers
// poll it at their own cadence; values may change between reads and clip
// contents may still be racing the recorder, which the renderer tolerates.
type View struct {
	Clip      *Clip
	grains    []float64
	NumGrains int

	LoopStart float64 // normalized
	LoopEnd   float64
	SpawnPos  float64

	Recording bool
	Loading   bool
	RecHead   int
}

// GrainPositions returns the live grains' sample positions.
func (v *View) GrainPositions() []float64 { return v.grains[:v.NumGrains] }

// PublishView captures the current state into the inactive snapshot and
// flips it live. Called from the audio goroutine once per buffer, off the
// per-sample path.
func (e *Engine) PublishView() {
	v := &e.views[e.flip]
	v.Clip = e.store.current
	v.NumGrains = e.pool.positions(v.grains)

	a := e.stage.loopStart.Load().(float64)
	b := e.stage.loopEnd.Load().(float64)
	v.LoopStart = math.Min(a, b)
	v.LoopEnd = math.Max(a, b)
	v.SpawnPos = e.spawnPos

	v.Recording = e.recording.Load()
	v.Loading = e.loading.Load()
	v.RecHead = e.rec.head

	e.view.Store(v)
	e.flip = 1 - e.flip
}

// CurrentView returns the most recently published snapshot. Safe to call
// from any goroutine.
func (e *Engine) CurrentView() *View { return e.view.Load() }
