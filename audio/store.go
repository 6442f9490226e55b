package audio

import (
	"runtime"
	"sync/atomic"
)

// Clip holds a mono sample buffer together with its sample rate. Loaded
// files are normalized to [-1, 1]; buffers captured by the recorder hold
// raw voltages (±5) and are tagged with rawVoltage so the renderer can
// scale them.
//
// A clip handed to the engine via Store.Replace is never written again by
// the loader; the recorder mutates only the clip it allocated itself, from
// the audio goroutine.
type Clip struct {
	samples      []float32
	sampleRate   int
	activeLength int // samples in use, <= len(samples)
	rawVoltage   bool
}

func NewClip(samples []float32, sampleRate int) *Clip {
	return &Clip{
		samples:      samples,
		sampleRate:   sampleRate,
		activeLength: len(samples),
	}
}

func (c *Clip) Samples() []float32 { return c.samples }
func (c *Clip) SampleRate() int    { return c.sampleRate }
func (c *Clip) ActiveLength() int  { return c.activeLength }
func (c *Clip) RawVoltage() bool   { return c.rawVoltage }

// interpolatedRead returns the linear interpolation between the samples at
// floor(pos) and floor(pos)+1, wrapping the second index at length. The
// caller passes the effective length so playback can be confined to
// activeLength while the physical buffer is larger. Indices are clamped
// into [0, length-1], so any finite pos is safe. Returns 0 when length is 0.
func (c *Clip) interpolatedRead(pos float64, length int) float32 {
	if length <= 0 || len(c.samples) == 0 {
		return 0
	}
	if length > len(c.samples) {
		length = len(c.samples)
	}
	i1 := int(pos)
	i2 := (i1 + 1) % length
	frac := float32(pos - float64(i1))

	if i1 < 0 {
		i1 = 0
	}
	if i1 >= length {
		i1 = length - 1
	}
	if i2 < 0 {
		i2 = 0
	}
	if i2 >= length {
		i2 = length - 1
	}
	s1 := c.samples[i1]
	s2 := c.samples[i2]
	return (1-frac)*s1 + frac*s2
}

// Store owns the engine's current clip. The audio goroutine is the only
// reader/writer of the current field; replacements coming from the loader
// goroutine travel through a lock-free spsc queue and become visible at the
// next frame boundary, so the audio thread never observes a clip mid-write.
type Store struct {
	current *Clip
	pending clipQueue
}

func NewStore() *Store {
	s := &Store{}
	s.pending.init(4)
	return s
}

// Replace hands a new clip to the audio thread. Called from the loader
// goroutine only.
func (s *Store) Replace(c *Clip) {
	s.pending.push(c)
}

// take drains pending replacements and returns the current clip plus
// whether it changed. Audio goroutine only.
func (s *Store) take() (*Clip, bool) {
	var replaced bool
	s.pending.drain(func(c *Clip) {
		s.current = c
		replaced = true
	})
	return s.current, replaced
}

// clipQueue is a lock-free spsc queue of clip replacements.
type clipQueue struct {
	clips       []*Clip
	read, write *uint32
}

func (q *clipQueue) init(size int) {
	if size <= 0 || size&(size-1) != 0 {
		panic("clip queue size must be a power of 2")
	}
	q.clips = make([]*Clip, size)
	q.read = new(uint32)
	q.write = new(uint32)
}

func (q *clipQueue) push(c *Clip) {
	for atomic.LoadUint32(q.write)-atomic.LoadUint32(q.read) == uint32(len(q.clips)) {
		runtime.Gosched()
	}
	write := atomic.LoadUint32(q.write)
	q.clips[write%uint32(len(q.clips))] = c
	atomic.StoreUint32(q.write, write+1)
}

func (q *clipQueue) drain(f func(*Clip)) {
	read := atomic.LoadUint32(q.read)
	write := atomic.LoadUint32(q.write)
	for read != write {
		f(q.clips[read%uint32(len(q.clips))])
		read++
	}
	atomic.StoreUint32(q.read, read)
}
