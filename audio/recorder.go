package audio

// Live recording captures the input voltage into the clip as a ring,
// looper style: arming resets the write head, a full revolution keeps
// overwriting from the start, and stopping trims the clip's active length
// to what was actually captured.

const (
	recordBufferSeconds = 10
	// recordings shorter than this are considered accidental taps and fall
	// back to a full second, guarding against near-zero active lengths
	minRecordedSamples = 100
)

type recorderState int

const (
	recIdle recorderState = iota
	recArmed
	recWrapped // armed and the write head completed a full revolution
)

type recorder struct {
	state recorderState
	head  int
	trig  schmittTrigger
}

// process runs one frame of the record state machine. It returns true
// while recording is active, in which case the engine outputs silence.
// Audio goroutine only; the recorder is the clip's single writer while
// armed.
func (r *recorder) process(gate, input float64, store *Store, sampleRate int) bool {
	active := gate > 1.0

	if r.trig.process(boolToGate(active)) {
		// Arm. Give ourselves room to record into if the current clip is
		// missing or shorter than a second.
		clip := store.current
		if clip == nil || len(clip.samples) < sampleRate {
			clip = &Clip{
				samples:    make([]float32, recordBufferSeconds*sampleRate),
				sampleRate: sampleRate,
			}
			store.current = clip
		}
		clip.rawVoltage = true
		r.head = 0
		r.state = recArmed
	}

	if !active {
		if r.state != recIdle {
			r.finalize(store.current)
		}
		return false
	}
	if r.state == recIdle {
		// gate held high across a cancel; stay idle until it re-arms
		return false
	}

	clip := store.current
	if clip != nil && len(clip.samples) > 0 {
		clip.samples[r.head] = float32(input)
		r.head++
		if r.head >= len(clip.samples) {
			r.head = 0
			r.state = recWrapped
		}
		// show the whole ring while it is being written
		clip.activeLength = len(clip.samples)
	}
	return true
}

// finalize trims the clip to the captured length on record stop.
func (r *recorder) finalize(clip *Clip) {
	if clip != nil && len(clip.samples) > 0 {
		switch {
		case r.state == recWrapped:
			clip.activeLength = len(clip.samples)
		case r.head > minRecordedSamples:
			clip.activeLength = r.head
		default:
			clip.activeLength = min(clip.sampleRate, len(clip.samples))
		}
	}
	r.state = recIdle
}

// cancel resets the machine without trimming, used when a loaded file
// replaces the clip mid-recording. The trigger state is kept so a gate
// still held high does not immediately re-arm.
func (r *recorder) cancel() {
	r.state = recIdle
	r.head = 0
}

func boolToGate(b bool) float64 {
	if b {
		return 10
	}
	return 0
}

// schmittTrigger reports rising edges with hysteresis: it fires once when
// the input rises past the high threshold and rearms only after the input
// falls below the low threshold.
type schmittTrigger struct {
	high bool
}

const (
	schmittHigh = 5.0
	schmittLow  = 1.0
)

func (t *schmittTrigger) process(v float64) bool {
	if !t.high && v >= schmittHigh {
		t.high = true
		return true
	}
	if t.high && v <= schmittLow {
		t.high = false
	}
	return false
}
