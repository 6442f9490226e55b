package audio

import (
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// line-level input scaled to the engine's ±5V convention
const inputVolts = 5.0

// Sink drives the engine from a portaudio stream. It prefers a duplex
// stream (one input channel for live recording, stereo output); when no
// input device is available it falls back to output only and recording
// captures silence.
type Sink struct {
	engine *Engine
	stream *portaudio.Stream

	sizeCV     *atomic.Value
	densityCV  *atomic.Value
	shapeCV    *atomic.Value
	positionCV *atomic.Value
	pitchCV    *atomic.Value
	record     *atomic.Value
}

func NewSink(engine *Engine, sampleRate, bufferSize int) (*Sink, error) {
	props := engine.Props()
	s := &Sink{
		engine:     engine,
		sizeCV:     props.MustRegister("cv.size", setFloat64(-10, 10), 0.0),
		densityCV:  props.MustRegister("cv.density", setFloat64(-10, 10), 0.0),
		shapeCV:    props.MustRegister("cv.shape", setFloat64(-10, 10), 0.0),
		positionCV: props.MustRegister("cv.position", setFloat64(-10, 10), 0.0),
		pitchCV:    props.MustRegister("cv.pitch", setFloat64(-10, 10), 0.0),
		record:     props.MustRegister("record", setFloat64(0, 10), 0.0),
	}

	stream, err := portaudio.OpenDefaultStream(1, 2, float64(sampleRate), bufferSize, s.processDuplex)
	if err != nil {
		stream, err = portaudio.OpenDefaultStream(0, 2, float64(sampleRate), bufferSize, s.processOutput)
		if err != nil {
			return nil, err
		}
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) Start() error { return s.stream.Start() }

func (s *Sink) Stop() error {
	return s.stream.Close()
}

// controlFrame snapshots the CV holds and record gate once per buffer; the
// knob values are read per frame by the parameter stage.
func (s *Sink) controlFrame() Frame {
	return Frame{
		Record:     s.record.Load().(float64),
		SizeCV:     s.sizeCV.Load().(float64),
		DensityCV:  s.densityCV.Load().(float64),
		ShapeCV:    s.shapeCV.Load().(float64),
		PositionCV: s.positionCV.Load().(float64),
		PitchCV:    s.pitchCV.Load().(float64),
	}
}

func (s *Sink) processDuplex(in, out [][]float32) {
	frame := s.controlFrame()
	for i := range out[0] {
		frame.Input = float64(in[0][i]) * inputVolts
		v := s.engine.ProcessFrame(frame)
		sample := v / outputVolts
		out[0][i] = sample
		out[1][i] = sample
	}
	s.engine.PublishView()
}

func (s *Sink) processOutput(out [][]float32) {
	frame := s.controlFrame()
	for i := range out[0] {
		v := s.engine.ProcessFrame(frame)
		sample := v / outputVolts
		out[0][i] = sample
		out[1][i] = sample
	}
	s.engine.PublishView()
}
