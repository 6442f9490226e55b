package audio

import (
	"math"
	"testing"
)

func sineClip(freq float64, seconds float64, sampleRate int) []float32 {
	n := int(seconds * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate)))
	}
	return samples
}

func TestSilenceWithoutClip(t *testing.T) {
	engine := NewEngine(NewProps(), 44100)
	for i := 0; i < 1000; i++ {
		if out := engine.ProcessFrame(Frame{}); out != 0 {
			t.Fatalf("frame %d: want silence, got %v", i, out)
		}
	}
}

func TestSilenceWhileLoading(t *testing.T) {
	engine := NewEngine(NewProps(), 44100)
	engine.SetClip(sineClip(440, 1, 44100), 44100)

	engine.BeginLoad()
	for i := 0; i < 1000; i++ {
		if out := engine.ProcessFrame(Frame{}); out != 0 {
			t.Fatalf("frame %d: want silence while loading, got %v", i, out)
		}
	}

	// an aborted load must not leave the engine silent
	engine.AbortLoad()
	var sum float64
	for i := 0; i < 44100; i++ {
		out := engine.ProcessFrame(Frame{})
		sum += float64(out) * float64(out)
	}
	if sum == 0 {
		t.Error("expected audible output after the load was aborted")
	}
}

func TestEngineScenario(t *testing.T) {
	props := NewProps()
	engine := NewEngine(props, 44100)
	engine.SetClip(sineClip(440, 1, 44100), 44100)

	for key, val := range map[string]float64{
		"density":  20,
		"size":     0.05,
		"position": 0,
		"shape":    0,
	} {
		if err := props.Set(key, val); err != nil {
			t.Fatal(err)
		}
	}

	var sum, grainFrames float64
	for i := 0; i < 44100; i++ {
		out := float64(engine.ProcessFrame(Frame{}))
		if math.Abs(out) > 5.0 {
			t.Fatalf("frame %d: output %v outside the ±5V ceiling", i, out)
		}
		if n := engine.pool.size(); n > maxGrains {
			t.Fatalf("frame %d: pool grew past capacity: %v", i, n)
		}
		grainFrames += float64(engine.pool.size())
		sum += out * out
	}
	rms := math.Sqrt(sum / 44100)
	if rms == 0 {
		t.Error("expected non-zero output")
	}

	// density 20Hz × size 0.05s keeps about one grain in flight on average
	if avg := grainFrames / 44100; avg < 0.5 || avg > 2 {
		t.Errorf("expected about one grain in flight, got %v", avg)
	}
}

func TestEngineView(t *testing.T) {
	props := NewProps()
	engine := NewEngine(props, 44100)

	view := engine.CurrentView()
	if view.Clip != nil || view.NumGrains != 0 {
		t.Error("fresh engine should publish an empty view")
	}

	engine.SetClip(sineClip(440, 1, 44100), 44100)
	if err := props.Set("density", 50.0); err != nil {
		t.Fatal(err)
	}
	if err := props.Set("loop.start", 0.75); err != nil {
		t.Fatal(err)
	}
	if err := props.Set("loop.end", 0.25); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4410; i++ {
		engine.ProcessFrame(Frame{})
	}
	engine.PublishView()

	view = engine.CurrentView()
	if view.Clip == nil {
		t.Fatal("view should expose the current clip")
	}
	if view.NumGrains == 0 {
		t.Error("expected live grains in the view")
	}
	if len(view.GrainPositions()) != view.NumGrains {
		t.Error("grain position count mismatch")
	}
	// the published window is normalized to min/max order
	if view.LoopStart != 0.25 || view.LoopEnd != 0.75 {
		t.Errorf("loop window: got [%v, %v]", view.LoopStart, view.LoopEnd)
	}
}

func TestCompressionStaysBounded(t *testing.T) {
	props := NewProps()
	engine := NewEngine(props, 44100)
	engine.SetClip(sineClip(440, 1, 44100), 44100)

	for key, val := range map[string]float64{
		"density":     100,
		"size":        2,
		"compression": 1,
	} {
		if err := props.Set(key, val); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 44100; i++ {
		if out := engine.ProcessFrame(Frame{}); math.Abs(float64(out)) > 5.0 {
			t.Fatalf("frame %d: output %v outside the ±5V ceiling", i, out)
		}
	}
}
