package audio

import (
	"math"
	"testing"
)

func TestEnvelopeShapes(t *testing.T) {
	env := func(age, shape float64) float64 {
		g := grain{age: age, shape: shape}
		return g.envelope()
	}

	// square window is full amplitude over the whole life
	for _, age := range []float64{0, 0.25, 0.5, 0.99} {
		if got := env(age, 0); got != 1.0 {
			t.Errorf("square envelope at age %v: want 1, got %v", age, got)
		}
	}

	// triangle peaks mid-life and fades to zero at the ends
	if got := env(0, 0.5); got != 0 {
		t.Errorf("triangle envelope at age 0: want 0, got %v", got)
	}
	if got := env(0.5, 0.5); got != 1 {
		t.Errorf("triangle envelope at age 0.5: want 1, got %v", got)
	}
	if got := env(1, 0.5); got != 0 {
		t.Errorf("triangle envelope at age 1: want 0, got %v", got)
	}

	// raised cosine starts and ends at zero, peaks mid-life
	if got := env(0, 1); math.Abs(got) > 1e-9 {
		t.Errorf("sine envelope at age 0: want 0, got %v", got)
	}
	if got := env(0.5, 1); math.Abs(got-1) > 1e-9 {
		t.Errorf("sine envelope at age 0.5: want 1, got %v", got)
	}
	if got := env(0.999999, 1); math.Abs(got) > 1e-4 {
		t.Errorf("sine envelope near age 1: want ~0, got %v", got)
	}
}

func TestEnvelopeContinuousInShape(t *testing.T) {
	// sweeping the shape parameter must not step: check continuity across
	// the triangle midpoint where the blend switches formulas
	for _, age := range []float64{0.1, 0.3, 0.5, 0.8} {
		lo := grain{age: age, shape: 0.5 - 1e-9}
		hi := grain{age: age, shape: 0.5 + 1e-9}
		if diff := math.Abs(lo.envelope() - hi.envelope()); diff > 1e-6 {
			t.Errorf("envelope discontinuous at shape 0.5, age %v: diff %v", age, diff)
		}
	}
}

func TestAdvanceWraps(t *testing.T) {
	g := grain{pos: 19, speed: 2, delta: 0.1}
	g.advance(10, 20)
	if want := 11.0; g.pos != want {
		t.Errorf("wrapped position: want %v, got %v", want, g.pos)
	}
	if want := 0.1; g.age != want {
		t.Errorf("age after advance: want %v, got %v", want, g.age)
	}
}

func TestAdvanceDegenerateLoop(t *testing.T) {
	g := grain{pos: 10, speed: 5, delta: 0.1}
	g.advance(10, 10)
	if want := 10.0; g.pos != want {
		t.Errorf("degenerate loop should pin at start: want %v, got %v", want, g.pos)
	}
}

func TestAdvanceNegativeSpeedClamps(t *testing.T) {
	g := grain{pos: 11, speed: -5, delta: 0.1}
	g.advance(10, 20)
	if want := 10.0; g.pos != want {
		t.Errorf("negative speed should clamp at loop start: want %v, got %v", want, g.pos)
	}
}

func TestAdvanceConfinement(t *testing.T) {
	const loopStart, loopEnd = 100.0, 350.0
	for _, speed := range []float64{0.25, 1, 3.7, 17} {
		g := grain{pos: 200, speed: speed, delta: 1e-6}
		for i := 0; i < 10_000; i++ {
			g.advance(loopStart, loopEnd)
			if g.pos < loopStart || g.pos > loopEnd {
				t.Fatalf("speed %v: position %v escaped loop [%v, %v]", speed, g.pos, loopStart, loopEnd)
			}
		}
	}
}

func TestGrainLifetime(t *testing.T) {
	g := grain{delta: 0.5}
	if !g.alive() {
		t.Error("new grain should be alive")
	}
	g.advance(0, 100)
	g.advance(0, 100)
	if g.alive() {
		t.Error("grain should die once age reaches 1")
	}
}
