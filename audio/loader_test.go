package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	wav "github.com/youpy/go-wav"
)

func TestDownmix(t *testing.T) {
	mono := []float32{0.1, 0.2, 0.3}
	if got := downmix(mono, 1); &got[0] != &mono[0] {
		t.Error("mono input should pass through untouched")
	}

	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	want := []float32{0.5, 0.5, 0}
	got := downmix(stereo, 2)
	if len(got) != len(want) {
		t.Fatalf("downmix length: want %v, got %v", len(want), len(got))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("downmix[%d]: want %v, got %v", i, want[i], got[i])
		}
	}

	quad := []float32{1, 1, 0, 0}
	if got := downmix(quad, 4); got[0] != 0.5 {
		t.Errorf("quad downmix: want 0.5, got %v", got[0])
	}
}

func TestDecodeWavFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	// a stereo ramp: left rises, right is the negation
	const n = 64
	samples := make([]wav.Sample, n)
	for i := range samples {
		v := i * 256
		samples[i].Values[0] = v
		samples[i].Values[1] = -v
	}
	w := wav.NewWriter(f, n, 2, 22050, 16)
	if err := w.WriteSamples(samples); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	mono, rate, err := DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := 22050; rate != want {
		t.Errorf("sample rate: want %v, got %v", want, rate)
	}
	if len(mono) != n {
		t.Fatalf("frame count: want %v, got %v", n, len(mono))
	}
	// channels cancel out in the mono mix
	for i, v := range mono {
		if math.Abs(float64(v)) > 1e-4 {
			t.Fatalf("sample %d: want ~0, got %v", i, v)
		}
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	if _, _, err := DecodeFile("clip.flac"); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestLoadFileClearsFlagOnError(t *testing.T) {
	engine := NewEngine(NewProps(), 44100)
	if err := engine.LoadFile("does-not-exist.wav"); err == nil {
		t.Fatal("expected an error")
	}
	if engine.loading.Load() {
		t.Error("loading flag must be cleared after a failed decode")
	}
}
