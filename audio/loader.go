package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	riff "github.com/youpy/go-riff"
	wav "github.com/youpy/go-wav"
)

// LoadFile decodes an audio file and hands the result to the engine. It
// runs on the caller's goroutine and may allocate and block freely; the
// audio thread observes the finished clip on its next frame. On a decode
// error the loading flag is cleared so the engine does not stay silent.
func (e *Engine) LoadFile(path string) error {
	e.BeginLoad()
	samples, rate, err := DecodeFile(path)
	if err != nil {
		e.AbortLoad()
		return err
	}
	e.SetClip(samples, rate)
	return nil
}

// DecodeFile reads a WAV, MP3 or OGG Vorbis file and returns its samples
// downmixed to mono, plus the source sample rate.
func DecodeFile(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var (
		interleaved []float32
		channels    int
		rate        int
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		interleaved, channels, rate, err = decodeWav(f)
	case ".mp3":
		interleaved, channels, rate, err = decodeMp3(f)
	case ".ogg":
		interleaved, channels, rate, err = decodeOgg(f)
	default:
		return nil, 0, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return downmix(interleaved, channels), rate, nil
}

func decodeWav(f riff.RIFFReader) ([]float32, int, int, error) {
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, 0, 0, err
	}
	channels := int(format.NumChannels)

	var buf []float32
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, err
		}
		for _, sample := range samples {
			for ch := 0; ch < channels; ch++ {
				buf = append(buf, float32(r.FloatValue(sample, uint(ch))))
			}
		}
	}
	return buf, channels, int(format.SampleRate), nil
}

// decodeMp3 reads the decoder's 16-bit little-endian stereo stream.
func decodeMp3(f io.Reader) ([]float32, int, int, error) {
	d, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, 0, err
	}

	var buf []float32
	raw := make([]byte, 8192)
	for {
		n, err := d.Read(raw)
		for i := 0; i+1 < n; i += 2 {
			v := int16(binary.LittleEndian.Uint16(raw[i:]))
			buf = append(buf, float32(v)/32768.0)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, err
		}
	}
	return buf, 2, d.SampleRate(), nil
}

func decodeOgg(f io.Reader) ([]float32, int, int, error) {
	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, 0, 0, err
	}
	return data, format.Channels, format.SampleRate, nil
}

// downmix averages interleaved channels into a mono buffer. A mono source
// passes through untouched.
func downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float32, frames)
	scale := 1.0 / float32(channels)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum * scale
	}
	return mono
}
