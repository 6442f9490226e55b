package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mrdg/grain/audio"
)

const displayWidth = 72

var blocks = []rune("▁▂▃▄▅▆▇█")

// renderView draws the current sample buffer as amplitude columns with the
// loop window highlighted, plus a marker row for live grains and the spawn
// playhead.
func renderView(v *audio.View, w io.Writer) {
	if v.Loading {
		fmt.Fprintln(w, colorize("LOADING...", colorYellow))
		return
	}
	if v.Recording {
		head := "?"
		if clip := v.Clip; clip != nil && clip.SampleRate() > 0 {
			head = fmt.Sprintf("%.1fs", float64(v.RecHead)/float64(clip.SampleRate()))
		}
		fmt.Fprintln(w, colorize("RECORDING... "+head, colorRed))
		return
	}
	clip := v.Clip
	if clip == nil || clip.ActiveLength() == 0 {
		fmt.Fprintln(w, "no sample loaded — load <file> or rec on")
		return
	}

	samples := clip.Samples()
	length := clip.ActiveLength()
	scale := 1.0
	if clip.RawVoltage() {
		scale = 1.0 / 5.0
	}

	loopStart := int(v.LoopStart * displayWidth)
	loopEnd := int(v.LoopEnd * displayWidth)

	var wave strings.Builder
	perColumn := float64(length) / displayWidth
	for col := 0; col < displayWidth; col++ {
		start := int(float64(col) * perColumn)
		end := int(float64(col+1) * perColumn)
		if end > length {
			end = length
		}
		peak := 0.0
		for i := start; i < end; i++ {
			if a := math.Abs(float64(samples[i])) * scale; a > peak {
				peak = a
			}
		}
		level := int(peak * float64(len(blocks)))
		if level >= len(blocks) {
			level = len(blocks) - 1
		}
		ch := string(blocks[level])
		if col >= loopStart && col < loopEnd {
			ch = colorize(ch, colorGreen)
		}
		wave.WriteString(ch)
	}
	fmt.Fprintln(w, wave.String())

	markers := make([]rune, displayWidth)
	for i := range markers {
		markers[i] = ' '
	}
	for _, pos := range v.GrainPositions() {
		col := int(pos / float64(length) * displayWidth)
		if col >= 0 && col < displayWidth {
			markers[col] = '|'
		}
	}
	spawn := int(v.SpawnPos * (displayWidth - 1))
	if spawn >= 0 && spawn < displayWidth {
		markers[spawn] = '^'
	}
	fmt.Fprintln(w, colorize(string(markers), colorMagenta))

	fmt.Fprintf(w, "%.2fs at %d Hz, %d grains, loop %.2f-%.2f\n",
		float64(length)/float64(clip.SampleRate()), clip.SampleRate(),
		v.NumGrains, v.LoopStart, v.LoopEnd)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
