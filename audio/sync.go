package audio

import "fmt"

// Musical divisions a synced time parameter can snap to, in bars. A bar is
// four beats at the current bpm.
var divisions = [8]float64{1.0 / 32, 1.0 / 16, 1.0 / 8, 1.0 / 4, 1.0 / 2, 1, 2, 4}

var divisionNames = [8]string{"1/32", "1/16", "1/8", "1/4", "1/2", "1", "2", "4"}

const beatsPerBar = 4.0

// divisionIndex maps a normalized knob value onto a division slot. Density
// uses the inverted mapping (more knob means a shorter division, i.e. more
// events per second); size uses the direct one. The asymmetry matches the
// hardware mapping existing patches rely on.
func divisionIndex(norm float64, invert bool) int {
	i := int(norm * float64(len(divisions)))
	if i >= len(divisions) {
		i = len(divisions) - 1
	}
	if i < 0 {
		i = 0
	}
	if invert {
		i = len(divisions) - 1 - i
	}
	return i
}

// divisionSeconds returns the length of a division in seconds at bpm.
func divisionSeconds(index int, bpm float64) float64 {
	secondsPerBeat := 60.0 / bpm
	return divisions[index] * beatsPerBar * secondsPerBeat
}

// syncedPeriod quantizes a normalized time parameter to a musical division
// of bpm.
func syncedPeriod(norm float64, bpm float64, invert bool) float64 {
	return divisionSeconds(divisionIndex(norm, invert), bpm)
}

// FormatDensity renders the density parameter for display: a rate in Hz
// when free-running, a bar division when synced.
func FormatDensity(knobHz float64, synced bool) string {
	if !synced {
		return fmt.Sprintf("%.1f Hz", knobHz)
	}
	norm := rescale(knobHz, minDensityHz, maxDensityHz, 0, 1)
	return divisionNames[divisionIndex(norm, true)] + " bar"
}

// FormatSize renders the size parameter for display: seconds when
// free-running, a bar division when synced.
func FormatSize(knobSec float64, synced bool) string {
	if !synced {
		return fmt.Sprintf("%.2f s", knobSec)
	}
	norm := rescale(knobSec, minSizeSec, maxSizeSec, 0, 1)
	return divisionNames[divisionIndex(norm, false)] + " bar"
}
