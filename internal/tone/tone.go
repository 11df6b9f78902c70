// Package tone generates the steady test-signal beds the mixer can lay under
// a collage. The only consumer today is the mains-hum bed.
package tone

import (
	"math"

	"github.com/cbegin/collage-go/internal/audio"
)

// Oscillator is a phase-accumulating sine generator.
type Oscillator struct {
	freqHz float64
	phase  float64
}

// NewOscillator returns a sine oscillator at the given frequency.
func NewOscillator(freqHz float64) *Oscillator {
	return &Oscillator{freqHz: freqHz}
}

// Sample advances the oscillator by one frame and returns the next value
// in [-1, 1].
func (o *Oscillator) Sample(sampleRate float64) float64 {
	v := math.Sin(2 * math.Pi * o.phase)
	o.phase += o.freqHz / sampleRate
	for o.phase >= 1.0 {
		o.phase -= 1.0
	}
	return v
}

// Reset zeros the oscillator phase.
func (o *Oscillator) Reset() { o.phase = 0 }

// Hum renders a mains-style hum bed: a sine at freqHz attenuated by gainDB,
// spanning frames stereo frames.
func Hum(freqHz, gainDB float64, frames, sampleRate int) [][2]float64 {
	osc := NewOscillator(freqHz)
	gain := audio.DBToGain(gainDB)
	out := make([][2]float64, frames)
	for i := range out {
		v := osc.Sample(float64(sampleRate)) * gain
		out[i] = [2]float64{v, v}
	}
	return out
}
