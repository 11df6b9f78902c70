// Package fx transforms placement audio before rendering. Unlike a streaming
// effect rack, every effect here is a whole-buffer transform: it receives the
// placement's frames and returns a fresh slice (possibly of different length),
// never mutating its input, so untouched placements can keep referencing the
// shared bit buffers.
//
// A failing effect degrades to a no-op for that placement only; the chain
// reports which effects were skipped and the run continues.
package fx

import (
	"math/rand/v2"
)

// Default effect parameters.
const (
	StretchProb = 0.3
	StretchMin  = 0.8
	StretchMax  = 1.2

	EchoProb    = 0.3
	EchoDelayMS = 500.0
	EchoGainDB  = -10.0

	PanMin = -1.0
	PanMax = 1.0

	TrimMinDB = -3.0
	TrimMaxDB = 3.0

	ReverbDecay = 0.1
)

// ReverbTapsMS are the early-reflection tap offsets.
var ReverbTapsMS = []float64{120, 150, 170}

// Effect is one transform stage. Randomized parameters are drawn from rng so
// per-track streams keep runs reproducible.
type Effect interface {
	Name() string
	Apply(frames [][2]float64, sampleRate int, rng *rand.Rand) ([][2]float64, error)
}

// Chain applies effects in order.
type Chain struct {
	effects []Effect
}

// NewChain creates a chain from the given effects.
func NewChain(effects ...Effect) *Chain {
	return &Chain{effects: effects}
}

// Default returns the chain in its fixed order: time-stretch, pan, echo,
// reverb, gain trim.
func Default() *Chain {
	return NewChain(NewTimeStretch(), NewPan(), NewEcho(), NewReverb(), NewGainTrim())
}

// Apply runs every effect over frames. An effect returning an error is
// skipped (its input passes through unchanged) and its name is collected;
// the chain itself never fails.
func (c *Chain) Apply(frames [][2]float64, sampleRate int, rng *rand.Rand) ([][2]float64, []string) {
	var skipped []string
	for _, e := range c.effects {
		out, err := e.Apply(frames, sampleRate, rng)
		if err != nil {
			skipped = append(skipped, e.Name())
			continue
		}
		frames = out
	}
	return frames, skipped
}

func copyFrames(frames [][2]float64) [][2]float64 {
	out := make([][2]float64, len(frames))
	copy(out, frames)
	return out
}
