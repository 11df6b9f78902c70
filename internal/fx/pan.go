package fx

import (
	"math"
	"math/rand/v2"
)

// Pan places the audio at a randomized stereo position.
type Pan struct {
	Min float64
	Max float64
}

// NewPan returns the pan stage covering the full stereo field.
func NewPan() *Pan {
	return &Pan{Min: PanMin, Max: PanMax}
}

func (*Pan) Name() string { return "pan" }

func (p *Pan) Apply(frames [][2]float64, sampleRate int, rng *rand.Rand) ([][2]float64, error) {
	pos := p.Min + rng.Float64()*(p.Max-p.Min)
	return PanFrames(frames, pos), nil
}

// PanFrames applies constant-power panning at pos in [-1, 1]: -1 is hard
// left, 0 keeps the center at unity gain, +1 is hard right. The panned-to
// side rises toward +3 dB as the other falls to silence.
func PanFrames(frames [][2]float64, pos float64) [][2]float64 {
	theta := (pos + 1) * math.Pi / 4
	lg := math.Cos(theta) * math.Sqrt2
	rg := math.Sin(theta) * math.Sqrt2
	out := make([][2]float64, len(frames))
	for i, f := range frames {
		out[i][0] = f[0] * lg
		out[i][1] = f[1] * rg
	}
	return out
}
