package fx

import (
	"math/rand/v2"

	"github.com/cbegin/collage-go/internal/audio"
)

// GainTrim applies a final randomized level offset so repeated bits do not
// land at identical loudness.
type GainTrim struct {
	MinDB float64
	MaxDB float64
}

// NewGainTrim returns the trim stage with the default +-3 dB range.
func NewGainTrim() *GainTrim {
	return &GainTrim{MinDB: TrimMinDB, MaxDB: TrimMaxDB}
}

func (*GainTrim) Name() string { return "trim" }

func (g *GainTrim) Apply(frames [][2]float64, sampleRate int, rng *rand.Rand) ([][2]float64, error) {
	db := g.MinDB + rng.Float64()*(g.MaxDB-g.MinDB)
	return Scale(frames, db), nil
}

// Scale returns a copy of frames with a flat gain of db applied.
func Scale(frames [][2]float64, db float64) [][2]float64 {
	gain := audio.DBToGain(db)
	out := make([][2]float64, len(frames))
	for i, f := range frames {
		out[i][0] = f[0] * gain
		out[i][1] = f[1] * gain
	}
	return out
}
