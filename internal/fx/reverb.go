package fx

import (
	"fmt"
	"math/rand/v2"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"

	"github.com/cbegin/collage-go/internal/audio"
	"github.com/cbegin/collage-go/internal/errkind"
)

// Reverb overlays a handful of early-reflection taps of the dry signal,
// each later tap attenuated further. A room hint, not a full Schroeder
// tail.
type Reverb struct {
	TapsMS []float64
	Decay  float64
}

// NewReverb returns the reverb stage with the default tap set.
func NewReverb() *Reverb {
	return &Reverb{TapsMS: ReverbTapsMS, Decay: ReverbDecay}
}

func (*Reverb) Name() string { return "reverb" }

func (r *Reverb) Apply(frames [][2]float64, sampleRate int, rng *rand.Rand) ([][2]float64, error) {
	if sampleRate <= 0 {
		return nil, fault.New(fmt.Sprintf("reverb needs a positive sample rate, got %d", sampleRate),
			ftag.With(errkind.FxTransform))
	}
	return ReverbTail(frames, sampleRate, r.TapsMS, r.Decay), nil
}

// ReverbTail sums the dry signal back in at each tap offset. Tap i (1-based)
// is attenuated by i*(1-decay)*10 dB, so the default taps sit at -9, -18
// and -27 dB. Tails past the original length are dropped.
func ReverbTail(frames [][2]float64, sampleRate int, tapsMS []float64, decay float64) [][2]float64 {
	out := copyFrames(frames)
	for ti, ms := range tapsMS {
		delay := audio.MSToFrames(ms, sampleRate)
		gain := audio.DBToGain(-float64(ti+1) * (1 - decay) * 10)
		for i := delay; i < len(out); i++ {
			out[i][0] += frames[i-delay][0] * gain
			out[i][1] += frames[i-delay][1] * gain
		}
	}
	return out
}
