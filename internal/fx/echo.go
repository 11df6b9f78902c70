package fx

import (
	"fmt"
	"math/rand/v2"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"

	"github.com/cbegin/collage-go/internal/audio"
	"github.com/cbegin/collage-go/internal/errkind"
)

// Echo sums one delayed, attenuated copy of the audio into itself.
type Echo struct {
	Prob    float64
	DelayMS float64
	GainDB  float64
}

// NewEcho returns the echo stage with the default single 500ms tap.
func NewEcho() *Echo {
	return &Echo{Prob: EchoProb, DelayMS: EchoDelayMS, GainDB: EchoGainDB}
}

func (*Echo) Name() string { return "echo" }

func (e *Echo) Apply(frames [][2]float64, sampleRate int, rng *rand.Rand) ([][2]float64, error) {
	if sampleRate <= 0 {
		return nil, fault.New(fmt.Sprintf("echo needs a positive sample rate, got %d", sampleRate),
			ftag.With(errkind.FxTransform))
	}
	if rng.Float64() >= e.Prob {
		return frames, nil
	}
	return EchoTap(frames, sampleRate, e.DelayMS, e.GainDB), nil
}

// EchoTap adds frames shifted by delayMS at gainDB into a copy of frames.
// The tail past the original length is dropped, so the placement's footprint
// on the timeline does not grow.
func EchoTap(frames [][2]float64, sampleRate int, delayMS, gainDB float64) [][2]float64 {
	out := copyFrames(frames)
	delay := audio.MSToFrames(delayMS, sampleRate)
	gain := audio.DBToGain(gainDB)
	for i := delay; i < len(out); i++ {
		out[i][0] += frames[i-delay][0] * gain
		out[i][1] += frames[i-delay][1] * gain
	}
	return out
}
