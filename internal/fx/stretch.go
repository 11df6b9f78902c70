package fx

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"

	"github.com/cbegin/collage-go/internal/errkind"
)

// TimeStretch resamples a placement by a small randomized ratio. Ratios
// above 1 shorten the audio, below 1 lengthen it; pitch moves with the
// ratio, tape style.
type TimeStretch struct {
	Prob float64
	Min  float64
	Max  float64
}

// NewTimeStretch returns the stretch stage with the default jitter range.
func NewTimeStretch() *TimeStretch {
	return &TimeStretch{Prob: StretchProb, Min: StretchMin, Max: StretchMax}
}

func (*TimeStretch) Name() string { return "stretch" }

func (s *TimeStretch) Apply(frames [][2]float64, sampleRate int, rng *rand.Rand) ([][2]float64, error) {
	if len(frames) == 0 {
		return frames, nil
	}
	if rng.Float64() >= s.Prob {
		return frames, nil
	}
	ratio := s.Min + rng.Float64()*(s.Max-s.Min)
	return Resample(frames, ratio)
}

// Resample stretches frames by ratio using linear interpolation between
// source frames. The output has len(frames)/ratio frames.
func Resample(frames [][2]float64, ratio float64) ([][2]float64, error) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, fault.New(fmt.Sprintf("unusable stretch ratio %v", ratio),
			ftag.With(errkind.FxTransform))
	}
	n := int(float64(len(frames)) / ratio)
	if n < 1 {
		return nil, fault.New(fmt.Sprintf("stretch ratio %v leaves no samples", ratio),
			ftag.With(errkind.FxTransform))
	}
	out := make([][2]float64, n)
	last := len(frames) - 1
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = frames[last]
			continue
		}
		frac := pos - float64(j)
		a, b := frames[j], frames[j+1]
		out[i][0] = a[0] + (b[0]-a[0])*frac
		out[i][1] = a[1] + (b[1]-a[1])*frac
	}
	return out, nil
}
