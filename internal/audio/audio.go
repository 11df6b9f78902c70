// Package audio bridges rendered frame buffers to the beep library and holds
// the unit conversions the rest of the engine schedules with. Samples are
// beep-convention stereo frames: [][2]float64 in the -1..1 range.
package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// DBToGain converts a decibel value to a linear amplitude factor.
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// MSToFrames converts a time in milliseconds to a frame count at the given
// sample rate, rounding to the nearest frame.
func MSToFrames(ms float64, sampleRate int) int {
	return int(math.Round(ms * float64(sampleRate) / 1000.0))
}

// FramesToMS converts a frame count back to milliseconds.
func FramesToMS(frames int, sampleRate int) float64 {
	return float64(frames) * 1000.0 / float64(sampleRate)
}

// FrameStreamer exposes a frame slice as a beep.Streamer so buffers can be
// handed straight to wav.Encode.
type FrameStreamer struct {
	Frames [][2]float64
	pos    int
}

func (s *FrameStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.Frames) {
		return 0, false
	}
	n := copy(samples, s.Frames[s.pos:])
	s.pos += n
	return n, true
}

func (s *FrameStreamer) Err() error { return nil }

var _ beep.Streamer = (*FrameStreamer)(nil)
