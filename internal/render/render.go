// Package render turns placement lists into audio. A track buffer is the
// sample-wise sum of its placements, each shaped by its fade envelope and
// gain; the master is the sum of all tracks. No clipping control is applied
// at either stage: headroom is the caller's responsibility via track count
// and gain restraint, and an overdriven master is accepted, not corrected.
package render

import (
	"github.com/cbegin/collage-go/internal/audio"
	"github.com/cbegin/collage-go/internal/spawn"
)

// Track renders one track's placements into a silence-initialized buffer of
// totalFrames. Overlapping placements sum; audio past the buffer end is
// truncated.
func Track(placements []spawn.Placement, totalFrames, sampleRate int) [][2]float64 {
	buf := make([][2]float64, totalFrames)
	for _, p := range placements {
		addPlacement(buf, p, sampleRate)
	}
	return buf
}

func addPlacement(buf [][2]float64, p spawn.Placement, sampleRate int) {
	n := len(p.Frames)
	if n == 0 {
		return
	}
	start := audio.MSToFrames(p.StartMS, sampleRate)
	gain := audio.DBToGain(p.GainDB)
	fadeIn := clampFade(audio.MSToFrames(p.FadeInMS, sampleRate), n)
	fadeOut := clampFade(audio.MSToFrames(p.FadeOutMS, sampleRate), n)
	for i := 0; i < n; i++ {
		idx := start + i
		if idx < 0 {
			continue
		}
		if idx >= len(buf) {
			break
		}
		g := gain * envelope(i, n, fadeIn, fadeOut)
		buf[idx][0] += p.Frames[i][0] * g
		buf[idx][1] += p.Frames[i][1] * g
	}
}

// clampFade keeps a fade within half the placed audio, covering the case
// where a stretch shortened the frames after the fade was derived from the
// source bit.
func clampFade(fade, n int) int {
	if half := n / 2; fade > half {
		return half
	}
	return fade
}

// envelope is the linear fade factor for frame i of n.
func envelope(i, n, fadeIn, fadeOut int) float64 {
	g := 1.0
	if fadeIn > 0 && i < fadeIn {
		g *= float64(i) / float64(fadeIn)
	}
	if tail := n - 1 - i; fadeOut > 0 && tail < fadeOut {
		g *= float64(tail) / float64(fadeOut)
	}
	return g
}

// Master sums the track buffers into a fresh buffer of totalFrames.
func Master(tracks [][][2]float64, totalFrames int) [][2]float64 {
	master := make([][2]float64, totalFrames)
	for _, tr := range tracks {
		MixInto(master, tr)
	}
	return master
}

// MixInto adds src into dst sample-wise, bounded by the shorter of the two.
func MixInto(dst, src [][2]float64) {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i][0] += src[i][0]
		dst[i][1] += src[i][1]
	}
}
