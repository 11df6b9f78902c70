// Package grid derives the beat grid from a tempo. One beat lasts 60000/BPM
// milliseconds; every section is sliced into ticks at beat multiples from the
// section start, and a trailing remainder shorter than a beat is discarded.
package grid

import (
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/cbegin/collage-go/internal/errkind"
	"github.com/cbegin/collage-go/internal/pattern"
)

// Grid is a beat grid for a fixed tempo.
type Grid struct {
	BPM    float64
	BeatMS float64
}

// New validates the tempo and returns its grid.
func New(bpm float64) (*Grid, error) {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return nil, fault.New(fmt.Sprintf("invalid tempo %v bpm", bpm),
			ftag.With(errkind.InvalidTempo),
			fmsg.WithDesc("tempo must be a positive number of beats per minute",
				"Pass a BPM greater than zero, e.g. 120."))
	}
	return &Grid{BPM: bpm, BeatMS: 60000.0 / bpm}, nil
}

// TicksIn returns the tick times, in milliseconds, falling inside the
// section's half-open interval [start, end). The section start itself is
// always a tick; no tick is emitted at or beyond the section end.
func (g *Grid) TicksIn(sec pattern.Section) []float64 {
	end := float64(sec.EndMS())
	ticks := make([]float64, 0, int(float64(sec.DurMS)/g.BeatMS)+1)
	for i := 0; ; i++ {
		t := float64(sec.StartMS) + float64(i)*g.BeatMS
		if t >= end {
			break
		}
		ticks = append(ticks, t)
	}
	return ticks
}
