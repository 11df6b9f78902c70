// Package spawn walks the beat grid and decides, per tick and per track,
// whether a bit is placed. It owns the per-track fold state (persisted gain
// and inherited spawn probability) and resolves each placement's gain and
// fade envelope, so a track's walk is a pure function of (sections, grid,
// pool, seed).
package spawn

import (
	"math/rand/v2"

	"github.com/cbegin/collage-go/internal/audio"
	"github.com/cbegin/collage-go/internal/fx"
	"github.com/cbegin/collage-go/internal/grid"
	"github.com/cbegin/collage-go/internal/pattern"
	"github.com/cbegin/collage-go/internal/pool"
)

// Fade lengths are a property of the placed bit, not the symbol: short bits
// get short fades. Both are clamped so a fade never exceeds half the audio.
const (
	fadeShortMS     = 100.0
	fadeLongMS      = 300.0
	fadeThresholdMS = 1000.0
)

// Placement is one scheduled bit instance. Immutable once created; overlaps
// on a track are allowed and sum at render time.
type Placement struct {
	Track     int
	StartMS   float64
	Bit       *pool.Bit
	Frames    [][2]float64
	GainDB    float64
	FadeInMS  float64
	FadeOutMS float64
	Sym       pattern.Symbol
	FXSkipped []string
}

// DurMS is the duration the placement occupies on the timeline, after any
// effects have run.
func (p Placement) DurMS(sampleRate int) float64 {
	return audio.FramesToMS(len(p.Frames), sampleRate)
}

// trackState is the per-track fold carried across sections: the persisted
// gain level and the last non-ramp spawn probability, which C/D inherit.
type trackState struct {
	gainDB   float64
	lastProb float64
}

func newTrackState() trackState {
	return trackState{gainDB: 0, lastProb: pattern.ProbMedium}
}

// Scheduler drives the spawn walk for one collage run. It is read-only
// after construction and safe to share across per-track goroutines.
type Scheduler struct {
	pool       *pool.Pool
	grid       *grid.Grid
	chain      *fx.Chain // nil disables effects
	sampleRate int
}

// New creates a scheduler. Pass a nil chain to render placements dry.
func New(p *pool.Pool, g *grid.Grid, chain *fx.Chain, sampleRate int) *Scheduler {
	return &Scheduler{pool: p, grid: g, chain: chain, sampleRate: sampleRate}
}

// WalkTrack runs the full section fold for one track and returns its
// placements in chronological order. rng must be private to the track;
// identical seeds reproduce identical walks.
func (s *Scheduler) WalkTrack(track int, sections []pattern.Section, rng *rand.Rand) []Placement {
	state := newTrackState()
	var placements []Placement
	for _, sec := range sections {
		if !sec.Sym.Active(track) {
			continue
		}
		entry := state
		prob := sectionProbability(sec.Sym, entry)
		for _, tick := range s.grid.TicksIn(sec) {
			if rng.Float64() >= prob {
				continue
			}
			placements = append(placements, s.place(track, tick, sec, entry, rng))
		}
		state = exitState(sec.Sym, entry, prob)
	}
	return placements
}

func (s *Scheduler) place(track int, tick float64, sec pattern.Section, entry trackState, rng *rand.Rand) Placement {
	bit := s.pool.Choose(rng)
	fadeIn, fadeOut := fadesFor(bit.DurMS)
	p := Placement{
		Track:     track,
		StartMS:   tick,
		Bit:       bit,
		Frames:    bit.Frames,
		GainDB:    resolveGain(sec, tick, entry),
		FadeInMS:  fadeIn,
		FadeOutMS: fadeOut,
		Sym:       sec.Sym,
	}
	if s.chain != nil {
		p.Frames, p.FXSkipped = s.chain.Apply(bit.Frames, s.sampleRate, rng)
	}
	return p
}

// sectionProbability returns the spawn probability governing a section:
// the symbol's own, or for C/D the one inherited from the last non-ramp
// symbol the track participated in.
func sectionProbability(sym pattern.Symbol, state trackState) float64 {
	if p, ok := sym.Probability(); ok {
		return p
	}
	return state.lastProb
}

// resolveGain computes the gain for a placement at tick within sec. Ramps
// interpolate linearly from the track's entry gain to the ramp target over
// the section; S overrides with its fixed level; everything else plays at
// the symbol's reference level.
func resolveGain(sec pattern.Section, tick float64, entry trackState) float64 {
	if sec.Sym == pattern.Sparse {
		return pattern.GainSparseDB
	}
	if target, ok := sec.Sym.RampTarget(); ok {
		frac := (tick - float64(sec.StartMS)) / float64(sec.DurMS)
		return entry.gainDB + (target-entry.gainDB)*frac
	}
	level, _ := sec.Sym.Level()
	return level
}

// exitState folds one section into the track state. Level symbols persist
// their reference level, ramps settle on their target, and S leaves the
// gain untouched. The inherited probability tracks every non-ramp symbol,
// S included.
func exitState(sym pattern.Symbol, entry trackState, prob float64) trackState {
	out := entry
	if level, ok := sym.Level(); ok {
		out.gainDB = level
	}
	if target, ok := sym.RampTarget(); ok {
		out.gainDB = target
	}
	if !sym.Ramp() {
		out.lastProb = prob
	}
	return out
}

func fadesFor(durMS float64) (in, out float64) {
	f := fadeShortMS
	if durMS > fadeThresholdMS {
		f = fadeLongMS
	}
	if half := durMS / 2; f > half {
		f = half
	}
	return f, f
}
