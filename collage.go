// Package collage composes short audio snippets ("bits") into multi-track
// collages. A pattern string scripts the energy of the piece section by
// section; a beat grid derived from the tempo drives per-track spawn
// decisions; placed bits are gain-shaped, optionally effected, summed into
// track buffers and finally mixed down to a master.
//
// The master mix applies no limiting: with hot gain levels or many tracks
// the sum can exceed full scale, and callers are expected to keep the track
// count and levels reasonable rather than rely on downstream correction.
package collage

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/gopxl/beep"

	intaudio "github.com/cbegin/collage-go/internal/audio"
	"github.com/cbegin/collage-go/internal/errkind"
	intfx "github.com/cbegin/collage-go/internal/fx"
	intgrid "github.com/cbegin/collage-go/internal/grid"
	"github.com/cbegin/collage-go/internal/pattern"
	"github.com/cbegin/collage-go/internal/placelog"
	intpool "github.com/cbegin/collage-go/internal/pool"
	"github.com/cbegin/collage-go/internal/render"
	"github.com/cbegin/collage-go/internal/spawn"
	"github.com/cbegin/collage-go/internal/tone"
)

// Hum bed parameters, used when Config.HumBed is set.
const (
	HumFreqHz = 60.0
	HumGainDB = -10.0
)

type Option func(*Engine)

// WithObserver registers a callback for run progress events. Calls are
// serialized but may come from worker goroutines; keep the callback brief.
func WithObserver(fn func(Event)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// Engine runs collage compositions over one bit pool.
type Engine struct {
	cfg      Config
	pool     *intpool.Pool
	observer func(Event)
	mu       sync.Mutex
}

// Result is a finished composition, still in memory. WriteOutputs persists
// it.
type Result struct {
	Tracks  [][][2]float64
	Master  [][2]float64
	Records []placelog.Record // nil unless Config.EmitLog
	Format  beep.Format
}

// New validates the configuration against the pool and returns an engine.
// All fatal conditions (bad pattern, bad tempo, unusable track count or
// duration, empty pool) surface here, before any rendering can start.
func New(p *intpool.Pool, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if p == nil || p.Len() == 0 {
		return nil, fault.New("no bit pool",
			ftag.With(errkind.EmptyPool),
			fmsg.WithDesc("the bit pool is empty",
				"A collage needs source material; load at least one bit."))
	}
	e := &Engine{cfg: cfg, pool: p}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Render runs the composition: one worker per track walks the sections and
// renders its buffer, then the master is mixed as a plain sum. Tracks only
// share read-only state, so identical configs produce identical results
// regardless of scheduling. Cancellation is coarse: a canceled context
// aborts between stages and the partial work is discarded.
func (e *Engine) Render(ctx context.Context) (*Result, error) {
	cfg := e.cfg
	sections, err := pattern.Parse(cfg.Pattern, cfg.DurationMS)
	if err != nil {
		return nil, err
	}
	g, err := intgrid.New(cfg.BPM)
	if err != nil {
		return nil, err
	}
	var chain *intfx.Chain
	if cfg.ApplyFX {
		chain = intfx.Default()
	}
	sampleRate := int(e.pool.Format().SampleRate)
	sched := spawn.New(e.pool, g, chain, sampleRate)
	totalFrames := intaudio.MSToFrames(float64(cfg.DurationMS), sampleRate)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	placements := make([][]spawn.Placement, cfg.TrackCount)
	bufs := make([][][2]float64, cfg.TrackCount)
	var wg sync.WaitGroup
	for t := 0; t < cfg.TrackCount; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(t)))
			placements[t] = sched.WalkTrack(t, sections, rng)
			bufs[t] = render.Track(placements[t], totalFrames, sampleRate)
			e.emit(Event{Kind: EventTrackRendered, Track: t, Placements: len(placements[t])})
		}(t)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	master := render.Master(bufs, totalFrames)
	if cfg.HumBed {
		render.MixInto(master, tone.Hum(HumFreqHz, HumGainDB, totalFrames, sampleRate))
	}
	e.emit(Event{Kind: EventMasterMixed})

	res := &Result{
		Tracks: bufs,
		Master: master,
		Format: beep.Format{
			SampleRate:  beep.SampleRate(sampleRate),
			NumChannels: 2,
			Precision:   2,
		},
	}
	if cfg.EmitLog {
		res.Records = collectRecords(placements, sampleRate)
	}
	return res, nil
}

func (e *Engine) emit(ev Event) {
	if e.observer == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer(ev)
}

// collectRecords flattens per-track placements track-major; each track's
// walk is already chronological, so the result is stable for a given seed.
// The result is non-nil even when nothing spawned: a requested log is
// written with its header either way.
func collectRecords(placements [][]spawn.Placement, sampleRate int) []placelog.Record {
	records := []placelog.Record{}
	for t, pls := range placements {
		for _, p := range pls {
			records = append(records, placelog.Record{
				TickMS:    p.StartMS,
				Track:     t,
				Bit:       p.Bit.ID,
				Symbol:    p.Sym.String(),
				GainDB:    p.GainDB,
				FadeInMS:  p.FadeInMS,
				FadeOutMS: p.FadeOutMS,
				DurMS:     p.DurMS(sampleRate),
				Note:      fxNote(p.FXSkipped),
			})
		}
	}
	return records
}

func fxNote(skipped []string) string {
	if len(skipped) == 0 {
		return ""
	}
	return "skipped:" + strings.Join(skipped, "+")
}
