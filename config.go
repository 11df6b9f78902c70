package collage

import (
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/cbegin/collage-go/internal/errkind"
	"github.com/cbegin/collage-go/internal/grid"
	"github.com/cbegin/collage-go/internal/pattern"
)

const (
	DefaultTrackCount = 10
	DefaultDurationMS = 30000
)

// Config is the configuration surface of one composition run.
//
// The engine is deterministic for a given Config: Seed feeds one PCG stream
// per track. Callers wanting varied output supply a varied seed; the CLI
// uses the wall clock when no --seed is given.
type Config struct {
	// Pattern is the section script, one symbol per section.
	Pattern string
	// BPM sets the beat grid; one spawn decision per beat per active track.
	BPM float64
	// TrackCount is the number of parallel tracks.
	TrackCount int
	// DurationMS is the collage length in milliseconds.
	DurationMS int
	// ApplyFX runs each placement through the effect chain.
	ApplyFX bool
	// EmitLog collects placement records for the diagnostic log.
	EmitLog bool
	// HumBed lays a 60 Hz hum under the master mix.
	HumBed bool
	// Seed is the root of all randomness in the run.
	Seed uint64
}

// DefaultConfig returns the documented defaults. Pattern and BPM have no
// usable zero values and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		TrackCount: DefaultTrackCount,
		DurationMS: DefaultDurationMS,
	}
}

// Validate rejects unusable configurations. It runs before any rendering,
// so a failed run writes nothing.
func (c Config) Validate() error {
	if err := pattern.Validate(c.Pattern); err != nil {
		return err
	}
	if _, err := grid.New(c.BPM); err != nil {
		return err
	}
	if c.TrackCount < 1 {
		return fault.New(fmt.Sprintf("track count %d", c.TrackCount),
			ftag.With(errkind.InvalidConfig),
			fmsg.WithDesc("track_count must be at least 1",
				"A collage needs at least one track; the default is 10."))
	}
	if c.DurationMS <= 0 {
		return fault.New(fmt.Sprintf("duration %dms", c.DurationMS),
			ftag.With(errkind.InvalidConfig),
			fmsg.WithDesc("duration_ms must be positive",
				"The default collage length is 30000ms."))
	}
	return nil
}
