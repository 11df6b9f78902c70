// Package pool holds the bit catalogue: the immutable set of audio snippets
// the spawn engine places. Bits are loaded once, validated for a uniform
// format, and never mutated afterward; placements reference bit frames and
// copy them only when effects transform the audio.
package pool

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/gopxl/beep"

	"github.com/cbegin/collage-go/internal/audio"
	"github.com/cbegin/collage-go/internal/errkind"
)

// Bit is one placeable audio snippet.
type Bit struct {
	ID     string
	Frames [][2]float64
	DurMS  float64
}

// Pool is the loaded catalogue. All bits share one format.
type Pool struct {
	bits   []Bit
	format beep.Format
}

// New builds a pool from in-memory bits. Every bit is assumed to be in the
// given format; an empty bit set is rejected.
func New(format beep.Format, bits []Bit) (*Pool, error) {
	if len(bits) == 0 {
		return nil, emptyErr("no bits provided")
	}
	return &Pool{bits: bits, format: format}, nil
}

// Load decodes every .wav file in dir, in lexical filename order so bit
// indices are stable across runs. All files must share sample rate and
// channel count.
func Load(dir string) (*Pool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read bits dir: %w", err)
	}
	p := &Pool{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".wav") {
			continue
		}
		frames, format, err := audio.DecodeFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if len(p.bits) == 0 {
			p.format = format
		} else if format.SampleRate != p.format.SampleRate || format.NumChannels != p.format.NumChannels {
			return nil, fault.New(
				fmt.Sprintf("bit %s is %dHz/%dch, pool is %dHz/%dch",
					e.Name(), format.SampleRate, format.NumChannels,
					p.format.SampleRate, p.format.NumChannels),
				ftag.With(errkind.FormatMismatch),
				fmsg.WithDesc("bit pool formats are inconsistent",
					"All bits must share one sample rate and channel count; re-run preprocessing."))
		}
		p.bits = append(p.bits, Bit{
			ID:     e.Name(),
			Frames: frames,
			DurMS:  audio.FramesToMS(len(frames), int(format.SampleRate)),
		})
	}
	if len(p.bits) == 0 {
		return nil, emptyErr("no .wav bits in " + dir)
	}
	return p, nil
}

func emptyErr(msg string) error {
	return fault.New(msg,
		ftag.With(errkind.EmptyPool),
		fmsg.WithDesc("the bit pool is empty",
			"A collage needs source material; point --bits at a directory of .wav snippets."))
}

// Len returns the number of bits.
func (p *Pool) Len() int { return len(p.bits) }

// Format returns the shared bit format.
func (p *Pool) Format() beep.Format { return p.format }

// Bits returns the catalogue in load order. Callers must not mutate it.
func (p *Pool) Bits() []Bit { return p.bits }

// Choose picks one bit uniformly at random, with replacement. Over many
// draws every bit is eventually used.
func (p *Pool) Choose(rng *rand.Rand) *Bit {
	return &p.bits[rng.IntN(len(p.bits))]
}
