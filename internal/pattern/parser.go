// Package pattern interprets collage pattern strings. A pattern is a
// non-empty string over {S,L,M,H,C,D,l,m,h}; each character governs one
// section of the collage, and the collage duration is divided equally among
// sections with integer-millisecond sections and any rounding remainder
// absorbed by the final one.
package pattern

import (
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/cbegin/collage-go/internal/errkind"
)

// Validate walks the pattern and rejects the first character outside the
// alphabet. An empty pattern is invalid: it would describe no sections.
func Validate(pat string) error {
	if len(pat) == 0 {
		return fault.New("empty pattern",
			ftag.With(errkind.InvalidPattern),
			fmsg.WithDesc("pattern is empty",
				"Provide at least one section symbol, e.g. \"MHDC\"."))
	}
	for i := 0; i < len(pat); i++ {
		if !Valid(pat[i]) {
			return fault.New(fmt.Sprintf("invalid pattern symbol %q at position %d", pat[i], i),
				ftag.With(errkind.InvalidPattern),
				fmsg.WithDesc("pattern contains an unknown symbol",
					"Valid symbols are S, L, M, H, C, D, l, m, h."))
		}
	}
	return nil
}

// Parse splits totalMS equally across the pattern's symbols. Section starts
// are multiples of the base duration; the final section takes the remainder
// so the durations always sum to exactly totalMS.
func Parse(pat string, totalMS int) ([]Section, error) {
	if err := Validate(pat); err != nil {
		return nil, err
	}
	if totalMS <= 0 {
		return nil, fault.New(fmt.Sprintf("non-positive collage duration %dms", totalMS),
			ftag.With(errkind.InvalidConfig))
	}
	n := len(pat)
	base := totalMS / n
	sections := make([]Section, n)
	for i := 0; i < n; i++ {
		sections[i] = Section{
			Sym:     Symbol(pat[i]),
			StartMS: base * i,
			DurMS:   base,
		}
	}
	sections[n-1].DurMS = totalMS - base*(n-1)
	return sections, nil
}
