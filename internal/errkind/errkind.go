// Package errkind defines the error classification tags shared by the
// composition pipeline. Errors are created where they occur with
// fault.New/fault.Wrap and tagged with one of these kinds; callers classify
// with ftag.Get rather than matching message strings.
package errkind

import (
	"github.com/Southclaws/fault/ftag"
)

const (
	// InvalidPattern marks a pattern string containing a symbol outside
	// {S,L,M,H,C,D,l,m,h}, or an empty pattern.
	InvalidPattern ftag.Kind = "invalid_pattern"

	// InvalidTempo marks a non-positive (or non-finite) BPM.
	InvalidTempo ftag.Kind = "invalid_tempo"

	// InvalidConfig marks a structurally unusable configuration, e.g.
	// track_count < 1 or duration_ms <= 0.
	InvalidConfig ftag.Kind = "invalid_config"

	// EmptyPool marks a bit pool with no source material. Fatal: a collage
	// cannot be synthesized from nothing.
	EmptyPool ftag.Kind = "empty_pool"

	// FormatMismatch marks a bit whose sample rate or channel count differs
	// from the rest of the pool. Fatal.
	FormatMismatch ftag.Kind = "format_mismatch"

	// FxTransform marks a single effect failing on a single placement.
	// Non-fatal: the effect degrades to a no-op and the run continues.
	FxTransform ftag.Kind = "fx_transform"
)

// Is reports whether err carries the given kind.
func Is(err error, kind ftag.Kind) bool {
	return ftag.Get(err) == kind
}
