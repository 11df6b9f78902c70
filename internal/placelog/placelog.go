// Package placelog records every placement decision for diagnostics. The
// engine emits records in track-major, then chronological order, so a fixed
// seed reproduces the log byte for byte.
package placelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Record is one placement decision.
type Record struct {
	TickMS    float64
	Track     int
	Bit       string
	Symbol    string
	GainDB    float64
	FadeInMS  float64
	FadeOutMS float64
	DurMS     float64
	Note      string
}

// Header is the CSV column order.
var Header = []string{
	"tick_ms", "track", "bit", "symbol",
	"gain_db", "fade_in_ms", "fade_out_ms", "dur_ms", "note",
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write log header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.row()); err != nil {
			return fmt.Errorf("write log record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r Record) row() []string {
	return []string{
		num(r.TickMS),
		strconv.Itoa(r.Track),
		r.Bit,
		r.Symbol,
		num(r.GainDB),
		num(r.FadeInMS),
		num(r.FadeOutMS),
		num(r.DurMS),
		r.Note,
	}
}

// num formats floats with the shortest exact representation so identical
// runs serialize identically.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
