package collage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	intaudio "github.com/cbegin/collage-go/internal/audio"
	"github.com/cbegin/collage-go/internal/placelog"
)

// Output file names within a run directory.
const (
	MasterFileName = "master.wav"
	LogFileName    = "collage_debug.csv"
)

// TrackFileName returns the per-track output name, track0.wav upward.
func TrackFileName(track int) string {
	return fmt.Sprintf("track%d.wav", track)
}

// OutDirName returns the conventional run directory name,
// collage_YY.MM.DD_HH.MM plus an _s/_ns suffix recording whether effects
// were applied.
func OutDirName(now time.Time, applyFX bool) string {
	suffix := "ns"
	if applyFX {
		suffix = "s"
	}
	return "collage_" + now.Format("06.01.02_15.04") + "_" + suffix
}

// WriteOutputs persists a finished result into dir: one WAV per track, the
// master WAV, and the placement log when the result carries records. The
// directory is created if needed. Only complete results reach this point;
// a failed render never writes.
func WriteOutputs(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for i, tr := range res.Tracks {
		if err := intaudio.EncodeFile(filepath.Join(dir, TrackFileName(i)), tr, res.Format); err != nil {
			return err
		}
	}
	if err := intaudio.EncodeFile(filepath.Join(dir, MasterFileName), res.Master, res.Format); err != nil {
		return err
	}
	if res.Records != nil {
		f, err := os.Create(filepath.Join(dir, LogFileName))
		if err != nil {
			return fmt.Errorf("create placement log: %w", err)
		}
		if err := placelog.WriteCSV(f, res.Records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
