package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbegin/collage-go"
	"github.com/cbegin/collage-go/internal/pool"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collage",
	Short: "Compose layered audio collages from a directory of WAV bits",
	Long: `Collage scatters short WAV snippets ("bits") across parallel tracks on a
beat grid, shapes their density and gain with a pattern string, and mixes
the tracks into a master recording.

Pattern symbols: S sparse, L low, M medium, H high, C crescendo,
D decrescendo. Lowercase l/m/h confine a section to track 0.`,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a collage and write tracks, master, and log",
	Long: `Render splits the run into equal sections, one pattern symbol each, walks
every track beat by beat, and writes track WAVs plus the master mix into a
timestamped directory.

Examples:
  collage render --pattern MMHHCC --bpm 120
  collage render -p SLMH --bpm 90 --tracks 6 --duration 60000 --fx --log
  collage render -p mmm --bpm 140 --seed 42`,
	RunE: runRender,
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "List the bits a directory contributes",
	Long: `Pool loads a bit directory the way render would and prints each bit's
name and duration, plus the shared sample format. Use it to check a
directory before committing to a long render.`,
	RunE: runPool,
}

var (
	bitsDir    string
	outDir     string
	patternArg string
	bpm        float64
	trackCount int
	durationMS int
	applyFX    bool
	emitLog    bool
	humBed     bool
	seed       uint64
)

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(poolCmd)

	renderCmd.Flags().StringVarP(&bitsDir, "bits", "b", "bits", "Directory of WAV bits")
	renderCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Parent directory for the run output")
	renderCmd.Flags().StringVarP(&patternArg, "pattern", "p", "", "Section pattern, e.g. MMHHCC (required)")
	renderCmd.Flags().Float64Var(&bpm, "bpm", 120, "Beats per minute of the spawn grid")
	renderCmd.Flags().IntVar(&trackCount, "tracks", collage.DefaultTrackCount, "Number of parallel tracks")
	renderCmd.Flags().IntVar(&durationMS, "duration", collage.DefaultDurationMS, "Collage length in milliseconds")
	renderCmd.Flags().BoolVar(&applyFX, "fx", false, "Run each placement through the effect chain")
	renderCmd.Flags().BoolVar(&emitLog, "log", false, "Write the placement log CSV")
	renderCmd.Flags().BoolVar(&humBed, "hum", false, "Lay a 60 Hz hum bed under the master")
	renderCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: wall clock)")
	renderCmd.MarkFlagRequired("pattern")

	poolCmd.Flags().StringVarP(&bitsDir, "bits", "b", "bits", "Directory of WAV bits")
}

func runRender(cmd *cobra.Command, args []string) error {
	p, err := pool.Load(bitsDir)
	if err != nil {
		return err
	}
	log.Printf("loaded %d bits from %s at %d Hz", p.Len(), bitsDir, p.Format().SampleRate)

	cfg := collage.DefaultConfig()
	cfg.Pattern = patternArg
	cfg.BPM = bpm
	cfg.TrackCount = trackCount
	cfg.DurationMS = durationMS
	cfg.ApplyFX = applyFX
	cfg.EmitLog = emitLog
	cfg.HumBed = humBed
	cfg.Seed = seed
	if !cmd.Flags().Changed("seed") {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	eng, err := collage.New(p, cfg, collage.WithObserver(logProgress))
	if err != nil {
		return err
	}
	res, err := eng.Render(cmd.Context())
	if err != nil {
		return err
	}

	dir := filepath.Join(outDir, collage.OutDirName(time.Now(), cfg.ApplyFX))
	if err := collage.WriteOutputs(dir, res); err != nil {
		return err
	}

	fmt.Printf("wrote %d tracks and %s to %s (seed %d)\n",
		len(res.Tracks), collage.MasterFileName, dir, cfg.Seed)
	if cfg.EmitLog {
		fmt.Printf("placement log: %s\n", filepath.Join(dir, collage.LogFileName))
	}
	return nil
}

func runPool(cmd *cobra.Command, args []string) error {
	p, err := pool.Load(bitsDir)
	if err != nil {
		return err
	}
	format := p.Format()
	fmt.Printf("%d bits at %d Hz, %d channel(s)\n", p.Len(), format.SampleRate, format.NumChannels)
	for _, b := range p.Bits() {
		fmt.Printf("  %-40s %9.1f ms\n", b.ID, b.DurMS)
	}
	return nil
}

func logProgress(ev collage.Event) {
	switch ev.Kind {
	case collage.EventTrackRendered:
		log.Printf("track %d rendered, %d placements", ev.Track, ev.Placements)
	case collage.EventMasterMixed:
		log.Printf("master mixed")
	}
}
