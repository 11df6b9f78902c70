package spawn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gopxl/beep"

	"github.com/cbegin/collage-go/internal/fx"
	"github.com/cbegin/collage-go/internal/grid"
	"github.com/cbegin/collage-go/internal/pattern"
	"github.com/cbegin/collage-go/internal/pool"
)

const testRate = 1000 // 1 frame per ms keeps the arithmetic readable

func testPool(t *testing.T, bitMS ...int) *pool.Pool {
	t.Helper()
	bits := make([]pool.Bit, len(bitMS))
	for i, ms := range bitMS {
		frames := make([][2]float64, ms*testRate/1000)
		for j := range frames {
			frames[j] = [2]float64{0.5, 0.5}
		}
		bits[i] = pool.Bit{ID: string(rune('a' + i)), Frames: frames, DurMS: float64(ms)}
	}
	format := beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}
	p, err := pool.New(format, bits)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	return p
}

func testGrid(t *testing.T, bpm float64) *grid.Grid {
	t.Helper()
	g, err := grid.New(bpm)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func sectionsFor(t *testing.T, pat string, totalMS int) []pattern.Section {
	t.Helper()
	sections, err := pattern.Parse(pat, totalMS)
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	return sections
}

func TestSectionProbabilityInheritance(t *testing.T) {
	state := newTrackState()
	if p := sectionProbability(pattern.Cresc, state); p != pattern.ProbMedium {
		t.Fatalf("initial C inherits the medium default, got %v", p)
	}
	state = exitState(pattern.Low, state, pattern.ProbLow)
	if p := sectionProbability(pattern.Cresc, state); p != pattern.ProbLow {
		t.Fatalf("C after L should inherit 0.3, got %v", p)
	}
	state = exitState(pattern.Sparse, state, pattern.ProbSparse)
	if p := sectionProbability(pattern.Decresc, state); p != pattern.ProbSparse {
		t.Fatalf("D after S should inherit 0.01, got %v", p)
	}
	// Ramps do not overwrite the inherited probability.
	state = exitState(pattern.Cresc, state, sectionProbability(pattern.Cresc, state))
	if state.lastProb != pattern.ProbSparse {
		t.Fatalf("C must not update lastProb, got %v", state.lastProb)
	}
}

func TestSparseLeavesGainStateUntouched(t *testing.T) {
	state := newTrackState()
	state = exitState(pattern.High, state, pattern.ProbHigh)
	if state.gainDB != pattern.GainHighDB {
		t.Fatalf("H should persist %v dB, got %v", pattern.GainHighDB, state.gainDB)
	}
	after := exitState(pattern.Sparse, state, pattern.ProbSparse)
	if after.gainDB != state.gainDB {
		t.Fatalf("S must not change persisted gain: %v -> %v", state.gainDB, after.gainDB)
	}
	if after.lastProb != pattern.ProbSparse {
		t.Fatalf("S should still update the inherited probability, got %v", after.lastProb)
	}
}

func TestSparsePlacementsUseFixedGain(t *testing.T) {
	sched := New(testPool(t, 300), testGrid(t, 240), nil, testRate)
	sections := sectionsFor(t, "S", 120000) // 480 ticks at p=0.01 per walk
	var total int
	for seed := uint64(0); seed < 10; seed++ {
		placements := sched.WalkTrack(0, sections, rand.New(rand.NewPCG(seed, 0)))
		total += len(placements)
		for _, p := range placements {
			if p.GainDB != pattern.GainSparseDB {
				t.Fatalf("S placement gain %v, want %v", p.GainDB, pattern.GainSparseDB)
			}
		}
	}
	if total == 0 {
		t.Fatal("expected sparse placements across 4800 ticks")
	}
}

func TestRampGainInterpolation(t *testing.T) {
	// After an L section the persisted gain is -6 dB; a following C ramps
	// to +6 dB across its duration.
	state := exitState(pattern.Low, newTrackState(), pattern.ProbLow)
	sec := pattern.Section{Sym: pattern.Cresc, StartMS: 1000, DurMS: 2000}

	start := resolveGain(sec, 1000, state)
	if start != pattern.GainLowDB {
		t.Fatalf("ramp start %v, want %v", start, pattern.GainLowDB)
	}
	mid := resolveGain(sec, 2000, state)
	wantMid := (pattern.GainLowDB + pattern.RampUpDB) / 2
	if math.Abs(mid-wantMid) > 1e-9 {
		t.Fatalf("ramp midpoint %v, want %v", mid, wantMid)
	}
	nearEnd := resolveGain(sec, 2999, state)
	if nearEnd <= mid || nearEnd > pattern.RampUpDB {
		t.Fatalf("ramp near end %v, want between %v and %v", nearEnd, mid, pattern.RampUpDB)
	}

	after := exitState(pattern.Cresc, state, 0.3)
	if after.gainDB != pattern.RampUpDB {
		t.Fatalf("gain after C = %v, want %v", after.gainDB, pattern.RampUpDB)
	}
}

func TestDecrescendoRampsDown(t *testing.T) {
	state := exitState(pattern.High, newTrackState(), pattern.ProbHigh)
	sec := pattern.Section{Sym: pattern.Decresc, StartMS: 0, DurMS: 1000}
	start := resolveGain(sec, 0, state)
	end := resolveGain(sec, 999, state)
	if start != pattern.GainHighDB {
		t.Fatalf("D starts at %v, want %v", start, pattern.GainHighDB)
	}
	if end >= start {
		t.Fatalf("D must ramp down: start %v, end %v", start, end)
	}
	after := exitState(pattern.Decresc, state, 0.9)
	if after.gainDB != pattern.RampDownDB {
		t.Fatalf("gain after D = %v, want %v", after.gainDB, pattern.RampDownDB)
	}
}

func TestWalkedRampPlacementsFollowTheCurve(t *testing.T) {
	sched := New(testPool(t, 200), testGrid(t, 240), nil, testRate)
	sections := sectionsFor(t, "LC", 20000)
	rng := rand.New(rand.NewPCG(3, 0))
	placements := sched.WalkTrack(0, sections, rng)

	var sawRamp bool
	for _, p := range placements {
		switch p.Sym {
		case pattern.Low:
			if p.GainDB != pattern.GainLowDB {
				t.Fatalf("L placement at %v has gain %v", p.StartMS, p.GainDB)
			}
		case pattern.Cresc:
			sawRamp = true
			sec := sections[1]
			frac := (p.StartMS - float64(sec.StartMS)) / float64(sec.DurMS)
			want := pattern.GainLowDB + (pattern.RampUpDB-pattern.GainLowDB)*frac
			if math.Abs(p.GainDB-want) > 1e-9 {
				t.Fatalf("C placement at %v has gain %v, want %v", p.StartMS, p.GainDB, want)
			}
		}
	}
	if !sawRamp {
		t.Fatal("expected placements inside the C section")
	}
}

func TestLowercaseDrivesTrackZeroOnly(t *testing.T) {
	sched := New(testPool(t, 200), testGrid(t, 240), nil, testRate)
	sections := sectionsFor(t, "mmm", 30000) // 120 ticks at p=0.6
	if got := sched.WalkTrack(1, sections, rand.New(rand.NewPCG(5, 1))); len(got) != 0 {
		t.Fatalf("track 1 must stay silent under lowercase sections, got %d placements", len(got))
	}
	if got := sched.WalkTrack(0, sections, rand.New(rand.NewPCG(5, 0))); len(got) == 0 {
		t.Fatal("track 0 should spawn under lowercase sections")
	}
}

func TestInactiveSectionsLeaveStateAlone(t *testing.T) {
	// Track 1 skips the lowercase "h" section entirely, so a following C
	// ramps from the default 0 dB, not from the high level.
	sched := New(testPool(t, 200), testGrid(t, 240), nil, testRate)
	sections := sectionsFor(t, "hC", 20000)
	placements := sched.WalkTrack(1, sections, rand.New(rand.NewPCG(9, 1)))
	if len(placements) == 0 {
		t.Fatal("expected C placements on track 1")
	}
	sec := sections[1]
	for _, p := range placements {
		if p.Sym != pattern.Cresc {
			t.Fatalf("track 1 spawned under %s, expected only C", p.Sym)
		}
		frac := (p.StartMS - float64(sec.StartMS)) / float64(sec.DurMS)
		want := pattern.RampUpDB * frac
		if math.Abs(p.GainDB-want) > 1e-9 {
			t.Fatalf("track 1 ramp at %v = %v, want %v (from neutral state)", p.StartMS, p.GainDB, want)
		}
	}
}

func TestPlacementsMayOverlap(t *testing.T) {
	// 2000ms bits spawned at ~500ms ticks with p=0.9 overlap constantly.
	sched := New(testPool(t, 2000), testGrid(t, 120), nil, testRate)
	sections := sectionsFor(t, "H", 30000)
	placements := sched.WalkTrack(0, sections, rand.New(rand.NewPCG(21, 0)))
	if len(placements) < 10 {
		t.Fatalf("expected a dense walk, got %d placements", len(placements))
	}
	var overlaps int
	for i := 1; i < len(placements); i++ {
		prev := placements[i-1]
		if placements[i].StartMS < prev.StartMS+prev.DurMS(testRate) {
			overlaps++
		}
	}
	if overlaps == 0 {
		t.Fatal("expected overlapping placements to survive scheduling")
	}
}

func TestFadesFollowBitDuration(t *testing.T) {
	cases := []struct {
		durMS float64
		want  float64
	}{
		{300, 100},
		{1000, 100},
		{1001, 300},
		{2000, 300},
		{150, 75},  // clamped to half duration
		{90, 45},
		{500, 100},
	}
	for _, tc := range cases {
		in, out := fadesFor(tc.durMS)
		if in != tc.want || out != tc.want {
			t.Fatalf("fadesFor(%v) = %v/%v, want %v", tc.durMS, in, out, tc.want)
		}
	}
}

func TestWalkIsDeterministicPerSeed(t *testing.T) {
	sched := New(testPool(t, 300, 700, 1500), testGrid(t, 120), fx.Default(), testRate)
	sections := sectionsFor(t, "SLMHCD", 30000)
	walk := func() []Placement {
		return sched.WalkTrack(2, sections, rand.New(rand.NewPCG(99, 2)))
	}
	a, b := walk(), walk()
	if len(a) != len(b) {
		t.Fatalf("walk lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].StartMS != b[i].StartMS || a[i].Bit.ID != b[i].Bit.ID ||
			a[i].GainDB != b[i].GainDB || len(a[i].Frames) != len(b[i].Frames) {
			t.Fatalf("walk diverged at placement %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestFXChainTransformsPlacementAudio(t *testing.T) {
	// With the chain attached, placements own copies; the pooled bit's
	// frames stay pristine.
	p := testPool(t, 1500)
	bitFrames := p.Bits()[0].Frames
	orig := make([][2]float64, len(bitFrames))
	copy(orig, bitFrames)

	sched := New(p, testGrid(t, 240), fx.Default(), testRate)
	sections := sectionsFor(t, "H", 10000)
	placements := sched.WalkTrack(0, sections, rand.New(rand.NewPCG(17, 0)))
	if len(placements) == 0 {
		t.Fatal("expected placements")
	}
	for i, f := range bitFrames {
		if f != orig[i] {
			t.Fatal("bit pool frames were mutated by effects")
		}
	}
	var transformed bool
	for _, pl := range placements {
		if len(pl.Frames) != len(bitFrames) {
			transformed = true // stretch changed the length
			break
		}
		for i := range pl.Frames {
			if pl.Frames[i] != bitFrames[i] {
				transformed = true
				break
			}
		}
		if transformed {
			break
		}
	}
	if !transformed {
		t.Fatal("expected the chain to transform placement audio")
	}
}
