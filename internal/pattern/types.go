package pattern

// Symbol is one character of a collage pattern. The alphabet:
//
//	S       sparse texture, fixed -12 dB, persisted gain untouched
//	L M H   low/medium/high energy, set the persisted track gain
//	l m h   as above but active on track 0 only
//	C D     crescendo/decrescendo, ramp persisted gain to +6/-6 dB,
//	        spawn probability inherited from the previous symbol
type Symbol byte

const (
	Sparse   Symbol = 'S'
	Low      Symbol = 'L'
	Medium   Symbol = 'M'
	High     Symbol = 'H'
	Cresc    Symbol = 'C'
	Decresc  Symbol = 'D'
	LowSolo  Symbol = 'l'
	MedSolo  Symbol = 'm'
	HighSolo Symbol = 'h'
)

// Spawn probabilities per symbol energy class.
const (
	ProbSparse = 0.01
	ProbLow    = 0.3
	ProbMedium = 0.6
	ProbHigh   = 0.9
)

// Gain reference levels in dB. Sparse overrides the output level without
// persisting; the ramp targets become the persisted level on section exit.
const (
	GainSparseDB = -12.0
	GainLowDB    = -6.0
	GainMediumDB = -3.0
	GainHighDB   = 0.0
	RampUpDB     = 6.0
	RampDownDB   = -6.0
)

// Section is one contiguous span of the collage governed by a single symbol.
// Sections are non-overlapping and their durations sum to the collage length.
type Section struct {
	Sym     Symbol
	StartMS int
	DurMS   int
}

// EndMS is the exclusive end of the section.
func (s Section) EndMS() int { return s.StartMS + s.DurMS }

// Valid reports whether b is a pattern symbol.
func Valid(b byte) bool {
	switch Symbol(b) {
	case Sparse, Low, Medium, High, Cresc, Decresc, LowSolo, MedSolo, HighSolo:
		return true
	}
	return false
}

// Ramp reports whether the symbol is a gain ramp (C or D).
func (s Symbol) Ramp() bool { return s == Cresc || s == Decresc }

// Solo reports whether the symbol drives track 0 only.
func (s Symbol) Solo() bool { return s == LowSolo || s == MedSolo || s == HighSolo }

// Active reports whether the symbol considers the given track for spawning.
func (s Symbol) Active(track int) bool { return track == 0 || !s.Solo() }

// Probability returns the symbol's spawn probability. For ramp symbols it
// returns ok=false: the caller supplies the previous symbol's probability.
func (s Symbol) Probability() (p float64, ok bool) {
	switch s {
	case Sparse:
		return ProbSparse, true
	case Low, LowSolo:
		return ProbLow, true
	case Medium, MedSolo:
		return ProbMedium, true
	case High, HighSolo:
		return ProbHigh, true
	}
	return 0, false
}

// Level returns the persisted gain level the symbol establishes, or ok=false
// for symbols that do not set one (S keeps the state, C/D ramp it).
func (s Symbol) Level() (db float64, ok bool) {
	switch s {
	case Low, LowSolo:
		return GainLowDB, true
	case Medium, MedSolo:
		return GainMediumDB, true
	case High, HighSolo:
		return GainHighDB, true
	}
	return 0, false
}

// RampTarget returns the gain a ramp symbol settles on at section exit.
func (s Symbol) RampTarget() (db float64, ok bool) {
	switch s {
	case Cresc:
		return RampUpDB, true
	case Decresc:
		return RampDownDB, true
	}
	return 0, false
}

func (s Symbol) String() string { return string(byte(s)) }
