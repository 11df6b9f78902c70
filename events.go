package collage

// Event reports run progress to an observer registered with WithObserver.
type Event struct {
	Kind       int // EventTrackRendered or EventMasterMixed
	Track      int
	Placements int
}

const (
	EventTrackRendered int = iota
	EventMasterMixed
)
