package player

// State represents the playback state machine.
//
// Valid transitions:
//   - Stopped → Playing (via PlayTrack)
//   - Playing → Paused  (via Pause / TogglePlayPause)
//   - Playing → Stopped (via Stop)
//   - Paused  → Playing (via Resume / TogglePlayPause)
//   - Paused  → Stopped (via Stop)
//
// Invalid transitions (Stopped → Paused, repeated Pause, ...) are ignored.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
