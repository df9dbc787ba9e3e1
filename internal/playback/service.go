package playback

import (
	"time"

	"github.com/tgranjon/reverb/internal/playlist"
)

// Service defines the playback engine contract. Operations never fail for
// expected conditions (empty queue, unknown track, network hiccups); those
// are resolved internally or surfaced through the Error event stream and the
// LastError status field.
type Service interface {
	// Playback control
	PlayTrack(t playlist.Track)
	TogglePlayPause()
	PlayNext()
	PlayPrevious()
	JumpTo(index int)
	SeekTo(position time.Duration)

	// Queue manipulation
	SetTrackList(tracks []playlist.Track)
	RemoveFromQueue(trackID int64)
	ReorderQueue(fromIndex, toIndex int)

	// Mode control
	ToggleShuffle() bool
	CycleRepeat() playlist.RepeatMode
	SetRepeatMode(mode playlist.RepeatMode)

	// Volume control
	ChangeVolume(level int)
	ToggleMute()

	// Queue panel visibility
	ToggleQueue() bool

	// State queries
	Status() Status

	// Event subscription
	Subscribe() *Subscription
	Unsubscribe(sub *Subscription)

	// Lifecycle
	Close() error
}

// Status is a consistent snapshot of the engine state. Consumers render
// strictly from it and never derive queue or shuffle logic themselves.
type Status struct {
	CurrentTrack *playlist.Track
	Tracks       []playlist.Track
	CurrentIndex int
	IsPlaying    bool
	Shuffled     bool
	RepeatMode   playlist.RepeatMode
	Position     time.Duration
	Duration     time.Duration
	Volume       int
	Muted        bool
	QueueOpen    bool
	LastError    string
}
