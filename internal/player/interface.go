package player

import (
	"time"

	"github.com/tgranjon/reverb/internal/playlist"
)

// Interface defines the audio backend contract for dependency injection and
// testing. A single backend instance drives one underlying output device;
// only the playback engine may command it.
type Interface interface {
	PlayTrack(t playlist.Track) error
	TogglePlayPause()
	Pause()
	Resume()
	Stop()
	SeekTo(pos time.Duration)
	SetVolume(level int) // 0-100
	Volume() int
	State() State
	Position() time.Duration
	TrackDuration() time.Duration
	CurrentTrack() *playlist.Track
	Events() <-chan Event
	Close() error
}

// Verify implementations satisfy Interface at compile time.
var (
	_ Interface = (*Player)(nil)
	_ Interface = (*Mock)(nil)
)
