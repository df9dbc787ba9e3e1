package playback

import (
	"time"

	"github.com/tgranjon/reverb/internal/playlist"
)

// StateChange is emitted when the transport flips between playing and
// not-playing.
type StateChange struct {
	IsPlaying bool
}

// TrackChange is emitted when playback starts on a different track.
//
// Emitted by:
//   - PlayTrack: when the track being played differs from the last played track
//   - PlayNext/PlayPrevious/JumpTo: when navigating with playback control
//   - auto-advance: when a track ends and the next one starts
//
// NOT emitted by:
//   - TogglePlayPause/SeekTo: transport changes do not emit TrackChange
//
// Consumers handle all track-related side effects (notifications, artwork)
// in response to this event.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// PositionChange is emitted on backend time updates and seeks.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// QueueChange is emitted when the queue contents or order change.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode playlist.RepeatMode
	Shuffle    bool
}

// VolumeChange is emitted when the volume level changes, mute included.
type VolumeChange struct {
	Volume int
	Muted  bool
}

// ErrorEvent is emitted when an error occurs during playback.
type ErrorEvent struct {
	Operation string // e.g., "play", "view-report"
	Err       error
}
