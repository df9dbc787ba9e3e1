package player

import "time"

// Event is a discrete notification from the audio backend. Events are
// delivered on a single channel in the order they occur; consumers must
// tolerate duplicate play/pause deliveries for a state already in effect.
type Event interface {
	isEvent()
}

// PlayEvent is emitted when playback starts or resumes.
type PlayEvent struct{}

// PauseEvent is emitted when playback pauses.
type PauseEvent struct{}

// EndedEvent is emitted when a track finishes naturally.
type EndedEvent struct{}

// TimeUpdateEvent carries the current position while a track plays.
type TimeUpdateEvent struct {
	Position time.Duration
	Duration time.Duration
}

// VolumeChangeEvent is emitted when the output volume changes.
type VolumeChangeEvent struct {
	Volume int // 0-100
}

// ErrorEvent is emitted when loading or decoding a track fails.
type ErrorEvent struct {
	Err error
}

func (PlayEvent) isEvent()         {}
func (PauseEvent) isEvent()        {}
func (EndedEvent) isEvent()        {}
func (TimeUpdateEvent) isEvent()   {}
func (VolumeChangeEvent) isEvent() {}
func (ErrorEvent) isEvent()        {}
