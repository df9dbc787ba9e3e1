package player

import (
	"sync"
	"time"

	"github.com/tgranjon/reverb/internal/playlist"
)

// Mock is a test double for Interface. It records commands, tracks the state
// machine without touching an audio device, and lets tests inject backend
// events through the Emit helpers.
type Mock struct {
	mu sync.Mutex

	state       State
	current     *playlist.Track
	position    time.Duration
	duration    time.Duration
	volumeLevel int

	played []playlist.Track
	calls  []string

	// PlayErr, when set, is returned by PlayTrack for every track.
	PlayErr error

	events chan Event
}

// NewMock creates a mock backend with a generously buffered event channel so
// tests never block on Emit.
func NewMock() *Mock {
	return &Mock{
		state:       Stopped,
		volumeLevel: defaultVolume,
		events:      make(chan Event, 256),
	}
}

func (m *Mock) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *Mock) PlayTrack(t playlist.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("PlayTrack")
	if m.PlayErr != nil {
		return m.PlayErr
	}
	track := t
	m.current = &track
	m.state = Playing
	m.position = 0
	m.duration = t.Duration
	m.played = append(m.played, t)
	m.events <- PlayEvent{}
	return nil
}

func (m *Mock) TogglePlayPause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("TogglePlayPause")
	switch m.state {
	case Playing:
		m.state = Paused
		m.events <- PauseEvent{}
	case Paused:
		m.state = Playing
		m.events <- PlayEvent{}
	case Stopped:
	}
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Pause")
	if m.state != Playing {
		return
	}
	m.state = Paused
	m.events <- PauseEvent{}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Resume")
	if m.state != Paused {
		return
	}
	m.state = Playing
	m.events <- PlayEvent{}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Stop")
	m.state = Stopped
	m.current = nil
	m.position = 0
	m.duration = 0
}

func (m *Mock) SeekTo(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SeekTo")
	if m.state == Stopped {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if m.duration > 0 && pos > m.duration {
		pos = m.duration
	}
	m.position = pos
}

func (m *Mock) SetVolume(level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetVolume")
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	m.volumeLevel = level
	m.events <- VolumeChangeEvent{Volume: level}
}

func (m *Mock) Volume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volumeLevel
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) TrackDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) CurrentTrack() *playlist.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	t := *m.current
	return &t
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error {
	return nil
}

// EmitEnded simulates the current track finishing naturally.
func (m *Mock) EmitEnded() {
	m.mu.Lock()
	m.state = Stopped
	m.mu.Unlock()
	m.events <- EndedEvent{}
}

// EmitTimeUpdate simulates a position report from the backend.
func (m *Mock) EmitTimeUpdate(position, duration time.Duration) {
	m.mu.Lock()
	m.position = position
	m.duration = duration
	m.mu.Unlock()
	m.events <- TimeUpdateEvent{Position: position, Duration: duration}
}

// EmitError simulates a backend load or decode failure.
func (m *Mock) EmitError(err error) {
	m.events <- ErrorEvent{Err: err}
}

// Played returns every track handed to PlayTrack, in order.
func (m *Mock) Played() []playlist.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]playlist.Track, len(m.played))
	copy(out, m.played)
	return out
}

// Calls returns the recorded command names, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
