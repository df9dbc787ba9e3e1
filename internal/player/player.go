package player

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/tgranjon/reverb/internal/playlist"
)

const (
	eventBufferSize = 64
	tickInterval    = 500 * time.Millisecond
	defaultVolume   = 80
)

// Player is the beep-backed audio backend. It decodes mp3 sources (local
// paths or HTTP URLs buffered into memory so the decoder can seek) and plays
// them through the process-wide speaker.
type Player struct {
	mu sync.Mutex

	state       State
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	streamer    beep.StreamSeekCloser
	format      beep.Format
	current     *playlist.Track
	volumeLevel int // 0-100
	seq         uint64

	httpClient *http.Client

	events chan Event
	done   chan struct{}
	closed bool
}

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
)

// New creates a new Player. The returned player emits time updates every
// 500ms while playing; consumers read them from Events.
func New() *Player {
	p := &Player{
		state:       Stopped,
		volumeLevel: defaultVolume,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		events:      make(chan Event, eventBufferSize),
		done:        make(chan struct{}),
	}
	go p.tickLoop()
	return p
}

// Events returns the backend's event stream.
func (p *Player) Events() <-chan Event {
	return p.events
}

// PlayTrack loads and plays the track's audio source, replacing whatever is
// currently playing. An unplayable track (no source URL) or a decode failure
// is reported both as a returned error and an ErrorEvent.
func (p *Player) PlayTrack(t playlist.Track) error {
	if !t.Playable() {
		err := fmt.Errorf("track %d has no audio source", t.ID)
		p.emit(ErrorEvent{Err: err})
		return err
	}

	src, err := p.openSource(t.SourceURL)
	if err != nil {
		p.emit(ErrorEvent{Err: err})
		return err
	}

	streamer, format, err := mp3.Decode(src)
	if err != nil {
		src.Close()
		err = fmt.Errorf("decode %s: %w", t.SourceURL, err)
		p.emit(ErrorEvent{Err: err})
		return err
	}

	initSpeaker(format.SampleRate)

	p.mu.Lock()
	p.stopLocked()

	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: streamer}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.volumeLevel == 0,
	}
	track := t
	p.current = &track
	p.state = Playing
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	var out beep.Streamer = p.volume
	if format.SampleRate != speakerRate {
		out = beep.Resample(4, format.SampleRate, speakerRate, p.volume)
	}

	speaker.Play(beep.Seq(out, beep.Callback(func() {
		p.handleEnded(seq)
	})))

	p.emit(PlayEvent{})
	return nil
}

// handleEnded runs when the decoded stream drains. The sequence guard drops
// callbacks from a source that was already replaced via speaker.Clear.
func (p *Player) handleEnded(seq uint64) {
	p.mu.Lock()
	if seq != p.seq || p.state == Stopped {
		p.mu.Unlock()
		return
	}
	p.state = Stopped
	p.mu.Unlock()
	p.emit(EndedEvent{})
}

// TogglePlayPause toggles between playing and paused. No-op when stopped.
func (p *Player) TogglePlayPause() {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	switch state {
	case Playing:
		p.Pause()
	case Paused:
		p.Resume()
	case Stopped:
		// Nothing to toggle when stopped.
	}
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
	p.emit(PauseEvent{})
}

// Resume resumes paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
	p.emit(PlayEvent{})
}

// Stop stops playback and releases the current source.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.state == Stopped && p.streamer == nil {
		return
	}
	speaker.Clear()
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.current = nil
	p.state = Stopped
}

// SeekTo moves playback to the given position, clamped to the track bounds.
func (p *Player) SeekTo(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil || p.state == Stopped {
		return
	}

	target := p.format.SampleRate.N(pos)
	speaker.Lock()
	if n := p.streamer.Len(); target >= n {
		target = n - 1
	}
	if target < 0 {
		target = 0
	}
	_ = p.streamer.Seek(target)
	position := p.format.SampleRate.D(p.streamer.Position())
	duration := p.format.SampleRate.D(p.streamer.Len())
	speaker.Unlock()

	p.emit(TimeUpdateEvent{Position: position, Duration: duration})
}

// SetVolume sets the output volume (0-100).
func (p *Player) SetVolume(level int) {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	p.mu.Lock()
	p.volumeLevel = level
	if p.volume != nil {
		speaker.Lock()
		p.volume.Volume = levelToVolume(level)
		p.volume.Silent = level == 0
		speaker.Unlock()
	}
	p.mu.Unlock()

	p.emit(VolumeChangeEvent{Volume: level})
}

// Volume returns the current volume level (0-100).
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeLevel
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

// TrackDuration returns the decoded duration of the current track.
func (p *Player) TrackDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	d := p.format.SampleRate.D(p.streamer.Len())
	speaker.Unlock()
	return d
}

// CurrentTrack returns the track loaded into the backend, or nil.
func (p *Player) CurrentTrack() *playlist.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	t := *p.current
	return &t
}

// Close stops playback and shuts down the event stream.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	p.stopLocked()
	p.mu.Unlock()
	return nil
}

// tickLoop emits time updates while a track plays.
func (p *Player) tickLoop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.mu.Lock()
			playing := p.state == Playing && p.streamer != nil
			var position, duration time.Duration
			if playing {
				speaker.Lock()
				position = p.format.SampleRate.D(p.streamer.Position())
				duration = p.format.SampleRate.D(p.streamer.Len())
				speaker.Unlock()
			}
			p.mu.Unlock()
			if playing {
				p.emit(TimeUpdateEvent{Position: position, Duration: duration})
			}
		}
	}
}

// emit sends an event without blocking; events are dropped if the consumer
// falls more than a buffer behind.
func (p *Player) emit(e Event) {
	select {
	case p.events <- e:
	default:
	}
}

// openSource opens the track's audio source as a seekable reader. HTTP
// sources are buffered fully into memory; the mp3 decoder needs to seek.
func (p *Player) openSource(url string) (io.ReadCloser, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		resp, err := p.httpClient.Get(url)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		return &memorySource{Reader: bytes.NewReader(data)}, nil
	}

	f, err := os.Open(url)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// memorySource adapts a bytes.Reader to the ReadSeekCloser the decoder wants.
type memorySource struct {
	*bytes.Reader
}

func (*memorySource) Close() error { return nil }

func initSpeaker(rate beep.SampleRate) {
	speakerOnce.Do(func() {
		speakerRate = rate
		_ = speaker.Init(rate, rate.N(time.Second/10))
	})
}
