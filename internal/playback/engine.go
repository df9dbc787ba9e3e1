package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tgranjon/reverb/internal/player"
	"github.com/tgranjon/reverb/internal/playlist"
	"github.com/tgranjon/reverb/internal/state"
	"github.com/tgranjon/reverb/internal/views"
)

const (
	// lookupRetryDelay is how long PlayTrack waits before retrying a lookup
	// against a queue that was empty, giving a racing SetTrackList time to
	// land.
	lookupRetryDelay = 200 * time.Millisecond

	// advanceSettleDelay lets the backend finish tearing down a drained
	// source before the next play command is issued.
	advanceSettleDelay = 200 * time.Millisecond

	// viewThreshold is the wall-clock listening time after which a view is
	// reported, measured from playback start. Pausing does not stop the
	// clock.
	viewThreshold = 15 * time.Second

	defaultPreviousVolume = 80
)

// Verify engine implements Service at compile time.
var _ Service = (*engine)(nil)

type engine struct {
	mu sync.Mutex

	player   player.Interface
	queue    *playlist.PlayingQueue
	store    state.Interface
	reporter views.Interface
	log      zerolog.Logger

	current    *playlist.Track
	isPlaying  bool
	position   time.Duration
	duration   time.Duration
	volume     int
	prevVolume int
	queueOpen  bool
	lastErr    error

	// View session bookkeeping. viewSeq identifies the session so a late
	// report response for a stale session cannot touch the current one.
	sessionID    string
	viewSeq      uint64
	viewStart    time.Time
	viewRecorded bool
	viewInFlight bool

	// Generation counters guarding delayed callbacks against newer
	// operations having superseded them.
	playGen    uint64
	advanceGen uint64

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates the playback engine, restores persisted state and starts
// consuming backend events.
func New(p player.Interface, store state.Interface, reporter views.Interface, log zerolog.Logger) Service {
	e := &engine{
		player:     p,
		queue:      playlist.NewQueue(),
		store:      store,
		reporter:   reporter,
		log:        log.With().Str("component", "playback").Logger(),
		volume:     p.Volume(),
		prevVolume: defaultPreviousVolume,
		sessionID:  uuid.NewString(),
		done:       make(chan struct{}),
	}
	e.restore()
	go e.eventLoop()
	return e
}

// restore loads the persisted queue, modes and volume. Failures are logged
// and treated as no saved state.
func (e *engine) restore() {
	saved, err := e.store.GetQueue()
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to load saved playback state, starting fresh")
		return
	}

	if len(saved.Tracks) > 0 && saved.CurrentIndex >= 0 {
		e.queue.Restore(saved.Tracks, saved.OriginalTracks, saved.CurrentIndex, saved.Shuffle, saved.RepeatMode)
		e.current = e.queue.Current()
	}

	if saved.Volume >= 0 && saved.Volume <= 100 {
		e.volume = saved.Volume
		e.player.SetVolume(saved.Volume)
	}
	if saved.PreviousVolume > 0 {
		e.prevVolume = saved.PreviousVolume
	}
	e.queueOpen = saved.QueueOpen

	e.log.Debug().
		Int("tracks", e.queue.Len()).
		Int("index", e.queue.CurrentIndex()).
		Bool("shuffle", e.queue.Shuffled()).
		Str("repeat", e.queue.RepeatMode().String()).
		Msg("restored playback state")
}

// PlayTrack plays the given track. If it is in the queue, playback jumps to
// its position. If the queue is empty the lookup is retried once after a
// short delay, covering the race with a SetTrackList call still landing.
// Otherwise the queue is replaced with just this track.
func (e *engine) PlayTrack(t playlist.Track) {
	e.mu.Lock()
	e.playGen++
	gen := e.playGen

	if idx := e.queue.IndexOf(t.ID); idx >= 0 {
		prevIndex := e.queue.CurrentIndex()
		e.queue.JumpTo(idx)
		toPlay := e.startLocked(t, prevIndex)
		e.persistLocked()
		e.mu.Unlock()
		e.command(toPlay)
		return
	}

	if e.queue.IsEmpty() {
		e.mu.Unlock()
		time.AfterFunc(lookupRetryDelay, func() {
			e.retryPlay(gen, t)
		})
		return
	}

	toPlay := e.playSoloLocked(t)
	e.mu.Unlock()
	e.command(toPlay)
}

// retryPlay re-runs the queue lookup for a track that was requested while
// the queue was empty. A newer play operation invalidates it.
func (e *engine) retryPlay(gen uint64, t playlist.Track) {
	e.mu.Lock()
	if e.closed || gen != e.playGen {
		e.mu.Unlock()
		return
	}

	var toPlay *playlist.Track
	if idx := e.queue.IndexOf(t.ID); idx >= 0 {
		prevIndex := e.queue.CurrentIndex()
		e.queue.JumpTo(idx)
		toPlay = e.startLocked(t, prevIndex)
		e.persistLocked()
	} else {
		toPlay = e.playSoloLocked(t)
	}
	e.mu.Unlock()
	e.command(toPlay)
}

// playSoloLocked replaces the whole queue with the single given track,
// resetting shuffle and repeat, then starts it.
func (e *engine) playSoloLocked(t playlist.Track) *playlist.Track {
	prevIndex := e.queue.CurrentIndex()
	e.queue.Replace(t)
	toPlay := e.startLocked(t, prevIndex)
	e.persistLocked()
	e.broadcastQueueLocked()
	e.broadcastModeLocked()
	return toPlay
}

// startLocked marks t as the current track with the transport optimistically
// playing, resets the view session and returns the track to hand to the
// backend once the lock is released. prevIndex is the queue index before the
// caller moved it.
func (e *engine) startLocked(t playlist.Track, prevIndex int) *playlist.Track {
	e.advanceGen++

	prev := e.current

	track := t
	e.current = &track
	e.isPlaying = true
	e.lastErr = nil
	e.position = 0
	e.resetViewLocked()

	if prev == nil || prev.ID != t.ID {
		e.broadcast(func(s *Subscription) {
			s.sendTrack(TrackChange{
				Previous:      prev,
				Current:       e.current,
				PreviousIndex: prevIndex,
				Index:         e.queue.CurrentIndex(),
			})
		})
	}
	e.broadcast(func(s *Subscription) { s.sendState(StateChange{IsPlaying: true}) })

	return &track
}

// command hands a track to the backend. Backend failures flip the transport
// back to not-playing and surface as an error event.
func (e *engine) command(t *playlist.Track) {
	if t == nil {
		return
	}
	if err := e.player.PlayTrack(*t); err != nil {
		e.mu.Lock()
		e.isPlaying = false
		e.lastErr = err
		e.mu.Unlock()
		e.log.Error().Err(err).Int64("track_id", t.ID).Msg("playback failed")
		e.broadcast(func(s *Subscription) {
			s.sendError(ErrorEvent{Operation: "play", Err: err})
			s.sendState(StateChange{IsPlaying: false})
		})
	}
}

// SetTrackList replaces the queue with the given tracks, resets the current
// index to 0 and forces shuffle and repeat off. It does not start playback.
func (e *engine) SetTrackList(tracks []playlist.Track) {
	e.mu.Lock()
	// Deliberately leaves a pending PlayTrack retry valid: the retry exists
	// to pick up a track list that lands right after the play request.
	e.queue.Replace(tracks...)
	e.current = e.queue.Current()
	e.persistLocked()
	e.broadcastQueueLocked()
	e.broadcastModeLocked()
	e.mu.Unlock()
}

// TogglePlayPause delegates to the backend; local transport state only flips
// when the backend's own play/pause event arrives.
func (e *engine) TogglePlayPause() {
	e.player.TogglePlayPause()
}

// PlayNext skips to the next track using the same computation as
// auto-advance. At the end of the queue with repeat off, playback stops.
func (e *engine) PlayNext() {
	e.mu.Lock()
	e.playGen++
	if e.queue.IsEmpty() {
		e.mu.Unlock()
		return
	}

	prevIndex := e.queue.CurrentIndex()
	next := e.queue.Advance()
	if next == nil {
		e.isPlaying = false
		e.persistLocked()
		e.mu.Unlock()
		e.player.Stop()
		e.broadcast(func(s *Subscription) { s.sendState(StateChange{IsPlaying: false}) })
		return
	}

	toPlay := e.startLocked(*next, prevIndex)
	e.persistLocked()
	e.mu.Unlock()
	e.command(toPlay)
}

// PlayPrevious skips to the previous track, wrapping circularly from the
// first track to the last regardless of repeat mode.
func (e *engine) PlayPrevious() {
	e.mu.Lock()
	e.playGen++
	prevIndex := e.queue.CurrentIndex()
	prev := e.queue.Previous()
	if prev == nil {
		e.mu.Unlock()
		return
	}

	toPlay := e.startLocked(*prev, prevIndex)
	e.persistLocked()
	e.mu.Unlock()
	e.command(toPlay)
}

// JumpTo plays the track at the given queue index. Out-of-range indexes are
// ignored.
func (e *engine) JumpTo(index int) {
	e.mu.Lock()
	if index < 0 || index >= e.queue.Len() {
		e.mu.Unlock()
		return
	}
	e.playGen++
	prevIndex := e.queue.CurrentIndex()
	t := e.queue.JumpTo(index)
	toPlay := e.startLocked(*t, prevIndex)
	e.persistLocked()
	e.mu.Unlock()
	e.command(toPlay)
}

// SeekTo moves playback to the given position.
func (e *engine) SeekTo(position time.Duration) {
	e.player.SeekTo(position)
}

// RemoveFromQueue removes the track from the active queue. While shuffle is
// on the original order is left untouched, so disabling shuffle restores the
// full pre-shuffle list. Removing the current track starts the track now at
// its clamped position, or stops playback if the queue emptied.
func (e *engine) RemoveFromQueue(trackID int64) {
	e.mu.Lock()
	removedCurrent, found := e.queue.Remove(trackID)
	if !found {
		e.mu.Unlock()
		return
	}

	var toPlay *playlist.Track
	stopped := false
	switch {
	case removedCurrent && e.queue.IsEmpty():
		e.playGen++
		e.advanceGen++
		e.current = nil
		e.isPlaying = false
		stopped = true
	case removedCurrent:
		e.playGen++
		toPlay = e.startLocked(*e.queue.Current(), e.queue.CurrentIndex())
	default:
		// Queue.Remove already relocated the current index.
	}

	e.persistLocked()
	e.broadcastQueueLocked()
	e.mu.Unlock()

	if stopped {
		e.player.Stop()
		e.broadcast(func(s *Subscription) { s.sendState(StateChange{IsPlaying: false}) })
		return
	}
	e.command(toPlay)
}

// ReorderQueue moves one track to a new position. The current index is
// relocated by track identity afterwards.
func (e *engine) ReorderQueue(fromIndex, toIndex int) {
	e.mu.Lock()
	if !e.queue.Move(fromIndex, toIndex) {
		e.mu.Unlock()
		return
	}
	e.persistLocked()
	e.broadcastQueueLocked()
	e.mu.Unlock()
}

// ToggleShuffle flips shuffle mode and returns the new value. Enabling
// shuffles the original order with the current track moved to the front;
// disabling restores the original order at the current track's position.
func (e *engine) ToggleShuffle() bool {
	e.mu.Lock()
	on := e.queue.ToggleShuffle()
	e.current = e.queue.Current()
	e.persistLocked()
	e.broadcastQueueLocked()
	e.broadcastModeLocked()
	e.mu.Unlock()
	return on
}

// CycleRepeat advances repeat mode through none, all, one and returns the
// new mode.
func (e *engine) CycleRepeat() playlist.RepeatMode {
	e.mu.Lock()
	mode := e.queue.CycleRepeatMode()
	e.persistLocked()
	e.broadcastModeLocked()
	e.mu.Unlock()
	return mode
}

// SetRepeatMode sets the repeat mode directly.
func (e *engine) SetRepeatMode(mode playlist.RepeatMode) {
	e.mu.Lock()
	e.queue.SetRepeatMode(mode)
	e.persistLocked()
	e.broadcastModeLocked()
	e.mu.Unlock()
}

// ChangeVolume sets the volume (0-100), remembering the level being left as
// the pre-mute restore point when it was non-zero.
func (e *engine) ChangeVolume(level int) {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	e.mu.Lock()
	if level != e.volume && e.volume > 0 {
		e.prevVolume = e.volume
	}
	e.volume = level
	e.persistLocked()
	e.broadcastVolumeLocked()
	e.mu.Unlock()

	e.player.SetVolume(level)
}

// ToggleMute mutes by dropping the volume to 0, or restores the last
// non-zero volume (default 80 when none was recorded).
func (e *engine) ToggleMute() {
	e.mu.Lock()
	var level int
	if e.volume == 0 {
		level = e.prevVolume
		if level == 0 {
			level = defaultPreviousVolume
		}
	} else {
		e.prevVolume = e.volume
		level = 0
	}
	e.volume = level
	e.persistLocked()
	e.broadcastVolumeLocked()
	e.mu.Unlock()

	e.player.SetVolume(level)
}

// ToggleQueue flips the queue panel visibility flag and returns the new
// value.
func (e *engine) ToggleQueue() bool {
	e.mu.Lock()
	e.queueOpen = !e.queueOpen
	open := e.queueOpen
	e.persistLocked()
	e.mu.Unlock()
	return open
}

// Status returns a consistent snapshot of the engine state.
func (e *engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	var current *playlist.Track
	if e.current != nil {
		t := *e.current
		current = &t
	}

	var lastErr string
	if e.lastErr != nil {
		lastErr = e.lastErr.Error()
	}

	return Status{
		CurrentTrack: current,
		Tracks:       e.queue.Tracks(),
		CurrentIndex: e.queue.CurrentIndex(),
		IsPlaying:    e.isPlaying,
		Shuffled:     e.queue.Shuffled(),
		RepeatMode:   e.queue.RepeatMode(),
		Position:     e.position,
		Duration:     e.duration,
		Volume:       e.volume,
		Muted:        e.volume == 0,
		QueueOpen:    e.queueOpen,
		LastError:    lastErr,
	}
}

// Subscribe creates a new event subscription.
func (e *engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	e.subs = append(e.subs, sub)
	return sub
}

// Unsubscribe removes and closes the subscription.
func (e *engine) Unsubscribe(sub *Subscription) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for i, s := range e.subs {
		if s == sub {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			sub.close()
			return
		}
	}
}

// Close shuts down the engine and flushes pending persisted state.
func (e *engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.done)
	e.mu.Unlock()

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	return e.store.Flush()
}

// eventLoop consumes backend events until the engine closes.
func (e *engine) eventLoop() {
	for {
		select {
		case <-e.done:
			return
		case ev, ok := <-e.player.Events():
			if !ok {
				return
			}
			e.handlePlayerEvent(ev)
		}
	}
}

func (e *engine) handlePlayerEvent(ev player.Event) {
	switch ev := ev.(type) {
	case player.PlayEvent:
		e.mu.Lock()
		changed := !e.isPlaying
		e.isPlaying = true
		e.mu.Unlock()
		if changed {
			e.broadcast(func(s *Subscription) { s.sendState(StateChange{IsPlaying: true}) })
		}

	case player.PauseEvent:
		e.mu.Lock()
		changed := e.isPlaying
		e.isPlaying = false
		e.mu.Unlock()
		if changed {
			e.broadcast(func(s *Subscription) { s.sendState(StateChange{IsPlaying: false}) })
		}

	case player.EndedEvent:
		e.handleTrackFinished()

	case player.TimeUpdateEvent:
		e.handleTimeUpdate(ev)

	case player.VolumeChangeEvent:
		// The engine is the sole volume writer; the backend echo only
		// confirms it. Nothing to reconcile.

	case player.ErrorEvent:
		e.mu.Lock()
		e.isPlaying = false
		e.lastErr = ev.Err
		e.mu.Unlock()
		e.log.Error().Err(ev.Err).Msg("backend playback error")
		e.broadcast(func(s *Subscription) {
			s.sendError(ErrorEvent{Operation: "play", Err: ev.Err})
			s.sendState(StateChange{IsPlaying: false})
		})
	}
}

// handleTrackFinished advances per repeat mode when a track ends naturally.
// The play command is issued after a settle delay so the backend finishes
// tearing down the drained source first.
func (e *engine) handleTrackFinished() {
	e.mu.Lock()
	e.isPlaying = false
	e.advanceGen++
	gen := e.advanceGen
	hasNext := !e.queue.IsEmpty() && e.queue.NextIndex() >= 0
	e.persistLocked()
	e.mu.Unlock()

	if !hasNext {
		// Queue exhausted under repeat none; the current track stays as the
		// last one played.
		e.broadcast(func(s *Subscription) { s.sendState(StateChange{IsPlaying: false}) })
		return
	}

	time.AfterFunc(advanceSettleDelay, func() {
		e.autoAdvance(gen)
	})
}

func (e *engine) autoAdvance(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.advanceGen {
		e.mu.Unlock()
		return
	}

	prevIndex := e.queue.CurrentIndex()
	next := e.queue.Advance()
	if next == nil {
		e.mu.Unlock()
		return
	}

	toPlay := e.startLocked(*next, prevIndex)
	e.persistLocked()
	e.mu.Unlock()
	e.command(toPlay)
}

func (e *engine) handleTimeUpdate(ev player.TimeUpdateEvent) {
	e.mu.Lock()
	e.position = ev.Position
	e.duration = ev.Duration

	var report *views.Report
	var seq uint64
	if e.current != nil && !e.viewRecorded && !e.viewInFlight && time.Since(e.viewStart) >= viewThreshold {
		e.viewInFlight = true
		seq = e.viewSeq
		report = &views.Report{
			TrackID:   e.current.ID,
			SessionID: e.sessionID,
			Duration:  time.Since(e.viewStart),
		}
	}
	e.mu.Unlock()

	e.broadcast(func(s *Subscription) {
		s.sendPosition(PositionChange{Position: ev.Position, Duration: ev.Duration})
	})

	if report != nil {
		go e.reportView(seq, *report)
	}
}

// resetViewLocked starts a fresh view session for a new playback attempt.
func (e *engine) resetViewLocked() {
	e.viewSeq++
	e.viewStart = time.Now()
	e.viewRecorded = false
	e.viewInFlight = false
}

// reportView submits one listening session. Results are applied only if the
// session is still current: a success or server rejection marks it recorded
// permanently, a network failure leaves it eligible for retry.
func (e *engine) reportView(seq uint64, r views.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := e.reporter.Report(ctx, r)

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.viewSeq {
		return
	}

	switch {
	case err == nil:
		e.viewRecorded = true
		e.viewInFlight = false
		e.log.Debug().Int64("track_id", r.TrackID).Msg("view recorded")
	case errors.Is(err, views.ErrRejected):
		e.viewRecorded = true
		e.viewInFlight = false
		e.log.Warn().Err(err).Int64("track_id", r.TrackID).Msg("view report rejected, not retrying")
	default:
		e.viewInFlight = false
		e.log.Warn().Err(err).Int64("track_id", r.TrackID).Msg("view report failed, will retry")
	}
}

// persistLocked writes the full queue snapshot. All queue keys are written
// together so a reload never observes partial state.
func (e *engine) persistLocked() {
	e.store.SaveQueue(state.QueueState{
		CurrentIndex:   e.queue.CurrentIndex(),
		RepeatMode:     e.queue.RepeatMode(),
		Shuffle:        e.queue.Shuffled(),
		Volume:         e.volume,
		PreviousVolume: e.prevVolume,
		Muted:          e.volume == 0,
		QueueOpen:      e.queueOpen,
		Tracks:         e.queue.Tracks(),
		OriginalTracks: e.queue.OriginalTracks(),
	})
}

func (e *engine) broadcast(send func(*Subscription)) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		send(sub)
	}
}

func (e *engine) broadcastQueueLocked() {
	ev := QueueChange{Tracks: e.queue.Tracks(), Index: e.queue.CurrentIndex()}
	e.broadcast(func(s *Subscription) { s.sendQueue(ev) })
}

func (e *engine) broadcastModeLocked() {
	ev := ModeChange{RepeatMode: e.queue.RepeatMode(), Shuffle: e.queue.Shuffled()}
	e.broadcast(func(s *Subscription) { s.sendMode(ev) })
}

func (e *engine) broadcastVolumeLocked() {
	ev := VolumeChange{Volume: e.volume, Muted: e.volume == 0}
	e.broadcast(func(s *Subscription) { s.sendVolume(ev) })
}
