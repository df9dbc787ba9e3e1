package playback

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgranjon/reverb/internal/player"
	"github.com/tgranjon/reverb/internal/playlist"
	"github.com/tgranjon/reverb/internal/state"
	"github.com/tgranjon/reverb/internal/views"
)

func track(id int64, title string) playlist.Track {
	return playlist.Track{
		ID:        id,
		Title:     title,
		Duration:  3 * time.Minute,
		SourceURL: fmt.Sprintf("https://media.example.com/%d.mp3", id),
	}
}

func newTestEngine(t *testing.T) (*engine, *player.Mock, *state.Mock, *views.Mock) {
	t.Helper()
	backend := player.NewMock()
	store := state.NewMock()
	reporter := views.NewMock()
	svc := New(backend, store, reporter, zerolog.Nop())
	e := svc.(*engine)
	t.Cleanup(func() { e.Close() })
	return e, backend, store, reporter
}

// waitUntil polls cond until it holds or the deadline expires.
func waitUntil(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}

// backdateViewStart moves the view session start into the past so the
// threshold check trips on the next time update.
func backdateViewStart(e *engine, d time.Duration) {
	e.mu.Lock()
	e.viewStart = time.Now().Add(-d)
	e.mu.Unlock()
}

func TestSetTrackList_ReplacesQueueAndResetsModes(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b")})
	e.ToggleShuffle()
	e.CycleRepeat()

	e.SetTrackList([]playlist.Track{track(3, "c"), track(4, "d"), track(5, "e")})

	st := e.Status()
	if len(st.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, want 3", len(st.Tracks))
	}
	if st.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", st.CurrentIndex)
	}
	if st.Shuffled {
		t.Error("Shuffled = true, want false")
	}
	if st.RepeatMode != playlist.RepeatOff {
		t.Errorf("RepeatMode = %v, want RepeatOff", st.RepeatMode)
	}
	if st.IsPlaying {
		t.Error("IsPlaying = true, want false: SetTrackList must not start playback")
	}
}

func TestPlayTrack_InQueue_JumpsToIt(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})

	e.PlayTrack(track(2, "b"))

	st := e.Status()
	if st.CurrentTrack == nil || st.CurrentTrack.ID != 2 {
		t.Fatalf("CurrentTrack = %+v, want track 2", st.CurrentTrack)
	}
	if st.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", st.CurrentIndex)
	}
	if !st.IsPlaying {
		t.Error("IsPlaying = false, want true (optimistic)")
	}
	if played := backend.Played(); len(played) != 1 || played[0].ID != 2 {
		t.Errorf("backend played %+v, want [track 2]", played)
	}
}

func TestPlayTrack_NotInQueue_FallsBackToSoloQueue(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b")})
	e.ToggleShuffle()
	e.CycleRepeat()

	e.PlayTrack(track(9, "x"))

	st := e.Status()
	if len(st.Tracks) != 1 || st.Tracks[0].ID != 9 {
		t.Fatalf("Tracks = %+v, want [track 9]", st.Tracks)
	}
	if st.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", st.CurrentIndex)
	}
	if st.Shuffled {
		t.Error("Shuffled = true, want false after solo fallback")
	}
	if st.RepeatMode != playlist.RepeatOff {
		t.Errorf("RepeatMode = %v, want RepeatOff after solo fallback", st.RepeatMode)
	}
}

func TestPlayTrack_EmptyQueue_RetryFindsLateTrackList(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	e.PlayTrack(track(2, "b"))
	// The list lands while the lookup retry is pending.
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})

	waitUntil(t, func() bool {
		st := e.Status()
		return st.CurrentTrack != nil && st.CurrentTrack.ID == 2 && st.IsPlaying
	}, "retry should find track 2 in the late track list")

	st := e.Status()
	if len(st.Tracks) != 3 {
		t.Errorf("len(Tracks) = %d, want 3: the full list must survive", len(st.Tracks))
	}
	if st.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", st.CurrentIndex)
	}
}

func TestPlayTrack_EmptyQueue_RetryFallsBackToSolo(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	e.PlayTrack(track(7, "g"))

	waitUntil(t, func() bool {
		st := e.Status()
		return len(st.Tracks) == 1 && st.Tracks[0].ID == 7
	}, "retry should fall back to a solo queue")
}

func TestAutoAdvance_RepeatNone_StopsAtQueueEnd(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	e.JumpTo(2)

	backend.EmitEnded()

	waitUntil(t, func() bool { return !e.Status().IsPlaying }, "playback should stop")

	// Give a would-be advance time to fire, then check nothing played.
	time.Sleep(2 * advanceSettleDelay)
	st := e.Status()
	if st.CurrentTrack == nil || st.CurrentTrack.ID != 3 {
		t.Errorf("CurrentTrack = %+v, want track 3 to remain current", st.CurrentTrack)
	}
	if played := backend.Played(); len(played) != 1 {
		t.Errorf("backend played %d tracks, want 1 (no auto-advance)", len(played))
	}
}

func TestAutoAdvance_RepeatAll_WrapsToFirst(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	e.SetRepeatMode(playlist.RepeatAll)
	e.JumpTo(2)

	backend.EmitEnded()

	waitUntil(t, func() bool {
		st := e.Status()
		return st.CurrentTrack != nil && st.CurrentTrack.ID == 1 && st.IsPlaying
	}, "should wrap to track 1 and play")

	if st := e.Status(); st.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", st.CurrentIndex)
	}
}

func TestAutoAdvance_RepeatOne_ReplaysSameTrack(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	e.SetRepeatMode(playlist.RepeatOne)
	e.JumpTo(1)

	backend.EmitEnded()

	waitUntil(t, func() bool { return len(backend.Played()) == 2 }, "track 2 should replay")

	played := backend.Played()
	if played[0].ID != 2 || played[1].ID != 2 {
		t.Errorf("backend played %+v, want track 2 twice", played)
	}
	if st := e.Status(); st.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1 (unchanged)", st.CurrentIndex)
	}
}

func TestPlayNext_AtEndWithRepeatOff_Stops(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b")})
	e.JumpTo(1)

	e.PlayNext()

	st := e.Status()
	if st.IsPlaying {
		t.Error("IsPlaying = true, want false at queue end")
	}
	if backend.State() != player.Stopped {
		t.Errorf("backend state = %v, want Stopped", backend.State())
	}
}

func TestPlayPrevious_WrapsCircularly(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	e.JumpTo(0)

	e.PlayPrevious()

	st := e.Status()
	if st.CurrentTrack == nil || st.CurrentTrack.ID != 3 {
		t.Fatalf("CurrentTrack = %+v, want track 3 (wrap)", st.CurrentTrack)
	}
	if !st.IsPlaying {
		t.Error("IsPlaying = false, want true")
	}
}

func TestTogglePlayPause_RoundTrip(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)
	waitUntil(t, func() bool { return e.Status().IsPlaying }, "should start playing")

	e.TogglePlayPause()
	waitUntil(t, func() bool { return !e.Status().IsPlaying }, "should pause")

	e.TogglePlayPause()
	waitUntil(t, func() bool { return e.Status().IsPlaying }, "should resume")
}

func TestToggleShuffle_RoundTripRestoresOrder(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	tracks := []playlist.Track{track(1, "a"), track(2, "b"), track(3, "c"), track(4, "d")}
	e.SetTrackList(tracks)
	e.JumpTo(2)

	before := e.Status().CurrentTrack.ID

	if on := e.ToggleShuffle(); !on {
		t.Fatal("ToggleShuffle() = false, want true")
	}
	st := e.Status()
	if st.CurrentIndex != 0 {
		t.Errorf("shuffled CurrentIndex = %d, want 0 (current swapped to front)", st.CurrentIndex)
	}
	if st.CurrentTrack.ID != before {
		t.Errorf("CurrentTrack changed to %d during shuffle, want %d", st.CurrentTrack.ID, before)
	}

	if on := e.ToggleShuffle(); on {
		t.Fatal("ToggleShuffle() = true, want false")
	}
	st = e.Status()
	for i, tr := range st.Tracks {
		if tr.ID != tracks[i].ID {
			t.Errorf("Tracks[%d].ID = %d, want %d (original order restored)", i, tr.ID, tracks[i].ID)
		}
	}
	if st.CurrentTrack.ID != before {
		t.Errorf("CurrentTrack = %d after round trip, want %d", st.CurrentTrack.ID, before)
	}
	if st.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2 (relocated by identity)", st.CurrentIndex)
	}
}

func TestCycleRepeat_ThreeTogglesReturnToStart(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	if mode := e.CycleRepeat(); mode != playlist.RepeatAll {
		t.Errorf("first CycleRepeat() = %v, want RepeatAll", mode)
	}
	if mode := e.CycleRepeat(); mode != playlist.RepeatOne {
		t.Errorf("second CycleRepeat() = %v, want RepeatOne", mode)
	}
	if mode := e.CycleRepeat(); mode != playlist.RepeatOff {
		t.Errorf("third CycleRepeat() = %v, want RepeatOff", mode)
	}
}

func TestToggleMute_RestoresPreviousVolume(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)

	e.ChangeVolume(40)
	e.ToggleMute()

	st := e.Status()
	if st.Volume != 0 || !st.Muted {
		t.Fatalf("after mute: Volume = %d, Muted = %v, want 0/true", st.Volume, st.Muted)
	}
	if backend.Volume() != 0 {
		t.Errorf("backend volume = %d, want 0", backend.Volume())
	}

	e.ToggleMute()
	st = e.Status()
	if st.Volume != 40 || st.Muted {
		t.Fatalf("after unmute: Volume = %d, Muted = %v, want 40/false", st.Volume, st.Muted)
	}
}

func TestToggleMute_DefaultsTo80WithoutPreviousVolume(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	e.mu.Lock()
	e.volume = 0
	e.prevVolume = 0
	e.mu.Unlock()

	e.ToggleMute()
	if st := e.Status(); st.Volume != 80 {
		t.Errorf("Volume = %d, want default 80", st.Volume)
	}
}

func TestToggleMute_SurvivesRepeatedToggling(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	e.ChangeVolume(55)
	for i := 0; i < 3; i++ {
		e.ToggleMute()
		e.ToggleMute()
	}
	if st := e.Status(); st.Volume != 55 {
		t.Errorf("Volume = %d after repeated toggling, want 55", st.Volume)
	}
}

func TestRemoveFromQueue_CurrentTrack_PlaysClampedPosition(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	e.JumpTo(1)

	e.RemoveFromQueue(2)

	st := e.Status()
	if st.CurrentTrack == nil || st.CurrentTrack.ID != 3 {
		t.Fatalf("CurrentTrack = %+v, want track 3", st.CurrentTrack)
	}
	if !st.IsPlaying {
		t.Error("IsPlaying = false, want true: removing the current track plays the next")
	}
}

func TestRemoveFromQueue_LastTrack_StopsAndClears(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)

	e.RemoveFromQueue(1)

	st := e.Status()
	if st.CurrentTrack != nil {
		t.Errorf("CurrentTrack = %+v, want nil", st.CurrentTrack)
	}
	if st.IsPlaying {
		t.Error("IsPlaying = true, want false")
	}
	if backend.State() != player.Stopped {
		t.Errorf("backend state = %v, want Stopped", backend.State())
	}
}

func TestRemoveFromQueue_BeforeCurrent_RelocatesIndex(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	e.JumpTo(2)

	e.RemoveFromQueue(1)

	st := e.Status()
	if st.CurrentTrack == nil || st.CurrentTrack.ID != 3 {
		t.Fatalf("CurrentTrack = %+v, want track 3 unchanged", st.CurrentTrack)
	}
	if st.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1 after shift", st.CurrentIndex)
	}
}

func TestReorderQueue_RelocatesCurrentByIdentity(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	e.JumpTo(0)

	e.ReorderQueue(0, 2)

	st := e.Status()
	if st.CurrentTrack == nil || st.CurrentTrack.ID != 1 {
		t.Fatalf("CurrentTrack = %+v, want track 1", st.CurrentTrack)
	}
	if st.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2 (followed the moved track)", st.CurrentIndex)
	}
}

func TestJumpTo_OutOfRangeIsNoOp(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a")})

	e.JumpTo(5)
	e.JumpTo(-1)

	if played := backend.Played(); len(played) != 0 {
		t.Errorf("backend played %+v, want nothing", played)
	}
}

func TestIndexInvariant_AfterOperationSequence(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b"), track(3, "c"), track(4, "d")})

	check := func(op string) {
		st := e.Status()
		if len(st.Tracks) > 0 && (st.CurrentIndex < 0 || st.CurrentIndex >= len(st.Tracks)) {
			t.Fatalf("after %s: CurrentIndex = %d out of bounds for %d tracks", op, st.CurrentIndex, len(st.Tracks))
		}
	}

	e.JumpTo(3)
	check("JumpTo")
	e.ToggleShuffle()
	check("ToggleShuffle on")
	e.RemoveFromQueue(2)
	check("RemoveFromQueue")
	e.ReorderQueue(0, 1)
	check("ReorderQueue")
	e.PlayNext()
	check("PlayNext")
	e.ToggleShuffle()
	check("ToggleShuffle off")
	e.PlayPrevious()
	check("PlayPrevious")
}

func TestViewReport_FiresOnceAfterThreshold(t *testing.T) {
	e, backend, _, reporter := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)

	backdateViewStart(e, viewThreshold+time.Second)
	backend.EmitTimeUpdate(16*time.Second, 3*time.Minute)

	waitUntil(t, func() bool { return len(reporter.Reports()) == 1 }, "one view report should fire")

	// Further time updates must not produce another report.
	backend.EmitTimeUpdate(20*time.Second, 3*time.Minute)
	backend.EmitTimeUpdate(25*time.Second, 3*time.Minute)
	time.Sleep(50 * time.Millisecond)

	reports := reporter.Reports()
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want exactly 1", len(reports))
	}
	if reports[0].TrackID != 1 {
		t.Errorf("reported TrackID = %d, want 1", reports[0].TrackID)
	}
	if reports[0].SessionID == "" {
		t.Error("reported SessionID is empty")
	}
	if reports[0].Duration < viewThreshold {
		t.Errorf("reported Duration = %v, want >= %v", reports[0].Duration, viewThreshold)
	}
}

func TestViewReport_NotBeforeThreshold(t *testing.T) {
	e, backend, _, reporter := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)

	backend.EmitTimeUpdate(5*time.Second, 3*time.Minute)
	time.Sleep(50 * time.Millisecond)

	if n := reporter.Attempts(); n != 0 {
		t.Errorf("got %d report attempts before threshold, want 0", n)
	}
}

func TestViewReport_NetworkFailureRetries(t *testing.T) {
	e, backend, _, reporter := newTestEngine(t)
	reporter.FailTimes = 1
	reporter.Err = errors.New("connection refused")

	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)

	backdateViewStart(e, viewThreshold+time.Second)
	backend.EmitTimeUpdate(16*time.Second, 3*time.Minute)
	waitUntil(t, func() bool { return reporter.Attempts() == 1 }, "first attempt should fail")

	backend.EmitTimeUpdate(17*time.Second, 3*time.Minute)
	waitUntil(t, func() bool { return len(reporter.Reports()) == 1 }, "retry should succeed")
}

func TestViewReport_RejectionIsPermanent(t *testing.T) {
	e, backend, _, reporter := newTestEngine(t)
	reporter.FailTimes = 1
	reporter.Err = fmt.Errorf("%w: bad duration", views.ErrRejected)

	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)

	backdateViewStart(e, viewThreshold+time.Second)
	backend.EmitTimeUpdate(16*time.Second, 3*time.Minute)
	waitUntil(t, func() bool { return reporter.Attempts() == 1 }, "first attempt should be rejected")

	backend.EmitTimeUpdate(17*time.Second, 3*time.Minute)
	backend.EmitTimeUpdate(18*time.Second, 3*time.Minute)
	time.Sleep(50 * time.Millisecond)

	if n := reporter.Attempts(); n != 1 {
		t.Errorf("got %d attempts, want 1: rejection must not be retried", n)
	}
}

func TestViewReport_NewPlaybackResetsSession(t *testing.T) {
	e, backend, _, reporter := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)

	backdateViewStart(e, viewThreshold+time.Second)
	backend.EmitTimeUpdate(16*time.Second, 3*time.Minute)
	waitUntil(t, func() bool { return len(reporter.Reports()) == 1 }, "first session reports")

	// Replaying the same track is a fresh playback intent.
	e.PlayTrack(track(1, "a"))
	backdateViewStart(e, viewThreshold+time.Second)
	backend.EmitTimeUpdate(16*time.Second, 3*time.Minute)
	waitUntil(t, func() bool { return len(reporter.Reports()) == 2 }, "second session reports")
}

func TestBackendError_StopsPlayingAndSetsError(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a")})
	e.JumpTo(0)
	waitUntil(t, func() bool { return e.Status().IsPlaying }, "should be playing")

	backend.EmitError(errors.New("decode failed"))

	waitUntil(t, func() bool {
		st := e.Status()
		return !st.IsPlaying && st.LastError != ""
	}, "error should stop playback and set the error flag")
}

func TestPlayTrack_ClearsPreviousError(t *testing.T) {
	e, backend, _, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b")})
	e.JumpTo(0)

	backend.EmitError(errors.New("decode failed"))
	waitUntil(t, func() bool { return e.Status().LastError != "" }, "error flag set")

	e.PlayTrack(track(2, "b"))
	if st := e.Status(); st.LastError != "" {
		t.Errorf("LastError = %q, want cleared", st.LastError)
	}
}

func TestPersistence_MutationsAreSaved(t *testing.T) {
	e, _, store, _ := newTestEngine(t)
	e.SetTrackList([]playlist.Track{track(1, "a"), track(2, "b")})
	e.JumpTo(1)
	e.CycleRepeat()

	saved := store.Saved()
	if saved == nil {
		t.Fatal("no state saved")
	}
	if saved.CurrentIndex != 1 {
		t.Errorf("saved CurrentIndex = %d, want 1", saved.CurrentIndex)
	}
	if saved.RepeatMode != playlist.RepeatAll {
		t.Errorf("saved RepeatMode = %v, want RepeatAll", saved.RepeatMode)
	}
	if len(saved.Tracks) != 2 || len(saved.OriginalTracks) != 2 {
		t.Errorf("saved %d/%d tracks, want 2/2", len(saved.Tracks), len(saved.OriginalTracks))
	}
}

func TestPersistence_RestoreOnStartup(t *testing.T) {
	backend := player.NewMock()
	store := state.NewMock()
	store.Seed(state.QueueState{
		CurrentIndex:   1,
		RepeatMode:     playlist.RepeatAll,
		Shuffle:        false,
		Volume:         35,
		PreviousVolume: 70,
		QueueOpen:      true,
		Tracks:         []playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")},
		OriginalTracks: []playlist.Track{track(1, "a"), track(2, "b"), track(3, "c")},
	})

	svc := New(backend, store, views.NewMock(), zerolog.Nop())
	defer svc.Close()

	st := svc.Status()
	if len(st.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, want 3", len(st.Tracks))
	}
	if st.CurrentTrack == nil || st.CurrentTrack.ID != 2 {
		t.Errorf("CurrentTrack = %+v, want track 2", st.CurrentTrack)
	}
	if st.RepeatMode != playlist.RepeatAll {
		t.Errorf("RepeatMode = %v, want RepeatAll", st.RepeatMode)
	}
	if st.Volume != 35 {
		t.Errorf("Volume = %d, want 35", st.Volume)
	}
	if !st.QueueOpen {
		t.Error("QueueOpen = false, want true")
	}
	if st.IsPlaying {
		t.Error("IsPlaying = true, want false: restore must not start playback")
	}
	if backend.Volume() != 35 {
		t.Errorf("backend volume = %d, want 35", backend.Volume())
	}
}

func TestPersistence_LoadFailureStartsFresh(t *testing.T) {
	backend := player.NewMock()
	store := state.NewMock()
	store.GetErr = errors.New("disk corrupted")

	svc := New(backend, store, views.NewMock(), zerolog.Nop())
	defer svc.Close()

	st := svc.Status()
	if len(st.Tracks) != 0 {
		t.Errorf("len(Tracks) = %d, want 0", len(st.Tracks))
	}
	if st.CurrentTrack != nil {
		t.Errorf("CurrentTrack = %+v, want nil", st.CurrentTrack)
	}
}

func TestToggleQueue_FlipsAndPersists(t *testing.T) {
	e, _, store, _ := newTestEngine(t)

	if open := e.ToggleQueue(); !open {
		t.Error("ToggleQueue() = false, want true")
	}
	if saved := store.Saved(); saved == nil || !saved.QueueOpen {
		t.Error("QueueOpen not persisted as true")
	}
	if open := e.ToggleQueue(); open {
		t.Error("second ToggleQueue() = true, want false")
	}
}
