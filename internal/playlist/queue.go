package playlist

import "math/rand/v2"

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "none"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// ParseRepeatMode parses a repeat mode name as produced by String.
// Unknown names map to RepeatOff.
func ParseRepeatMode(s string) RepeatMode {
	switch s {
	case "all":
		return RepeatAll
	case "one":
		return RepeatOne
	default:
		return RepeatOff
	}
}

// PlayingQueue holds the active play order plus the original, pre-shuffle
// order. The two diverge only while shuffle is on; the active order is always
// a permutation (possibly a subset, after removals) of the original's track
// identities.
type PlayingQueue struct {
	tracks       []Track
	original     []Track
	currentIndex int
	shuffled     bool
	repeat       RepeatMode
}

// NewQueue creates a new empty playing queue.
func NewQueue() *PlayingQueue {
	return &PlayingQueue{}
}

// Current returns the currently active track, or nil if the queue is empty.
func (q *PlayingQueue) Current() *Track {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	t := q.tracks[q.currentIndex]
	return &t
}

// CurrentIndex returns the index of the active track. Meaningless when the
// queue is empty.
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// Len returns the number of tracks in the active order.
func (q *PlayingQueue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Tracks returns a copy of the active play order.
func (q *PlayingQueue) Tracks() []Track {
	result := make([]Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// OriginalTracks returns a copy of the pre-shuffle order.
func (q *PlayingQueue) OriginalTracks() []Track {
	result := make([]Track, len(q.original))
	copy(result, q.original)
	return result
}

// IndexOf returns the position of the track with the given id in the active
// order, or -1 if not present.
func (q *PlayingQueue) IndexOf(id int64) int {
	for i, t := range q.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Replace replaces both orders with the given tracks verbatim, resets the
// index to 0 and forces shuffle off and repeat off. Returns the new current
// track, or nil if tracks is empty.
func (q *PlayingQueue) Replace(tracks ...Track) *Track {
	q.tracks = make([]Track, len(tracks))
	copy(q.tracks, tracks)
	q.original = make([]Track, len(tracks))
	copy(q.original, tracks)
	q.currentIndex = 0
	q.shuffled = false
	q.repeat = RepeatOff
	return q.Current()
}

// JumpTo sets the current index to the given position.
// Returns the track at that position, or nil if out of bounds.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// NextIndex computes the repeat-aware advance target without moving.
// Returns -1 when the queue is exhausted (RepeatOff past the last track).
func (q *PlayingQueue) NextIndex() int {
	if len(q.tracks) == 0 {
		return -1
	}
	switch q.repeat {
	case RepeatOne:
		return q.currentIndex
	case RepeatAll:
		return (q.currentIndex + 1) % len(q.tracks)
	default:
		if q.currentIndex+1 >= len(q.tracks) {
			return -1
		}
		return q.currentIndex + 1
	}
}

// Advance moves to the repeat-aware next track and returns it.
// Returns nil when the queue is exhausted; the index is left unchanged so the
// last played track stays current.
func (q *PlayingQueue) Advance() *Track {
	next := q.NextIndex()
	if next < 0 {
		return nil
	}
	q.currentIndex = next
	return q.Current()
}

// Previous moves to the previous track, wrapping from the first to the last.
// The wrap is unconditional and ignores the repeat mode.
func (q *PlayingQueue) Previous() *Track {
	if len(q.tracks) == 0 {
		return nil
	}
	q.currentIndex--
	if q.currentIndex < 0 {
		q.currentIndex = len(q.tracks) - 1
	}
	return q.Current()
}

// RepeatMode returns the current repeat mode.
func (q *PlayingQueue) RepeatMode() RepeatMode {
	return q.repeat
}

// SetRepeatMode sets the repeat mode.
func (q *PlayingQueue) SetRepeatMode(mode RepeatMode) {
	q.repeat = mode
}

// CycleRepeatMode cycles none -> all -> one -> none and returns the new mode.
func (q *PlayingQueue) CycleRepeatMode() RepeatMode {
	switch q.repeat {
	case RepeatOff:
		q.repeat = RepeatAll
	case RepeatAll:
		q.repeat = RepeatOne
	default:
		q.repeat = RepeatOff
	}
	return q.repeat
}

// Shuffled returns whether shuffle is on.
func (q *PlayingQueue) Shuffled() bool {
	return q.shuffled
}

// SetShuffle turns shuffle on or off.
//
// Turning it on produces an unbiased random permutation of the original
// order, then swaps the current track to position 0 so playback continues
// uninterrupted. Turning it off restores the original order verbatim and
// relocates the index to wherever the current track sits in it (falling back
// to 0 if the track is gone). Neither direction changes the current track
// identity or the original order.
func (q *PlayingQueue) SetShuffle(on bool) {
	if on == q.shuffled {
		return
	}
	current := q.Current()

	if on {
		shuffled := make([]Track, len(q.original))
		copy(shuffled, q.original)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if current != nil {
			for i, t := range shuffled {
				if t.ID == current.ID {
					shuffled[0], shuffled[i] = shuffled[i], shuffled[0]
					break
				}
			}
		}
		q.tracks = shuffled
		q.currentIndex = 0
		q.shuffled = true
		return
	}

	q.tracks = make([]Track, len(q.original))
	copy(q.tracks, q.original)
	q.currentIndex = 0
	if current != nil {
		if idx := q.IndexOf(current.ID); idx >= 0 {
			q.currentIndex = idx
		}
	}
	q.shuffled = false
}

// ToggleShuffle flips shuffle and returns the new state.
func (q *PlayingQueue) ToggleShuffle() bool {
	q.SetShuffle(!q.shuffled)
	return q.shuffled
}

// Remove filters the track with the given id out of the active order.
// The original order is only touched while shuffle is off; removals during
// shuffle leave it intact so un-shuffling restores the full pre-shuffle list.
//
// Returns (removedCurrent, found). When the current track was removed the
// index is clamped to min(index, len-1) so it points at the track that should
// play next; the caller decides whether to start it.
func (q *PlayingQueue) Remove(trackID int64) (removedCurrent, found bool) {
	idx := q.IndexOf(trackID)
	if idx < 0 {
		return false, false
	}

	current := q.Current()
	removedCurrent = current != nil && current.ID == trackID

	q.tracks = append(q.tracks[:idx], q.tracks[idx+1:]...)
	if !q.shuffled {
		for i, t := range q.original {
			if t.ID == trackID {
				q.original = append(q.original[:i], q.original[i+1:]...)
				break
			}
		}
	}

	if len(q.tracks) == 0 {
		q.currentIndex = 0
		return removedCurrent, true
	}

	if removedCurrent {
		if q.currentIndex >= len(q.tracks) {
			q.currentIndex = len(q.tracks) - 1
		}
		return true, true
	}

	// A different track was removed: relocate the current track by identity
	// in case positions shifted.
	if pos := q.IndexOf(current.ID); pos >= 0 {
		q.currentIndex = pos
	} else {
		q.currentIndex = 0
	}
	return false, true
}

// Move moves one track from fromIndex to toIndex in the active order.
// The current index is recalculated by relocating the current track's
// identity afterwards, so any reordering pattern keeps the pointer correct.
// Returns false if either index is out of bounds.
func (q *PlayingQueue) Move(fromIndex, toIndex int) bool {
	if fromIndex < 0 || fromIndex >= len(q.tracks) {
		return false
	}
	if toIndex < 0 || toIndex >= len(q.tracks) {
		return false
	}
	if fromIndex == toIndex {
		return true
	}

	current := q.Current()

	track := q.tracks[fromIndex]
	q.tracks = append(q.tracks[:fromIndex], q.tracks[fromIndex+1:]...)
	q.tracks = append(q.tracks[:toIndex], append([]Track{track}, q.tracks[toIndex:]...)...)

	if current != nil {
		if pos := q.IndexOf(current.ID); pos >= 0 {
			q.currentIndex = pos
		}
	}
	return true
}

// Restore replaces the queue with a previously persisted snapshot.
// The index is clamped into range so a stale snapshot can never leave the
// queue with an out-of-bounds pointer.
func (q *PlayingQueue) Restore(tracks, original []Track, index int, shuffled bool, repeat RepeatMode) {
	q.tracks = make([]Track, len(tracks))
	copy(q.tracks, tracks)
	q.original = make([]Track, len(original))
	copy(q.original, original)
	if index < 0 || index >= len(q.tracks) {
		index = 0
	}
	q.currentIndex = index
	q.shuffled = shuffled
	q.repeat = repeat
}
