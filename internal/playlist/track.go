package playlist

import "time"

// Ref is a display-only summary of a related entity (artist, album, genre).
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Track represents a single playable item.
//
// Tracks are supplied by the platform catalog and treated as immutable:
// the queue only reorders and filters references to them. A zero Duration
// means the duration is unknown; an empty SourceURL means the track has no
// playable audio.
type Track struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Duration  time.Duration `json:"duration"`
	SourceURL string        `json:"sourceUrl"`
	Artist    *Ref          `json:"artist,omitempty"`
	Album     *Ref          `json:"album,omitempty"`
	Genre     *Ref          `json:"genre,omitempty"`
}

// Playable returns true if the track has an audio source.
func (t Track) Playable() bool {
	return t.SourceURL != ""
}
