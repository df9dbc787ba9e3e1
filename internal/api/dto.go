package api

import (
	"time"

	"github.com/tgranjon/reverb/internal/playback"
	"github.com/tgranjon/reverb/internal/playlist"
)

// trackDTO is the wire form of a track. Durations cross the API in seconds.
type trackDTO struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Duration  float64       `json:"duration"`
	SourceURL string        `json:"sourceUrl"`
	Artist    *playlist.Ref `json:"artist,omitempty"`
	Album     *playlist.Ref `json:"album,omitempty"`
	Genre     *playlist.Ref `json:"genre,omitempty"`
}

func toTrackDTO(t playlist.Track) trackDTO {
	return trackDTO{
		ID:        t.ID,
		Title:     t.Title,
		Duration:  t.Duration.Seconds(),
		SourceURL: t.SourceURL,
		Artist:    t.Artist,
		Album:     t.Album,
		Genre:     t.Genre,
	}
}

func (d trackDTO) toTrack() playlist.Track {
	return playlist.Track{
		ID:        d.ID,
		Title:     d.Title,
		Duration:  time.Duration(d.Duration * float64(time.Second)),
		SourceURL: d.SourceURL,
		Artist:    d.Artist,
		Album:     d.Album,
		Genre:     d.Genre,
	}
}

func toTrackDTOs(tracks []playlist.Track) []trackDTO {
	out := make([]trackDTO, len(tracks))
	for i, t := range tracks {
		out[i] = toTrackDTO(t)
	}
	return out
}

type statusResponse struct {
	CurrentTrack *trackDTO  `json:"currentTrack"`
	TrackList    []trackDTO `json:"trackList"`
	CurrentIndex int        `json:"currentIndex"`
	IsPlaying    bool       `json:"isPlaying"`
	IsShuffled   bool       `json:"isShuffled"`
	RepeatMode   string     `json:"repeatMode"`
	CurrentTime  float64    `json:"currentTime"`
	Duration     float64    `json:"duration"`
	Volume       int        `json:"volume"`
	Muted        bool       `json:"muted"`
	IsQueueOpen  bool       `json:"isQueueOpen"`
	Error        string     `json:"error,omitempty"`
}

func toStatusResponse(st playback.Status) statusResponse {
	var current *trackDTO
	if st.CurrentTrack != nil {
		d := toTrackDTO(*st.CurrentTrack)
		current = &d
	}
	return statusResponse{
		CurrentTrack: current,
		TrackList:    toTrackDTOs(st.Tracks),
		CurrentIndex: st.CurrentIndex,
		IsPlaying:    st.IsPlaying,
		IsShuffled:   st.Shuffled,
		RepeatMode:   st.RepeatMode.String(),
		CurrentTime:  st.Position.Seconds(),
		Duration:     st.Duration.Seconds(),
		Volume:       st.Volume,
		Muted:        st.Muted,
		IsQueueOpen:  st.QueueOpen,
		Error:        st.LastError,
	}
}
