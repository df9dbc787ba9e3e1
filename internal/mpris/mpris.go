//go:build linux

package mpris

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/tgranjon/reverb/internal/playback"
	"github.com/tgranjon/reverb/internal/playlist"
)

// Adapter exposes the playback engine over D-Bus as an MPRIS media player,
// so desktop media keys and applets control the daemon directly.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(svc playback.Service) (*Adapter, error) {
	a := &Adapter{}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{svc: svc}

	a.server = server.NewServer("reverb", rootAdapter, playerAdapter)

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Headless daemon, nothing to raise
}

func (r *rootAdapter) Quit() error {
	return nil // Lifecycle is managed by the service supervisor
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil // Track list interface not implemented
}

func (r *rootAdapter) Identity() (string, error) {
	return "Reverb", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/mp3"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional
// interfaces on top of engine status snapshots.
type playerAdapter struct {
	svc playback.Service
}

func (p *playerAdapter) Next() error {
	p.svc.PlayNext()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.svc.PlayPrevious()
	return nil
}

func (p *playerAdapter) Pause() error {
	if p.svc.Status().IsPlaying {
		p.svc.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.svc.TogglePlayPause()
	return nil
}

func (p *playerAdapter) Stop() error {
	if p.svc.Status().IsPlaying {
		p.svc.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) Play() error {
	if !p.svc.Status().IsPlaying {
		p.svc.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.svc.Status().Position + time.Duration(offset)*time.Microsecond
	if pos < 0 {
		pos = 0
	}
	p.svc.SeekTo(pos)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.svc.SeekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Playback is driven by the queue, not arbitrary URIs
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	st := p.svc.Status()
	switch {
	case st.IsPlaying:
		return types.PlaybackStatusPlaying, nil
	case st.CurrentTrack != nil:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.svc.Status().CurrentTrack
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.ID)),
		Length:  types.Microseconds(track.Duration.Microseconds()),
		Title:   track.Title,
		Url:     track.SourceURL,
	}
	if track.Artist != nil {
		meta.Artist = []string{track.Artist.Name}
	}
	if track.Album != nil {
		meta.Album = track.Album.Name
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return float64(p.svc.Status().Volume) / 100, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	level := int(v*100 + 0.5)
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	p.svc.ChangeVolume(level)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.svc.Status().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return len(p.svc.Status().Tracks) > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return len(p.svc.Status().Tracks) > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	st := p.svc.Status()
	return st.CurrentTrack != nil || len(st.Tracks) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.svc.Status().CurrentTrack != nil, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.svc.Status().RepeatMode {
	case playlist.RepeatOne:
		return types.LoopStatusTrack, nil
	case playlist.RepeatAll:
		return types.LoopStatusPlaylist, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusNone:
		p.svc.SetRepeatMode(playlist.RepeatOff)
	case types.LoopStatusTrack:
		p.svc.SetRepeatMode(playlist.RepeatOne)
	case types.LoopStatusPlaylist:
		p.svc.SetRepeatMode(playlist.RepeatAll)
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.svc.Status().Shuffled, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	if p.svc.Status().Shuffled != shuffle {
		p.svc.ToggleShuffle()
	}
	return nil
}

func formatTrackID(id int64) string {
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", id)
}
