package notify

import (
	"strings"

	"github.com/tgranjon/reverb/internal/playback"
	"github.com/tgranjon/reverb/internal/playlist"
)

// Watcher sends a now-playing notification on every track change. Each
// notification replaces the previous one so the desktop does not stack them.
type Watcher struct {
	svc      playback.Service
	notifier Notifier
	sub      *playback.Subscription
	timeout  int32
	lastID   uint32
}

// Watch subscribes to the playback engine and starts forwarding track
// changes to the notifier until Close is called.
func Watch(svc playback.Service, notifier Notifier, timeout int32) *Watcher {
	w := &Watcher{
		svc:      svc,
		notifier: notifier,
		sub:      svc.Subscribe(),
		timeout:  timeout,
	}
	go w.loop()
	return w
}

// Close stops the watcher.
func (w *Watcher) Close() {
	w.svc.Unsubscribe(w.sub)
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.sub.Done:
			return
		case ev := <-w.sub.TrackChanged:
			if ev.Current == nil {
				continue
			}
			w.send(*ev.Current)
		}
	}
}

func (w *Watcher) send(t playlist.Track) {
	id, err := w.notifier.Notify(Notification{
		Title:      t.Title,
		Body:       nowPlayingBody(t),
		Timeout:    w.timeout,
		ReplacesID: w.lastID,
		Urgency:    UrgencyLow,
	})
	if err == nil && id != 0 {
		w.lastID = id
	}
}

func nowPlayingBody(t playlist.Track) string {
	var parts []string
	if t.Artist != nil {
		parts = append(parts, t.Artist.Name)
	}
	if t.Album != nil {
		parts = append(parts, t.Album.Name)
	}
	return strings.Join(parts, " · ")
}
