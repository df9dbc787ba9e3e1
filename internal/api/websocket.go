package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tgranjon/reverb/internal/playback"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

// wsMessage is the envelope for every event pushed to WebSocket clients.
type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// events upgrades the connection and streams engine events to the client
// until either side goes away.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := h.svc.Subscribe()
	defer h.svc.Unsubscribe(sub)
	defer conn.Close()

	// Discard client frames; their close error ends the connection.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Initial snapshot so the client renders without a separate fetch.
	if err := h.writeWS(conn, wsMessage{Type: "status", Payload: toStatusResponse(h.svc.Status())}); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		var msg wsMessage
		select {
		case <-clientGone:
			return
		case <-sub.Done:
			return
		case <-ping.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
			continue
		case ev := <-sub.StateChanged:
			msg = wsMessage{Type: "state", Payload: map[string]bool{"isPlaying": ev.IsPlaying}}
		case ev := <-sub.TrackChanged:
			msg = wsMessage{Type: "track", Payload: trackChangeDTO(ev)}
		case ev := <-sub.PositionChanged:
			msg = wsMessage{Type: "position", Payload: map[string]float64{
				"currentTime": ev.Position.Seconds(),
				"duration":    ev.Duration.Seconds(),
			}}
		case ev := <-sub.QueueChanged:
			msg = wsMessage{Type: "queue", Payload: map[string]any{
				"trackList":    toTrackDTOs(ev.Tracks),
				"currentIndex": ev.Index,
			}}
		case ev := <-sub.ModeChanged:
			msg = wsMessage{Type: "mode", Payload: map[string]any{
				"repeatMode": ev.RepeatMode.String(),
				"isShuffled": ev.Shuffle,
			}}
		case ev := <-sub.VolumeChanged:
			msg = wsMessage{Type: "volume", Payload: map[string]any{
				"volume": ev.Volume,
				"muted":  ev.Muted,
			}}
		case ev := <-sub.Error:
			msg = wsMessage{Type: "error", Payload: map[string]string{
				"operation": ev.Operation,
				"error":     ev.Err.Error(),
			}}
		}

		if err := h.writeWS(conn, msg); err != nil {
			return
		}
	}
}

func (h *Handler) writeWS(conn *websocket.Conn, msg wsMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func trackChangeDTO(ev playback.TrackChange) map[string]any {
	out := map[string]any{
		"previousIndex": ev.PreviousIndex,
		"index":         ev.Index,
	}
	if ev.Previous != nil {
		d := toTrackDTO(*ev.Previous)
		out["previous"] = d
	}
	if ev.Current != nil {
		d := toTrackDTO(*ev.Current)
		out["current"] = d
	}
	return out
}
