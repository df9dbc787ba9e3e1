package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tgranjon/reverb/internal/playback"
)

// Handler serves the player control API and the event WebSocket.
type Handler struct {
	svc      playback.Service
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func New(svc playback.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("component", "api").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			// The daemon binds to loopback; cross-origin pages cannot
			// reach it, so any origin that got here is fine.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Routes builds the router for the control API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/player", func(r chi.Router) {
		r.Get("/", h.getStatus)
		r.Post("/play", h.playTrack)
		r.Post("/toggle", h.togglePlayPause)
		r.Post("/next", h.playNext)
		r.Post("/previous", h.playPrevious)
		r.Post("/jump", h.jumpTo)
		r.Post("/seek", h.seekTo)
		r.Post("/volume", h.changeVolume)
		r.Post("/mute", h.toggleMute)
		r.Post("/shuffle", h.toggleShuffle)
		r.Post("/repeat", h.cycleRepeat)
		r.Put("/repeat", h.setRepeat)

		r.Put("/queue", h.setTrackList)
		r.Post("/queue/reorder", h.reorderQueue)
		r.Post("/queue/toggle", h.toggleQueue)
		r.Delete("/queue/{trackID}", h.removeFromQueue)

		r.Get("/events", h.events)
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
