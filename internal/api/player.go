package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tgranjon/reverb/internal/playlist"
)

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) playTrack(w http.ResponseWriter, r *http.Request) {
	var req trackDTO
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID == 0 {
		h.respondError(w, http.StatusBadRequest, "track id is required")
		return
	}

	h.svc.PlayTrack(req.toTrack())
	h.respondJSON(w, http.StatusAccepted, toStatusResponse(h.svc.Status()))
}

func (h *Handler) togglePlayPause(w http.ResponseWriter, r *http.Request) {
	h.svc.TogglePlayPause()
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) playNext(w http.ResponseWriter, r *http.Request) {
	h.svc.PlayNext()
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) playPrevious(w http.ResponseWriter, r *http.Request) {
	h.svc.PlayPrevious()
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) jumpTo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	h.svc.JumpTo(req.Index)
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) seekTo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position float64 `json:"position"` // seconds
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Position < 0 {
		h.respondError(w, http.StatusBadRequest, "position must not be negative")
		return
	}

	h.svc.SeekTo(time.Duration(req.Position * float64(time.Second)))
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) changeVolume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Volume int `json:"volume"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Volume < 0 || req.Volume > 100 {
		h.respondError(w, http.StatusBadRequest, "volume must be between 0 and 100")
		return
	}

	h.svc.ChangeVolume(req.Volume)
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) toggleMute(w http.ResponseWriter, r *http.Request) {
	h.svc.ToggleMute()
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) toggleShuffle(w http.ResponseWriter, r *http.Request) {
	h.svc.ToggleShuffle()
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) cycleRepeat(w http.ResponseWriter, r *http.Request) {
	h.svc.CycleRepeat()
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) setRepeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	switch req.Mode {
	case "none", "all", "one":
	default:
		h.respondError(w, http.StatusBadRequest, "mode must be one of none, all, one")
		return
	}

	h.svc.SetRepeatMode(playlist.ParseRepeatMode(req.Mode))
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) setTrackList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tracks []trackDTO `json:"tracks"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	tracks := make([]playlist.Track, len(req.Tracks))
	for i, d := range req.Tracks {
		tracks[i] = d.toTrack()
	}

	h.svc.SetTrackList(tracks)
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) removeFromQueue(w http.ResponseWriter, r *http.Request) {
	trackID, err := strconv.ParseInt(chi.URLParam(r, "trackID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}

	h.svc.RemoveFromQueue(trackID)
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) reorderQueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	h.svc.ReorderQueue(req.From, req.To)
	h.respondJSON(w, http.StatusOK, toStatusResponse(h.svc.Status()))
}

func (h *Handler) toggleQueue(w http.ResponseWriter, r *http.Request) {
	open := h.svc.ToggleQueue()
	h.respondJSON(w, http.StatusOK, map[string]bool{"isQueueOpen": open})
}
