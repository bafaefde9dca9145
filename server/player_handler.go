package server

import (
	"encoding/json"
	"net/http"

	"sounddeck/cache"
	"sounddeck/core/player"
	"sounddeck/logger"
	"sounddeck/model"
)

type seekRequest struct {
	Position float64 `json:"position"`
}

type loopRequest struct {
	Enabled bool `json:"enabled"`
}

// GetStateHandler returns the current session snapshot.
func (h *APIHandler) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": h.co.Snapshot(),
	})
}

// PlayHandler starts a clip or a playlist. Unknown targets are a no-op; the
// response always carries the resulting session state.
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	var t player.Target
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.co.Play(t)
	h.respondSession(w)
}

// StopHandler halts playback and returns to idle.
func (h *APIHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	h.co.Stop()
	h.respondSession(w)
}

// PauseHandler freezes playback, keeping the session position.
func (h *APIHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	h.co.Pause()
	h.respondSession(w)
}

// ResumeHandler continues a paused session from where it stopped.
func (h *APIHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	h.co.Resume()
	h.respondSession(w)
}

// NextHandler skips to the next playlist item. A no-op outside playlist
// playback or at the last item.
func (h *APIHandler) NextHandler(w http.ResponseWriter, r *http.Request) {
	h.co.Next()
	h.respondSession(w)
}

// PreviousHandler jumps back to the previous playlist item.
func (h *APIHandler) PreviousHandler(w http.ResponseWriter, r *http.Request) {
	h.co.Previous()
	h.respondSession(w)
}

// SeekHandler repositions playback within the active clip.
func (h *APIHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.co.Seek(req.Position)
	h.respondSession(w)
}

// SetLoopHandler toggles the session-wide loop flag.
func (h *APIHandler) SetLoopHandler(w http.ResponseWriter, r *http.Request) {
	var req loopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.co.SetLoop(req.Enabled)
	h.persistUIState(r)
	h.respondSession(w)
}

func (h *APIHandler) respondSession(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": h.co.Snapshot(),
	})
}

func (h *APIHandler) persistUIState(r *http.Request) {
	state := model.UIState{
		CurrentBank: h.co.CurrentBank(),
		LoopEnabled: h.co.Loop(),
	}
	if err := cache.SaveUIState(r.Context(), state); err != nil {
		logger.Warn("ui state not cached", logger.ErrorField(err))
	}
}
