package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"sounddeck/core/player"
	"sounddeck/logger"
	"sounddeck/model"

	"github.com/gorilla/mux"
)

type createPlaylistRequest struct {
	Name string `json:"name"`
}

type playlistUpdateRequest struct {
	Name *string `json:"name"`
	Mode *string `json:"mode"`
}

type addItemRequest struct {
	ClipID string `json:"clipId"`
}

type moveItemRequest struct {
	Position int `json:"position"`
}

// GetPlaylistsHandler lists every playlist with its items in order.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": h.co.Playlists(),
	})
}

// CreatePlaylistHandler creates an empty playlist.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "Playlist name is required", http.StatusBadRequest)
		return
	}

	p := h.co.CreatePlaylist(userID, req.Name)
	if err := h.playlistRepo.Create(&p); err != nil {
		logger.Error("playlist create not persisted",
			logger.String("playlistID", p.ID),
			logger.ErrorField(err))
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"playlist": p,
	})
}

// UpdatePlaylistHandler renames a playlist or switches its continuation mode.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req playlistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	upd := player.PlaylistUpdate{Name: req.Name}
	if req.Mode != nil {
		mode := model.ContinuationMode(*req.Mode)
		if mode != model.ContinuationAuto && mode != model.ContinuationManual {
			http.Error(w, "Invalid continuation mode", http.StatusBadRequest)
			return
		}
		upd.Mode = &mode
	}

	p, ok := h.co.UpdatePlaylist(id, upd)
	if !ok {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}

	if err := h.playlistRepo.Update(&p); err != nil {
		logger.Error("playlist update not persisted",
			logger.String("playlistID", id),
			logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlist": p,
	})
}

// DeletePlaylistHandler removes a playlist. Clips referenced by it survive.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !h.co.DeletePlaylist(id) {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}

	if err := h.playlistRepo.DeleteCascade(id); err != nil {
		logger.Error("playlist delete not persisted",
			logger.String("playlistID", id),
			logger.ErrorField(err))
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItemHandler appends a clip to the end of a playlist. The same clip may
// appear any number of times.
func (h *APIHandler) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, ok := h.co.AddItem(id, req.ClipID)
	if !ok {
		http.Error(w, "Playlist or clip not found", http.StatusNotFound)
		return
	}

	h.persistPlaylistItems(id)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"item": item,
	})
}

// RemoveItemHandler removes a single entry. Other entries referencing the
// same clip stay.
func (h *APIHandler) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, itemID := vars["id"], vars["item_id"]

	if !h.co.RemoveItem(id, itemID) {
		http.Error(w, "Playlist item not found", http.StatusNotFound)
		return
	}

	h.persistPlaylistItems(id)
	w.WriteHeader(http.StatusNoContent)
}

// MoveItemHandler repositions one entry within its playlist.
func (h *APIHandler) MoveItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, itemID := vars["id"], vars["item_id"]

	var req moveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !h.co.MoveItem(id, itemID, req.Position) {
		http.Error(w, "Playlist item not found", http.StatusNotFound)
		return
	}

	h.persistPlaylistItems(id)
	p, _ := h.co.PlaylistByID(id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlist": p,
	})
}

func (h *APIHandler) persistPlaylistItems(id string) {
	p, ok := h.co.PlaylistByID(id)
	if !ok {
		return
	}
	if err := h.playlistRepo.SaveItems(id, p.Items); err != nil {
		logger.Error("playlist items not persisted",
			logger.String("playlistID", id),
			logger.ErrorField(err))
	}
}
