package server

import (
	"encoding/json"
	"net/http"

	"sounddeck/logger"
	"sounddeck/model"
)

// ExportSettingsHandler renders the whole deck as a portable, name-keyed
// settings document.
func (h *APIHandler) ExportSettingsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.co.ExportSettings())
}

// ImportSettingsHandler applies a settings document on top of the current
// library. Entries naming clips that do not exist are collected into the
// report instead of failing the import.
func (h *APIHandler) ImportSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var doc model.SettingsDoc
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "Malformed settings document", http.StatusBadRequest)
		return
	}

	report := h.co.ImportSettings(doc)

	// The import touches clips, playlists and the hotkey grid at once, so
	// the persisted state is re-synced wholesale rather than per mutation.
	for _, clip := range h.co.Clips() {
		c := clip
		if err := h.clipRepo.Update(&c); err != nil {
			logger.Error("imported clip settings not persisted",
				logger.String("clipID", c.ID),
				logger.ErrorField(err))
		}
	}
	if err := h.playlistRepo.SyncAll(h.co.Playlists()); err != nil {
		logger.Error("imported playlists not persisted", logger.ErrorField(err))
	}
	if err := h.hotkeyRepo.ReplaceAll(h.co.AssignedHotkeys()); err != nil {
		logger.Error("imported hotkeys not persisted", logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report": report,
	})
}
