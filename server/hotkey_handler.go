package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sounddeck/logger"
	"sounddeck/model"

	"github.com/gorilla/mux"
)

type assignHotkeyRequest struct {
	Kind     string `json:"kind"`
	TargetID string `json:"targetId"`
}

type selectBankRequest struct {
	Bank int `json:"bank"`
}

// GetHotkeysHandler returns the grid dimensions plus either one bank
// (?bank=N) or every assigned slot.
func (h *APIHandler) GetHotkeysHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"banks":       h.cfg.HotkeyBanks,
		"slots":       h.cfg.HotkeySlots,
		"currentBank": h.co.CurrentBank(),
	}
	if raw := r.URL.Query().Get("bank"); raw != "" {
		bank, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid bank number", http.StatusBadRequest)
			return
		}
		resp["hotkeys"] = h.co.HotkeyBank(bank)
	} else {
		resp["hotkeys"] = h.co.AssignedHotkeys()
	}
	writeJSON(w, http.StatusOK, resp)
}

// AssignHotkeyHandler binds a clip or playlist to a slot, overwriting any
// previous binding without confirmation.
func (h *APIHandler) AssignHotkeyHandler(w http.ResponseWriter, r *http.Request) {
	bank, pos, ok := hotkeyCoords(w, r)
	if !ok {
		return
	}

	var req assignHotkeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	key, ok := h.co.AssignHotkey(bank, pos, model.TargetKind(req.Kind), req.TargetID)
	if !ok {
		http.Error(w, "Invalid slot or target", http.StatusBadRequest)
		return
	}

	if err := h.hotkeyRepo.Save(key); err != nil {
		logger.Error("hotkey assignment not persisted",
			logger.Int("bank", bank),
			logger.Int("position", pos),
			logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hotkey": key,
	})
}

// ClearHotkeyHandler empties a slot.
func (h *APIHandler) ClearHotkeyHandler(w http.ResponseWriter, r *http.Request) {
	bank, pos, ok := hotkeyCoords(w, r)
	if !ok {
		return
	}

	if !h.co.ClearHotkey(bank, pos) {
		http.Error(w, "Invalid slot", http.StatusBadRequest)
		return
	}

	if err := h.hotkeyRepo.Clear(bank, pos); err != nil {
		logger.Error("hotkey clear not persisted",
			logger.Int("bank", bank),
			logger.Int("position", pos),
			logger.ErrorField(err))
	}

	w.WriteHeader(http.StatusNoContent)
}

// PlayHotkeyHandler triggers whatever the slot points at. An empty slot is a
// no-op that still returns the current session state.
func (h *APIHandler) PlayHotkeyHandler(w http.ResponseWriter, r *http.Request) {
	bank, pos, ok := hotkeyCoords(w, r)
	if !ok {
		return
	}

	h.co.PlayHotkey(bank, pos)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": h.co.Snapshot(),
	})
}

// SelectBankHandler switches the active hotkey bank.
func (h *APIHandler) SelectBankHandler(w http.ResponseWriter, r *http.Request) {
	var req selectBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.co.SetCurrentBank(req.Bank)
	h.persistUIState(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currentBank": h.co.CurrentBank(),
	})
}

func hotkeyCoords(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	vars := mux.Vars(r)
	bank, err := strconv.Atoi(vars["bank"])
	if err != nil {
		http.Error(w, "Invalid bank number", http.StatusBadRequest)
		return 0, 0, false
	}
	pos, err := strconv.Atoi(vars["position"])
	if err != nil {
		http.Error(w, "Invalid position number", http.StatusBadRequest)
		return 0, 0, false
	}
	return bank, pos, true
}
