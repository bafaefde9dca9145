package server

import (
	"encoding/json"
	"net/http"

	"sounddeck/core/ingest"
	"sounddeck/core/player"
	"sounddeck/logger"
	"sounddeck/storage"

	"github.com/gorilla/mux"
)

// maxUploadBytes bounds one multipart upload request.
const maxUploadBytes = 200 << 20

// clipUpdateRequest carries a partial clip edit. Absent fields stay untouched.
type clipUpdateRequest struct {
	DisplayName *string  `json:"displayName"`
	Volume      *float64 `json:"volume"`
	HeadTrim    *float64 `json:"headTrim"`
	TailTrim    *float64 `json:"tailTrim"`
}

// GetClipsHandler lists the clip library.
func (h *APIHandler) GetClipsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clips": h.co.Clips(),
	})
}

// UploadClipsHandler ingests one or more audio files from a multipart form.
// Files that fail validation are reported per file, not as a request error.
func (h *APIHandler) UploadClipsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files provided", http.StatusBadRequest)
		return
	}

	results := make([]ingest.Result, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			results = append(results, ingest.Result{FileName: fh.Filename, Error: err.Error()})
			continue
		}
		clip, err := h.importer.ImportFile(r.Context(), userID, fh.Filename, f)
		f.Close()
		if err != nil {
			logger.Warn("clip import failed",
				logger.String("file", fh.Filename),
				logger.ErrorField(err))
			results = append(results, ingest.Result{FileName: fh.Filename, Error: err.Error()})
			continue
		}
		results = append(results, ingest.Result{FileName: fh.Filename, Clip: clip})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// UpdateClipHandler applies a partial edit to one clip. Trim values outside
// the valid window are clamped, never rejected; the response carries the
// values actually applied.
func (h *APIHandler) UpdateClipHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req clipUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	clip, ok := h.co.UpdateClip(id, player.ClipUpdate{
		DisplayName: req.DisplayName,
		Volume:      req.Volume,
		HeadTrim:    req.HeadTrim,
		TailTrim:    req.TailTrim,
	})
	if !ok {
		http.Error(w, "Clip not found", http.StatusNotFound)
		return
	}

	if err := h.clipRepo.Update(&clip); err != nil {
		logger.Error("clip update not persisted",
			logger.String("clipID", id),
			logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clip": clip,
	})
}

// DeleteClipHandler removes a clip, its playlist references, its hotkey
// assignments and its stored audio object.
func (h *APIHandler) DeleteClipHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	clip, ok := h.co.DeleteClip(id)
	if !ok {
		http.Error(w, "Clip not found", http.StatusNotFound)
		return
	}

	if err := h.clipRepo.DeleteCascade(id); err != nil {
		logger.Error("clip delete not persisted",
			logger.String("clipID", id),
			logger.ErrorField(err))
	}
	if clip.SourceHandle != "" {
		if err := storage.RemoveClip(r.Context(), clip.SourceHandle); err != nil {
			logger.Warn("stored audio object not removed",
				logger.String("object", clip.SourceHandle),
				logger.ErrorField(err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
