// Package ingest brings new audio into the library: multipart uploads and
// the drop-directory watcher both funnel through the same import path.
// A clip only becomes usable once its duration has been resolved.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sounddeck/core/audio"
	"sounddeck/core/player"
	"sounddeck/logger"
	"sounddeck/model"
	"sounddeck/repository"
	"sounddeck/storage"

	"github.com/google/uuid"
)

// Importer validates, probes and stores incoming audio files.
type Importer struct {
	co      *player.Coordinator
	clips   repository.ClipRepository
	tempDir string
}

// NewImporter wires the import path.
func NewImporter(co *player.Coordinator, clips repository.ClipRepository, tempDir string) *Importer {
	return &Importer{co: co, clips: clips, tempDir: tempDir}
}

// Result is the per-file outcome of a batch import. A failed file never
// aborts its siblings.
type Result struct {
	FileName string      `json:"fileName"`
	Clip     *model.Clip `json:"clip,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// ImportFile spools one file, resolves its duration, uploads the audio to
// blob storage and registers the clip. Unsupported or corrupt files return
// an error the caller reports per item.
func (im *Importer) ImportFile(ctx context.Context, userID int64, fileName string, r io.Reader) (*model.Clip, error) {
	if !audio.IsAudioFile(fileName) {
		return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedFormat, fileName)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	tmp, err := os.CreateTemp(im.tempDir, "sounddeck-import-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to spool %s: %w", fileName, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close scratch file: %w", err)
	}

	duration, err := audio.ProbeDuration(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", fileName, err)
	}

	id := uuid.NewString()
	objectPath := fmt.Sprintf("clips/%s%s", id, ext)

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen scratch file: %w", err)
	}
	defer f.Close()
	if err := storage.UploadClip(ctx, objectPath, f, size, audio.MimeTypeFor(fileName)); err != nil {
		return nil, err
	}

	clip := &model.Clip{
		ID:            id,
		UserID:        userID,
		DisplayName:   strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName)),
		SourceHandle:  objectPath,
		MimeType:      audio.MimeTypeFor(fileName),
		TotalDuration: duration,
		Volume:        1.0,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	im.co.AddClip(clip)
	if err := im.clips.Create(clip); err != nil {
		logger.Error("failed to persist imported clip",
			logger.String("clipId", clip.ID),
			logger.ErrorField(err))
	}

	logger.Info("clip imported",
		logger.String("clipId", clip.ID),
		logger.String("name", clip.DisplayName),
		logger.Float64("duration", duration))
	return clip, nil
}
