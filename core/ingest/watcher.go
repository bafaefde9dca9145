package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sounddeck/core/audio"
	"sounddeck/logger"

	"github.com/fsnotify/fsnotify"
)

// settleDelay gives the writer time to finish the file before we read it.
const settleDelay = 500 * time.Millisecond

// Watcher imports audio files dropped into a directory.
type Watcher struct {
	im  *Importer
	dir string
}

// NewWatcher creates a drop-directory watcher over the given importer.
func NewWatcher(im *Importer, dir string) *Watcher {
	return &Watcher{im: im, dir: dir}
}

// Run watches the drop directory until ctx is cancelled. Each new audio
// file is imported once; failures are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create watch dir %s: %w", w.dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	logger.Info("watching drop directory", logger.String("dir", w.dir))

	processed := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !audio.IsAudioFile(event.Name) || processed[event.Name] {
				continue
			}
			processed[event.Name] = true
			w.importDropped(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logger.ErrorField(err))
		}
	}
}

func (w *Watcher) importDropped(ctx context.Context, path string) {
	time.Sleep(settleDelay)

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("cannot open dropped file",
			logger.String("path", path),
			logger.ErrorField(err))
		return
	}
	defer f.Close()

	if _, err := w.im.ImportFile(ctx, 0, filepath.Base(path), f); err != nil {
		logger.Warn("dropped file import failed",
			logger.String("path", path),
			logger.ErrorField(err))
	}
}
