package player

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sounddeck/core/audio"
	"sounddeck/logger"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const progressInterval = 200 * time.Millisecond

// Fetcher opens the raw audio behind a source handle.
type Fetcher func(handle string) (io.ReadCloser, error)

// beepOutput renders through the machine's speaker via beep. One speaker
// exists per process; Start replaces whatever was playing.
type beepOutput struct {
	fetch   Fetcher
	tempDir string

	mu      sync.Mutex
	inited  bool
	mixRate beep.SampleRate
	stream  beep.StreamSeekCloser
	format  beep.Format
	ctrl    *beep.Ctrl
	tmpPath string
	done    chan struct{}
}

// NewBeepOutput creates the speaker-backed output. fetch opens source
// handles (typically from blob storage); tempDir is scratch space for the
// decoded source file.
func NewBeepOutput(fetch Fetcher, tempDir string) Output {
	return &beepOutput{fetch: fetch, tempDir: tempDir}
}

func (o *beepOutput) Start(src Source, offset, volume float64, onProgress func(pos float64), onEnd func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.haltLocked()

	tmpPath, err := o.fetchToTemp(src.Handle)
	if err != nil {
		return err
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to open fetched audio: %w", err)
	}

	stream, format, err := audio.DecodeStream(f, src.Handle)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to decode %s: %w", src.Handle, err)
	}

	if !o.inited {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond)); err != nil {
			stream.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to init speaker: %w", err)
		}
		o.inited = true
		o.mixRate = format.SampleRate
	}

	if offset > 0 {
		n := format.SampleRate.N(time.Duration(offset * float64(time.Second)))
		if n >= stream.Len() {
			n = stream.Len() - 1
		}
		if n < 0 {
			n = 0
		}
		if err := stream.Seek(n); err != nil {
			logger.Warn("seek to start offset failed", logger.ErrorField(err))
		}
	}

	var chain beep.Streamer = stream
	if format.SampleRate != o.mixRate {
		chain = beep.Resample(4, format.SampleRate, o.mixRate, chain)
	}
	vol := &effects.Volume{
		Streamer: chain,
		Base:     2,
		Silent:   volume <= 0,
	}
	if volume > 0 {
		vol.Volume = math.Log2(volume)
	}
	ctrl := &beep.Ctrl{Streamer: vol}

	done := make(chan struct{})
	o.stream = stream
	o.format = format
	o.ctrl = ctrl
	o.tmpPath = tmpPath
	o.done = done

	// The end callback runs on the speaker goroutine; hand it off so a
	// consumer reacting with another output call cannot deadlock.
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		go onEnd()
	})))

	go o.progressLoop(stream, format, ctrl, done, onProgress)
	return nil
}

// progressLoop re-emits the output position roughly every tick until the
// playback is superseded or stopped.
func (o *beepOutput) progressLoop(stream beep.StreamSeekCloser, format beep.Format, ctrl *beep.Ctrl, done chan struct{}, onProgress func(float64)) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			speaker.Lock()
			pos := format.SampleRate.D(stream.Position()).Seconds()
			paused := ctrl.Paused
			speaker.Unlock()
			if !paused {
				onProgress(pos)
			}
		}
	}
}

func (o *beepOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctrl == nil {
		return
	}
	speaker.Lock()
	o.ctrl.Paused = true
	speaker.Unlock()
}

func (o *beepOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.haltLocked()
}

func (o *beepOutput) Seek(pos float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream == nil {
		return
	}
	n := o.format.SampleRate.N(time.Duration(pos * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	if n >= o.stream.Len() {
		n = o.stream.Len() - 1
	}
	speaker.Lock()
	if err := o.stream.Seek(n); err != nil {
		logger.Warn("output seek failed", logger.ErrorField(err))
	}
	speaker.Unlock()
}

func (o *beepOutput) Position() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream == nil {
		return 0
	}
	speaker.Lock()
	pos := o.format.SampleRate.D(o.stream.Position()).Seconds()
	speaker.Unlock()
	return pos
}

func (o *beepOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.haltLocked()
	return nil
}

// haltLocked tears down the current source: ticker, speaker queue, decoded
// stream and scratch file. Caller holds o.mu.
func (o *beepOutput) haltLocked() {
	if o.done != nil {
		close(o.done)
		o.done = nil
	}
	if o.inited {
		speaker.Clear()
	}
	if o.stream != nil {
		o.stream.Close()
		o.stream = nil
	}
	o.ctrl = nil
	if o.tmpPath != "" {
		os.Remove(o.tmpPath)
		o.tmpPath = ""
	}
}

// fetchToTemp copies the source object into a scratch file the decoders can
// seek in.
func (o *beepOutput) fetchToTemp(handle string) (string, error) {
	rc, err := o.fetch(handle)
	if err != nil {
		return "", fmt.Errorf("failed to fetch source %s: %w", handle, err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(o.tempDir, "sounddeck-play-*"+filepath.Ext(handle))
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to spool source %s: %w", handle, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}
	return tmp.Name(), nil
}
