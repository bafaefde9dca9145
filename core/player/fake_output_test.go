package player

import "errors"

// fakeOutput is a deterministic Output: tests drive its callbacks by hand
// instead of waiting on a real speaker.
type fakeOutput struct {
	starts  []startCall
	pauses  int
	stops   int
	seeks   []float64
	pos     float64
	failErr error

	onProgress func(pos float64)
	onEnd      func()
}

type startCall struct {
	src    Source
	offset float64
	volume float64
}

func (f *fakeOutput) Start(src Source, offset, volume float64, onProgress func(pos float64), onEnd func()) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.starts = append(f.starts, startCall{src: src, offset: offset, volume: volume})
	f.pos = offset
	f.onProgress = onProgress
	f.onEnd = onEnd
	return nil
}

func (f *fakeOutput) Pause()         { f.pauses++ }
func (f *fakeOutput) Stop()          { f.stops++ }
func (f *fakeOutput) Seek(p float64) { f.seeks = append(f.seeks, p); f.pos = p }
func (f *fakeOutput) Position() float64 {
	return f.pos
}
func (f *fakeOutput) Close() error { return nil }

// tick advances the fake position and fires the progress callback armed by
// the most recent Start.
func (f *fakeOutput) tick(pos float64) {
	f.pos = pos
	if f.onProgress != nil {
		f.onProgress(pos)
	}
}

// end fires the natural-end callback armed by the most recent Start.
func (f *fakeOutput) end() {
	if f.onEnd != nil {
		f.onEnd()
	}
}

var errStartFailed = errors.New("output start failed")
