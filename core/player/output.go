// Package player implements the playback core: the engine that drives the
// single audio output handle, the session state machine and the coordinator
// that keeps the library stores consistent with whatever is playing.
package player

// Source identifies the audio an Output should render.
type Source struct {
	ClipID   string
	Handle   string // blob object path
	MimeType string
}

// Output is the single underlying audio handle the engine drives. Exactly
// one Output exists for the engine's lifetime; a new Start simply reassigns
// the source.
//
// Implementations invoke onProgress from their own goroutine roughly on
// every position update and onEnd once when the media reaches its natural
// end. Neither callback fires after Stop. Out-of-range seeks are clamped by
// the implementation.
type Output interface {
	Start(src Source, offset, volume float64, onProgress func(pos float64), onEnd func()) error
	Pause()
	Stop()
	Seek(pos float64)
	Position() float64
	Close() error
}
