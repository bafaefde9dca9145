package player

import (
	"fmt"
	"sync"

	"sounddeck/logger"
)

// EventKind classifies engine events.
type EventKind int

const (
	// EventProgress reports the current output position.
	EventProgress EventKind = iota
	// EventCompleted reports that the current source ended, either naturally
	// or by crossing the tail boundary. User-initiated Stop and Pause never
	// produce this event.
	EventCompleted
)

// Event is what the engine emits upward. The coordinator is the sole consumer.
// Epoch identifies which Start armed the event: a retrigger of the same clip
// gets a new epoch, so consumers can tell a superseded playback's events from
// the fresh one's even when the clip id is identical.
type Event struct {
	Kind     EventKind
	Epoch    uint64
	ClipID   string
	Position float64
}

// Engine drives the single Output and realizes trim windows: Start begins
// at the head-trim offset, and a tail watch stops output once the position
// crosses totalDuration - tailBoundary.
//
// Every Start advances an epoch; callbacks armed under an older epoch are
// dropped, so a stale tick or completion can never fire against a newer
// source.
type Engine struct {
	out    Output
	events chan Event

	mu     sync.Mutex
	epoch  uint64
	active bool
	clipID string
	total  float64
	tail   float64
}

// NewEngine wraps the given output handle.
func NewEngine(out Output) *Engine {
	return &Engine{
		out:    out,
		events: make(chan Event, 64),
	}
}

// Events returns the engine's event stream.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Start begins output of src at startOffset with the given volume and arms
// the tail watch. Any in-flight watch from a previous Start is disarmed.
// The returned epoch stamps every event this playback will emit.
func (e *Engine) Start(src Source, volume, startOffset, tailBoundary, totalDuration float64) (uint64, error) {
	e.mu.Lock()
	e.epoch++
	ep := e.epoch
	e.active = true
	e.clipID = src.ClipID
	e.total = totalDuration
	e.tail = tailBoundary
	e.mu.Unlock()

	err := e.out.Start(src, startOffset, volume,
		func(pos float64) { e.handleProgress(ep, pos) },
		func() { e.handleEnd(ep) },
	)
	if err != nil {
		e.mu.Lock()
		if ep == e.epoch {
			e.active = false
		}
		e.mu.Unlock()
		return 0, fmt.Errorf("output start failed: %w", err)
	}
	return ep, nil
}

// Pause halts output, keeping the position for a later Start at the same
// offset. No completion is raised.
func (e *Engine) Pause() {
	e.out.Pause()
}

// Stop halts output and resets the position. No completion is raised;
// completion is reserved for natural or tail-boundary endings.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.epoch++
	e.active = false
	e.mu.Unlock()
	e.out.Stop()
}

// Seek repositions output. A no-op while no source is loaded; out-of-range
// positions are clamped by the output layer, not here.
func (e *Engine) Seek(pos float64) {
	e.mu.Lock()
	active := e.active
	e.mu.Unlock()
	if active {
		e.out.Seek(pos)
	}
}

// CurrentTime returns the output position in seconds.
func (e *Engine) CurrentTime() float64 {
	return e.out.Position()
}

// SetTailBoundary replaces the armed tail boundary. Used when the playing
// clip is retrimmed: the new boundary takes effect on the next tick, no
// restart needed.
func (e *Engine) SetTailBoundary(tail float64) {
	e.mu.Lock()
	e.tail = tail
	e.mu.Unlock()
}

func (e *Engine) handleProgress(ep uint64, pos float64) {
	e.mu.Lock()
	if ep != e.epoch || !e.active {
		e.mu.Unlock()
		return
	}
	clipID := e.clipID
	hitTail := e.tail > 0 && pos >= e.total-e.tail
	if hitTail {
		// Disarm before stopping the output so nothing else fires
		// against this source.
		e.epoch++
		e.active = false
	}
	e.mu.Unlock()

	if hitTail {
		e.out.Stop()
		e.emitCompleted(Event{Kind: EventCompleted, Epoch: ep, ClipID: clipID, Position: pos})
		return
	}
	e.emitProgress(Event{Kind: EventProgress, Epoch: ep, ClipID: clipID, Position: pos})
}

func (e *Engine) handleEnd(ep uint64) {
	e.mu.Lock()
	if ep != e.epoch || !e.active {
		e.mu.Unlock()
		return
	}
	clipID := e.clipID
	pos := e.total
	e.epoch++
	e.active = false
	e.mu.Unlock()

	e.emitCompleted(Event{Kind: EventCompleted, Epoch: ep, ClipID: clipID, Position: pos})
}

// emitProgress drops ticks when the consumer lags; progress is advisory.
func (e *Engine) emitProgress(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// emitCompleted must not be lost: auto-advance depends on it.
func (e *Engine) emitCompleted(ev Event) {
	select {
	case e.events <- ev:
	default:
		logger.Warn("engine event queue full, completion delivery blocking",
			logger.String("clipId", ev.ClipID))
		e.events <- ev
	}
}
