package player

import "sounddeck/model"

// session is the single mutable record of what is playing. At most one
// exists; stop resets every field except the loop preference, which lives
// on the coordinator. epoch is the engine epoch of the playback that this
// session started; events stamped with any other epoch belong to a
// superseded playback.
type session struct {
	state      model.PlayState
	clipID     string
	playlistID string
	index      int
	epoch      uint64
	elapsed    float64
	paused     bool
}

func idleSession() session {
	return session{state: model.StateIdle}
}

// actionKind is the side effect a transition asks the coordinator to run.
type actionKind int

const (
	actStop actionKind = iota
	actStartIndex
	actRestartClip
)

// action pairs a transition result with the playback side effect to perform.
type action struct {
	kind  actionKind
	index int
}

// completionNext is the pure completion transition: given the finished
// session and the playlist context, it returns the successor session and
// the side effect to run. No store access, no output access.
//
//   - single + loop        → restart the same clip
//   - single               → idle
//   - playlist, manual     → idle (stop after item)
//   - playlist, i < last   → advance to i+1
//   - playlist, last, loop → wrap to 0
//   - playlist, last       → idle
func completionNext(s session, loop bool, mode model.ContinuationMode, length int) (session, action) {
	switch s.state {
	case model.StateSingle:
		if loop {
			return s, action{kind: actRestartClip}
		}
		return idleSession(), action{kind: actStop}

	case model.StatePlaylist:
		if mode == model.ContinuationManual {
			return idleSession(), action{kind: actStop}
		}
		if s.index < length-1 {
			next := s
			next.index++
			return next, action{kind: actStartIndex, index: next.index}
		}
		if loop && length > 0 {
			next := s
			next.index = 0
			return next, action{kind: actStartIndex, index: 0}
		}
		return idleSession(), action{kind: actStop}
	}

	return idleSession(), action{kind: actStop}
}
