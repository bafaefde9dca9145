package model

// PlayState names the coordinator's logical playback state.
type PlayState string

const (
	StateIdle     PlayState = "idle"
	StateSingle   PlayState = "single"
	StatePlaylist PlayState = "playlist"
)

// SessionSnapshot is the read model of the single playback session,
// pushed to UI clients on every state change and progress tick.
type SessionSnapshot struct {
	State               PlayState `json:"state"`
	IsActive            bool      `json:"isActive"`
	Paused              bool      `json:"paused"`
	ActiveClipID        string    `json:"activeClipId,omitempty"`
	ActivePlaylistID    string    `json:"activePlaylistId,omitempty"`
	ActivePlaylistIndex int       `json:"activePlaylistIndex"`
	Elapsed             float64   `json:"elapsed"`
	LoopEnabled         bool      `json:"loopEnabled"`
	CurrentBank         int       `json:"currentBank"`
}

// UIState is the slice of user preference that survives restarts.
type UIState struct {
	CurrentBank int  `json:"currentBank"`
	LoopEnabled bool `json:"loopEnabled"`
}
