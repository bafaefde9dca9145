// Package deck holds the in-memory library the playback core works against:
// the clip catalog, the playlists and the hotkey grid. The stores are owned
// by the session coordinator and mutated only under its lock; they do no
// locking of their own. Persistence is the caller's concern.
package deck

// Deck bundles the three stores.
type Deck struct {
	Clips     *ClipStore
	Playlists *PlaylistStore
	Hotkeys   *HotkeyGrid
}

// New creates empty stores and a dense hotkey grid of banks × slots.
func New(banks, slots int) *Deck {
	return &Deck{
		Clips:     NewClipStore(),
		Playlists: NewPlaylistStore(),
		Hotkeys:   NewHotkeyGrid(banks, slots),
	}
}
