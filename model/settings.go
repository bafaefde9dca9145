package model

// Settings interchange document. Clips are keyed by display name rather than
// internal id, since ids are not stable across installations; import resolves
// names against the current library and reports what it could not find.

// SettingsDoc is the exported/imported settings document.
type SettingsDoc struct {
	Version   int                `json:"version"`
	Clips     []SettingsClip     `json:"clips"`
	Playlists []SettingsPlaylist `json:"playlists"`
	Hotkeys   []SettingsHotkey   `json:"hotkeys"`
}

// SettingsClip carries the per-clip edits worth migrating.
type SettingsClip struct {
	DisplayName string  `json:"displayName"`
	Volume      float64 `json:"volume"`
	HeadTrim    float64 `json:"headTrim"`
	TailTrim    float64 `json:"tailTrim"`
}

// SettingsPlaylist references clips by display name, in order.
type SettingsPlaylist struct {
	Name  string           `json:"name"`
	Mode  ContinuationMode `json:"continuationMode"`
	Items []string         `json:"items"`
}

// SettingsHotkey is one grid assignment. Target is a clip display name for
// kind "clip" and a playlist name for kind "playlist".
type SettingsHotkey struct {
	Bank     int        `json:"bank"`
	Position int        `json:"position"`
	Kind     TargetKind `json:"kind"`
	Target   string     `json:"target"`
}

// ImportReport summarizes a settings import: how much applied and which
// names could not be resolved against the current library.
type ImportReport struct {
	ClipsApplied     int      `json:"clipsApplied"`
	PlaylistsCreated int      `json:"playlistsCreated"`
	HotkeysAssigned  int      `json:"hotkeysAssigned"`
	Unresolved       []string `json:"unresolved"`
}
