package deck

import (
	"sort"

	"sounddeck/model"
)

// PlaylistStore holds the playlists, keyed by id.
type PlaylistStore struct {
	playlists map[string]*model.Playlist
}

// NewPlaylistStore creates an empty playlist store.
func NewPlaylistStore() *PlaylistStore {
	return &PlaylistStore{playlists: make(map[string]*model.Playlist)}
}

// Add inserts or replaces a playlist.
func (s *PlaylistStore) Add(p *model.Playlist) {
	s.playlists[p.ID] = p
}

// Get returns the playlist with the given id, or nil.
func (s *PlaylistStore) Get(id string) *model.Playlist {
	return s.playlists[id]
}

// GetByName returns the first playlist with the given name, or nil.
func (s *PlaylistStore) GetByName(name string) *model.Playlist {
	for _, p := range s.All() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Remove deletes the playlist with the given id. Missing id is a no-op.
func (s *PlaylistStore) Remove(id string) bool {
	if _, ok := s.playlists[id]; !ok {
		return false
	}
	delete(s.playlists, id)
	return true
}

// RemoveClipRefs strips every item referencing the given clip from every
// playlist, reindexing positions. Returns the ids of playlists that changed.
func (s *PlaylistStore) RemoveClipRefs(clipID string) []string {
	var changed []string
	for id, p := range s.playlists {
		if p.RemoveClip(clipID) > 0 {
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)
	return changed
}

// All returns the playlists ordered by name, then id for stability.
func (s *PlaylistStore) All() []*model.Playlist {
	out := make([]*model.Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of playlists.
func (s *PlaylistStore) Len() int {
	return len(s.playlists)
}
