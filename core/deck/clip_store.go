package deck

import (
	"sort"

	"sounddeck/model"
)

// ClipStore is the catalog of imported clips, keyed by id.
type ClipStore struct {
	clips map[string]*model.Clip
}

// NewClipStore creates an empty clip store.
func NewClipStore() *ClipStore {
	return &ClipStore{clips: make(map[string]*model.Clip)}
}

// Add inserts or replaces a clip.
func (s *ClipStore) Add(c *model.Clip) {
	s.clips[c.ID] = c
}

// Get returns the clip with the given id, or nil.
func (s *ClipStore) Get(id string) *model.Clip {
	return s.clips[id]
}

// GetByName returns the first clip with the given display name, or nil.
// Display names are the stable identity used by the settings interchange.
func (s *ClipStore) GetByName(name string) *model.Clip {
	for _, c := range s.All() {
		if c.DisplayName == name {
			return c
		}
	}
	return nil
}

// Remove deletes the clip with the given id. Removing a missing id is a no-op.
func (s *ClipStore) Remove(id string) bool {
	if _, ok := s.clips[id]; !ok {
		return false
	}
	delete(s.clips, id)
	return true
}

// All returns the clips ordered by display name, then id for stability.
func (s *ClipStore) All() []*model.Clip {
	out := make([]*model.Clip, 0, len(s.clips))
	for _, c := range s.clips {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of clips.
func (s *ClipStore) Len() int {
	return len(s.clips)
}
