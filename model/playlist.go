package model

import "time"

// ContinuationMode controls what happens when a playlist item finishes.
type ContinuationMode string

const (
	// ContinuationAuto advances to the next item on completion.
	ContinuationAuto ContinuationMode = "auto"
	// ContinuationManual stops after the current item.
	ContinuationManual ContinuationMode = "manual"
)

// Playlist is an ordered collection of clip references.
// The same clip may appear more than once; each insertion gets its own item id.
type Playlist struct {
	ID        string           `json:"id" gorm:"primaryKey;size:36"`
	UserID    int64            `json:"userId" gorm:"index"`
	Name      string           `json:"name" gorm:"size:255;not null"`
	Mode      ContinuationMode `json:"continuationMode" gorm:"size:16;default:'auto'"`
	Items     []*PlaylistItem  `json:"items" gorm:"-"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName overrides the default table name.
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistItem is one entry of a playlist. ItemID is unique per insertion.
type PlaylistItem struct {
	ItemID     string    `json:"itemId" gorm:"primaryKey;size:36"`
	PlaylistID string    `json:"playlistId" gorm:"size:36;index;not null"`
	ClipID     string    `json:"clipId" gorm:"size:36;index;not null"`
	Position   int       `json:"position" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName overrides the default table name.
func (PlaylistItem) TableName() string {
	return "playlist_items"
}

// Len returns the number of items.
func (p *Playlist) Len() int {
	return len(p.Items)
}

// ClipAt returns the clip id at the given positional index.
func (p *Playlist) ClipAt(index int) (string, bool) {
	if index < 0 || index >= len(p.Items) {
		return "", false
	}
	return p.Items[index].ClipID, true
}

// RemoveItem removes the item with the given id and reindexes positions.
// Returns false if no such item exists.
func (p *Playlist) RemoveItem(itemID string) bool {
	for i, it := range p.Items {
		if it.ItemID == itemID {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			p.reindex()
			return true
		}
	}
	return false
}

// RemoveClip removes every item referencing the given clip and reindexes.
// Returns the number of items removed.
func (p *Playlist) RemoveClip(clipID string) int {
	kept := p.Items[:0]
	removed := 0
	for _, it := range p.Items {
		if it.ClipID == clipID {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	p.Items = kept
	if removed > 0 {
		p.reindex()
	}
	return removed
}

// MoveItem moves the item with the given id to a new positional index,
// clamping the index into range. Returns false if no such item exists.
func (p *Playlist) MoveItem(itemID string, to int) bool {
	from := -1
	for i, it := range p.Items {
		if it.ItemID == itemID {
			from = i
			break
		}
	}
	if from < 0 {
		return false
	}
	if to < 0 {
		to = 0
	}
	if to >= len(p.Items) {
		to = len(p.Items) - 1
	}
	it := p.Items[from]
	p.Items = append(p.Items[:from], p.Items[from+1:]...)
	p.Items = append(p.Items[:to], append([]*PlaylistItem{it}, p.Items[to:]...)...)
	p.reindex()
	return true
}

func (p *Playlist) reindex() {
	for i, it := range p.Items {
		it.Position = i
	}
}
