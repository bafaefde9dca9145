package repository

import (
	"fmt"

	"sounddeck/model"

	"gorm.io/gorm"
)

// PlaylistRepository defines persistence for playlists and their items.
type PlaylistRepository interface {
	Create(p *model.Playlist) error
	Update(p *model.Playlist) error
	// DeleteCascade removes the playlist, its items and any hotkey
	// assignment pointing at it.
	DeleteCascade(id string) error
	// SaveItems replaces the stored item rows of one playlist with the
	// given ordered set.
	SaveItems(playlistID string, items []*model.PlaylistItem) error
	// GetAllWithItems loads every playlist with items ordered by position.
	GetAllWithItems() ([]*model.Playlist, error)
	// SyncAll upserts the given playlists and their items wholesale.
	// Used after a settings import.
	SyncAll(playlists []model.Playlist) error
}

type mysqlPlaylistRepository struct {
	db *gorm.DB
}

// NewMySQLPlaylistRepository creates a gorm-backed playlist repository.
func NewMySQLPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

func (r *mysqlPlaylistRepository) Create(p *model.Playlist) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create playlist %s: %w", p.ID, err)
	}
	return nil
}

func (r *mysqlPlaylistRepository) Update(p *model.Playlist) error {
	err := r.db.Model(&model.Playlist{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":       p.Name,
		"mode":       p.Mode,
		"updated_at": p.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update playlist %s: %w", p.ID, err)
	}
	return nil
}

func (r *mysqlPlaylistRepository) DeleteCascade(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ? AND target_id = ?", model.KindPlaylist, id).Delete(&model.Hotkey{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Playlist{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", id, err)
	}
	return nil
}

func (r *mysqlPlaylistRepository) SaveItems(playlistID string, items []*model.PlaylistItem) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&model.PlaylistItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(items).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save items of playlist %s: %w", playlistID, err)
	}
	return nil
}

func (r *mysqlPlaylistRepository) GetAllWithItems() ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	if err := r.db.Order("created_at").Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}
	for _, p := range playlists {
		var items []*model.PlaylistItem
		if err := r.db.Where("playlist_id = ?", p.ID).Order("position").Find(&items).Error; err != nil {
			return nil, fmt.Errorf("failed to load items of playlist %s: %w", p.ID, err)
		}
		p.Items = items
	}
	return playlists, nil
}

func (r *mysqlPlaylistRepository) SyncAll(playlists []model.Playlist) error {
	for i := range playlists {
		p := playlists[i]
		items := p.Items
		p.Items = nil
		if err := upsertAll(r.db, &p); err != nil {
			return fmt.Errorf("failed to sync playlist %s: %w", p.ID, err)
		}
		if err := r.SaveItems(p.ID, items); err != nil {
			return err
		}
	}
	return nil
}
