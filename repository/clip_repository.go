package repository

import (
	"fmt"

	"sounddeck/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClipRepository defines persistence for the clip catalog.
type ClipRepository interface {
	Create(clip *model.Clip) error
	Update(clip *model.Clip) error
	// DeleteCascade removes the clip row together with every playlist item
	// and hotkey assignment referencing it, mirroring the in-memory cascade.
	DeleteCascade(id string) error
	GetAll() ([]*model.Clip, error)
}

type mysqlClipRepository struct {
	db *gorm.DB
}

// NewMySQLClipRepository creates a gorm-backed clip repository.
func NewMySQLClipRepository(db *gorm.DB) ClipRepository {
	return &mysqlClipRepository{db: db}
}

func (r *mysqlClipRepository) Create(clip *model.Clip) error {
	if err := r.db.Create(clip).Error; err != nil {
		return fmt.Errorf("failed to create clip %s: %w", clip.ID, err)
	}
	return nil
}

func (r *mysqlClipRepository) Update(clip *model.Clip) error {
	err := r.db.Model(&model.Clip{}).Where("id = ?", clip.ID).Updates(map[string]interface{}{
		"display_name": clip.DisplayName,
		"volume":       clip.Volume,
		"head_trim":    clip.HeadTrim,
		"tail_trim":    clip.TailTrim,
		"updated_at":   clip.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update clip %s: %w", clip.ID, err)
	}
	return nil
}

func (r *mysqlClipRepository) DeleteCascade(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("clip_id = ?", id).Delete(&model.PlaylistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ? AND target_id = ?", model.KindClip, id).Delete(&model.Hotkey{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Clip{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete clip %s: %w", id, err)
	}
	return nil
}

func (r *mysqlClipRepository) GetAll() ([]*model.Clip, error) {
	var clips []*model.Clip
	if err := r.db.Order("created_at").Find(&clips).Error; err != nil {
		return nil, fmt.Errorf("failed to load clips: %w", err)
	}
	return clips, nil
}

// upsert shared by the sync paths.
func upsertAll(db *gorm.DB, value interface{}) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}
