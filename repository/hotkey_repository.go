package repository

import (
	"fmt"

	"sounddeck/model"

	"gorm.io/gorm"
)

// HotkeyRepository persists grid assignments. Only assigned slots are
// stored; the dense grid itself is rebuilt in memory from configuration.
type HotkeyRepository interface {
	Save(key model.Hotkey) error
	Clear(bank, pos int) error
	GetAll() ([]model.Hotkey, error)
	// ReplaceAll swaps the stored assignment set wholesale. Used after a
	// settings import.
	ReplaceAll(keys []model.Hotkey) error
}

type mysqlHotkeyRepository struct {
	db *gorm.DB
}

// NewMySQLHotkeyRepository creates a gorm-backed hotkey repository.
func NewMySQLHotkeyRepository(db *gorm.DB) HotkeyRepository {
	return &mysqlHotkeyRepository{db: db}
}

func (r *mysqlHotkeyRepository) Save(key model.Hotkey) error {
	if err := upsertAll(r.db, &key); err != nil {
		return fmt.Errorf("failed to save hotkey %d/%d: %w", key.BankID, key.Position, err)
	}
	return nil
}

func (r *mysqlHotkeyRepository) Clear(bank, pos int) error {
	err := r.db.Where("bank_id = ? AND position = ?", bank, pos).Delete(&model.Hotkey{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear hotkey %d/%d: %w", bank, pos, err)
	}
	return nil
}

func (r *mysqlHotkeyRepository) GetAll() ([]model.Hotkey, error) {
	var keys []model.Hotkey
	if err := r.db.Order("bank_id, position").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("failed to load hotkeys: %w", err)
	}
	return keys, nil
}

func (r *mysqlHotkeyRepository) ReplaceAll(keys []model.Hotkey) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Hotkey{}).Error; err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return tx.Create(&keys).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace hotkeys: %w", err)
	}
	return nil
}
