package repository

import (
	"errors"
	"fmt"

	"sounddeck/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user account operations.
type UserRepository interface {
	CreateUser(user *model.User) (int64, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
}

type mysqlUserRepository struct {
	db *gorm.DB
}

// NewMySQLUserRepository creates a gorm-backed user repository.
func NewMySQLUserRepository(db *gorm.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

func (r *mysqlUserRepository) CreateUser(user *model.User) (int64, error) {
	if err := r.db.Create(user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return user.ID, nil
}

func (r *mysqlUserRepository) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // user not found
		}
		return nil, fmt.Errorf("failed to query user %s: %w", username, err)
	}
	return &user, nil
}

func (r *mysqlUserRepository) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &user, nil
}
