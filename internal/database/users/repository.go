// Package users provides database operations for user accounts.
//
// The importer only needs accounts as the foreign key target for import
// batches, so the surface is intentionally small.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.CreateUser("margot", "margot@example.com")
package users

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plotwist/importer/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user with a server-generated id.
func (r *Repository) CreateUser(username, email string) (*entities.User, error) {
	user := &entities.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by id.
func (r *Repository) GetUserByID(id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
