package repositories

import "rental/internal/models"

// UserRepository defines the interface for user data access.
// Lookups that find nothing return an error matching apperr.ErrNotFound;
// Create returns apperr.ErrDuplicateEmail when the email is taken.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
