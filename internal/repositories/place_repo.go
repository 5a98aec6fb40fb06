package repositories

import (
	"rental/internal/models"
)

// PlaceRepository defines the interface for place data access.
type PlaceRepository interface {
	GetAll() ([]models.Place, error)
	GetByOwner(ownerID string) ([]models.Place, error)
	GetByID(id string) (*models.Place, error)
	Create(place *models.Place) error
	Update(place *models.Place) error
}
