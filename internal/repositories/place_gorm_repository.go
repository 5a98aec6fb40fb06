package repositories

import (
	"errors"
	"fmt"

	"rental/internal/apperr"
	"rental/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPlaceRepository is a GORM implementation of PlaceRepository.
type GORMPlaceRepository struct {
	db *gorm.DB
}

// NewGORMPlaceRepository creates a new instance of GORMPlaceRepository.
func NewGORMPlaceRepository(db *gorm.DB) *GORMPlaceRepository {
	return &GORMPlaceRepository{
		db: db,
	}
}

// GetAll retrieves all places, oldest first.
func (r *GORMPlaceRepository) GetAll() ([]models.Place, error) {
	var places []models.Place
	if err := r.db.Order("created_at, id").Find(&places).Error; err != nil {
		return nil, fmt.Errorf("failed to get all places: %w", err)
	}
	return places, nil
}

// GetByOwner retrieves the places owned by ownerID, oldest first.
func (r *GORMPlaceRepository) GetByOwner(ownerID string) ([]models.Place, error) {
	var places []models.Place
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at, id").Find(&places).Error; err != nil {
		return nil, fmt.Errorf("failed to get places of owner %s: %w", ownerID, err)
	}
	return places, nil
}

// GetByID retrieves a single place by its ID from the database.
func (r *GORMPlaceRepository) GetByID(id string) (*models.Place, error) {
	var place models.Place
	if err := r.db.First(&place, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: place with ID %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get place by ID %s: %w", id, err)
	}
	return &place, nil
}

// Create creates a new place in the database.
func (r *GORMPlaceRepository) Create(place *models.Place) error {
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	if err := r.db.Create(place).Error; err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}
	return nil
}

// Update writes every column of an existing place.
func (r *GORMPlaceRepository) Update(place *models.Place) error {
	res := r.db.Model(place).Select("*").Omit("id", "owner_id", "created_at").Updates(place)
	if res.Error != nil {
		return fmt.Errorf("failed to update place: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: place with ID %s not found for update", apperr.ErrNotFound, place.ID)
	}
	return nil
}
