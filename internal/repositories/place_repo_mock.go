package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"rental/internal/apperr"
	"rental/internal/models"

	"github.com/google/uuid"
)

// MockPlaceRepository is an in-memory implementation of PlaceRepository.
type MockPlaceRepository struct {
	places map[string]models.Place
	mu     sync.RWMutex
}

// NewMockPlaceRepository creates a new instance of MockPlaceRepository.
func NewMockPlaceRepository() *MockPlaceRepository {
	return &MockPlaceRepository{
		places: make(map[string]models.Place),
	}
}

// GetAll returns all places, oldest first.
func (r *MockPlaceRepository) GetAll() ([]models.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(models.Place) bool { return true }), nil
}

// GetByOwner returns the places owned by ownerID, oldest first.
func (r *MockPlaceRepository) GetByOwner(ownerID string) ([]models.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p models.Place) bool { return p.OwnerID == ownerID }), nil
}

// GetByID returns a place by its ID.
func (r *MockPlaceRepository) GetByID(id string) (*models.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	place, ok := r.places[id]
	if !ok {
		return nil, fmt.Errorf("%w: place with ID %s", apperr.ErrNotFound, id)
	}
	return clonePlace(place), nil
}

// Create adds a new place.
func (r *MockPlaceRepository) Create(place *models.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	now := time.Now()
	place.CreatedAt = now
	place.UpdatedAt = now
	r.places[place.ID] = *clonePlace(*place)
	return nil
}

// Update replaces an existing place, keeping its owner and creation time.
func (r *MockPlaceRepository) Update(place *models.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.places[place.ID]
	if !ok {
		return fmt.Errorf("%w: place with ID %s not found for update", apperr.ErrNotFound, place.ID)
	}
	place.OwnerID = existing.OwnerID
	place.CreatedAt = existing.CreatedAt
	place.UpdatedAt = time.Now()
	r.places[place.ID] = *clonePlace(*place)
	return nil
}

func (r *MockPlaceRepository) collect(keep func(models.Place) bool) []models.Place {
	placeList := make([]models.Place, 0, len(r.places))
	for _, p := range r.places {
		if keep(p) {
			placeList = append(placeList, *clonePlace(p))
		}
	}
	sort.Slice(placeList, func(i, j int) bool {
		if placeList[i].CreatedAt.Equal(placeList[j].CreatedAt) {
			return placeList[i].ID < placeList[j].ID
		}
		return placeList[i].CreatedAt.Before(placeList[j].CreatedAt)
	})
	return placeList
}

// clonePlace copies p so callers never share slices with the store.
func clonePlace(p models.Place) *models.Place {
	p.Photos = append([]string(nil), p.Photos...)
	p.Perks = append([]string(nil), p.Perks...)
	return &p
}
