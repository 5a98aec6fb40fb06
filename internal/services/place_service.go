package services

import (
	"fmt"
	"log"
	"time"

	"rental/internal/apperr"
	"rental/internal/models"
	"rental/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EventPublisher receives place lifecycle events.
type EventPublisher interface {
	PublishPlaceEvent(event models.PlaceEvent) error
}

// PlaceService handles business logic related to places.
type PlaceService struct {
	repo     repositories.PlaceRepository
	events   EventPublisher // may be nil
	validate *validator.Validate
}

// NewPlaceService creates a new PlaceService. events may be nil.
func NewPlaceService(repo repositories.PlaceRepository, events EventPublisher) *PlaceService {
	return &PlaceService{
		repo:     repo,
		events:   events,
		validate: validator.New(),
	}
}

// GetAllPlaces retrieves all places.
func (s *PlaceService) GetAllPlaces() ([]models.Place, error) {
	places, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return normalizePlaces(places), nil
}

// GetPlacesByOwner retrieves the places owned by ownerID.
func (s *PlaceService) GetPlacesByOwner(ownerID string) ([]models.Place, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner required", apperr.ErrUnauthorized)
	}
	places, err := s.repo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return normalizePlaces(places), nil
}

// GetPlaceByID retrieves a single place by its ID.
func (s *PlaceService) GetPlaceByID(id string) (*models.Place, error) {
	place, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	normalizePlace(place)
	return place, nil
}

// CreatePlace stores a new place owned by ownerID.
func (s *PlaceService) CreatePlace(ownerID string, input models.PlaceInput) (*models.Place, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner required", apperr.ErrUnauthorized)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, apperr.FromValidator(err)
	}

	place := &models.Place{OwnerID: ownerID}
	applyInput(place, input)
	if err := s.repo.Create(place); err != nil {
		return nil, err
	}

	s.publish(models.PlaceCreated, place)
	normalizePlace(place)
	return place, nil
}

// UpdatePlace replaces the writable fields of placeID. Only the owner may
// update a place.
func (s *PlaceService) UpdatePlace(callerID, placeID string, input models.PlaceInput) (*models.Place, error) {
	if callerID == "" {
		return nil, fmt.Errorf("%w: caller required", apperr.ErrUnauthorized)
	}

	place, err := s.repo.GetByID(placeID)
	if err != nil {
		return nil, err
	}
	if place.OwnerID != callerID {
		return nil, fmt.Errorf("%w: place %s belongs to another user", apperr.ErrForbidden, placeID)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, apperr.FromValidator(err)
	}

	applyInput(place, input)
	if err := s.repo.Update(place); err != nil {
		return nil, err
	}

	s.publish(models.PlaceUpdated, place)
	normalizePlace(place)
	return place, nil
}

func (s *PlaceService) publish(eventType string, place *models.Place) {
	if s.events == nil {
		return
	}
	event := models.PlaceEvent{
		Type:       eventType,
		PlaceID:    place.ID,
		OwnerID:    place.OwnerID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishPlaceEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for place %s: %v", eventType, place.ID, err)
	}
}

func applyInput(place *models.Place, input models.PlaceInput) {
	place.Title = input.Title
	place.Address = input.Address
	place.Photos = append([]string{}, input.Photos...)
	place.Description = input.Description
	place.Perks = uniquePerks(input.Perks)
	place.ExtraInfo = input.ExtraInfo
	place.CheckIn = input.CheckIn
	place.CheckOut = input.CheckOut
	place.MaxGuests = input.MaxGuests
	place.Price = input.Price
}

// uniquePerks drops repeated perks, keeping first-seen order.
func uniquePerks(perks []string) []string {
	seen := make(map[string]struct{}, len(perks))
	out := make([]string, 0, len(perks))
	for _, p := range perks {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func normalizePlace(place *models.Place) {
	if place.Photos == nil {
		place.Photos = []string{}
	}
	if place.Perks == nil {
		place.Perks = []string{}
	}
}

func normalizePlaces(places []models.Place) []models.Place {
	if places == nil {
		return []models.Place{}
	}
	for i := range places {
		normalizePlace(&places[i])
	}
	return places
}
