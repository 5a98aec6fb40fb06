package handlers

import (
	"errors"

	"rental/internal/apperr"
	"rental/internal/middleware"
	"rental/internal/models"
	"rental/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PlaceHandler handles HTTP requests for places.
type PlaceHandler struct {
	service *services.PlaceService
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(service *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{
		service: service,
	}
}

// RegisterRoutes registers the place routes. authRequired guards the routes
// that act on behalf of the caller.
func (h *PlaceHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/places", h.HandleGetPlaces)
	router.Get("/places/:id", h.HandleGetPlaceByID)
	router.Post("/places", authRequired, h.HandleCreatePlace)
	router.Put("/places", authRequired, h.HandleUpdatePlace)
	router.Get("/user-places", authRequired, h.HandleGetUserPlaces)
}

// HandleGetPlaces lists every place.
func (h *PlaceHandler) HandleGetPlaces(c *fiber.Ctx) error {
	places, err := h.service.GetAllPlaces()
	if err != nil {
		return err
	}
	return c.JSON(places)
}

// HandleGetPlaceByID returns one place, or null when it does not exist.
func (h *PlaceHandler) HandleGetPlaceByID(c *fiber.Ctx) error {
	place, err := h.service.GetPlaceByID(c.Params("id"))
	if errors.Is(err, apperr.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return err
	}
	return c.JSON(place)
}

// HandleCreatePlace creates a place owned by the caller.
func (h *PlaceHandler) HandleCreatePlace(c *fiber.Ctx) error {
	claims, _ := middleware.IdentityFrom(c)

	var input models.PlaceInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(err)
	}

	place, err := h.service.CreatePlace(claims.UserID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(place)
}

// UpdatePlaceRequest is the body of PUT /places.
type UpdatePlaceRequest struct {
	ID string `json:"id"`
	models.PlaceInput
}

// HandleUpdatePlace updates a place the caller owns.
func (h *PlaceHandler) HandleUpdatePlace(c *fiber.Ctx) error {
	claims, _ := middleware.IdentityFrom(c)

	var req UpdatePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	if req.ID == "" {
		return apperr.Validation(map[string]string{"id": "id is required"})
	}

	if _, err := h.service.UpdatePlace(claims.UserID, req.ID, req.PlaceInput); err != nil {
		return err
	}
	return c.JSON("ok")
}

// HandleGetUserPlaces lists the caller's own places.
func (h *PlaceHandler) HandleGetUserPlaces(c *fiber.Ctx) error {
	claims, _ := middleware.IdentityFrom(c)

	places, err := h.service.GetPlacesByOwner(claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(places)
}
