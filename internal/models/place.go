package models

import "time"

// Place represents a rental listing. OwnerID is stamped from the creating
// user and never changes.
type Place struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string    `json:"owner" gorm:"index;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(200)"`
	Address     string    `json:"address" gorm:"type:varchar(500)"`
	Photos      []string  `json:"photos" gorm:"serializer:json"`
	Description string    `json:"description"`
	Perks       []string  `json:"perks" gorm:"serializer:json"`
	ExtraInfo   string    `json:"extraInfo"`
	CheckIn     string    `json:"checkIn" gorm:"type:varchar(5)"`
	CheckOut    string    `json:"checkOut" gorm:"type:varchar(5)"`
	MaxGuests   int       `json:"maxGuests"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaceInput holds the client-writable fields of a place, shared by create
// and update.
type PlaceInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Address     string   `json:"address" validate:"omitempty,max=500"`
	Photos      []string `json:"addedPhotos" validate:"max=100,dive,required"`
	Description string   `json:"description"`
	Perks       []string `json:"perks" validate:"dive,oneof=wifi parking tv radio pets entrance"`
	ExtraInfo   string   `json:"extraInfo"`
	CheckIn     string   `json:"checkIn" validate:"omitempty,datetime=15:04"`
	CheckOut    string   `json:"checkOut" validate:"omitempty,datetime=15:04"`
	MaxGuests   int      `json:"maxGuests" validate:"gt=0"`
	Price       float64  `json:"price" validate:"gt=0"`
}

// Place event types published after a successful write.
const (
	PlaceCreated = "place.created"
	PlaceUpdated = "place.updated"
)

// PlaceEvent describes a change to a place.
type PlaceEvent struct {
	Type       string    `json:"type"`
	PlaceID    string    `json:"placeId"`
	OwnerID    string    `json:"ownerId"`
	OccurredAt time.Time `json:"occurredAt"`
}
