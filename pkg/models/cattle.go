package models

import (
	"time"

	"github.com/google/uuid"
)

// Cattle statuses.
const (
	StatusActive      = "active"
	StatusSold        = "sold"
	StatusDeceased    = "deceased"
	StatusTransferred = "transferred"
)

// Cattle is one animal in the herd.
type Cattle struct {
	ID         uuid.UUID  `json:"id"`
	Tag        string     `json:"tag"`
	Type       string     `json:"type"` // cow, bull, calf, steer, heifer
	Breed      string     `json:"breed"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Status     string     `json:"status"`
	LocationID *uuid.UUID `json:"location_id,omitempty"`
	DamID      *uuid.UUID `json:"dam_id,omitempty"`
	SireID     *uuid.UUID `json:"sire_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// LocationName is joined from the locations table on reads.
	LocationName string `json:"location_name,omitempty"`
}
