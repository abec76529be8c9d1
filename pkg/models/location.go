package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a named place cattle can be at: a pasture, pen, barn.
type Location struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PastureType string    `json:"pasture_type"` // "grazing", "hay", "holding", "shelter", "wooded", "other"
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
