package models

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventVet       = "vet"
	EventMove      = "move"
	EventBirth     = "birth"
	EventDeath     = "death"
	EventTreatment = "treatment"
	EventNote      = "note"
)

// Event is something that happened to an animal: a vet visit, a move,
// a birth, a death.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	CattleID  *uuid.UUID `json:"cattle_id,omitempty"`
	EventType string     `json:"event_type"`
	EventDate time.Time  `json:"event_date"`
	Details   string     `json:"details,omitempty"`
	Cost      *float64   `json:"cost,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// CattleTag is joined from the cattle table on reads.
	CattleTag string `json:"cattle_tag,omitempty"`
}
