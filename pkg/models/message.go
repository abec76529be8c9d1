package models

import (
	"time"

	"github.com/google/uuid"
)

// Message directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Message is one logged SMS or voice exchange leg.
type Message struct {
	ID           uuid.UUID `json:"id"`
	PhoneNumber  string    `json:"phone_number"`
	Direction    string    `json:"direction"`
	Body         string    `json:"body"`
	ParsedAction string    `json:"parsed_action,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
