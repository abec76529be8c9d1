package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is one sale transaction covering one or more head.
type Sale struct {
	ID          uuid.UUID `json:"id"`
	SaleDate    time.Time `json:"sale_date"`
	HeadCount   int       `json:"head_count"`
	TotalWeight *float64  `json:"total_weight,omitempty"`
	PricePerLb  *float64  `json:"price_per_lb,omitempty"`
	TotalAmount *float64  `json:"total_amount,omitempty"`
	Buyer       string    `json:"buyer,omitempty"`
	CattleType  string    `json:"cattle_type,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaleTotals aggregates sales over a period.
type SaleTotals struct {
	HeadCount   int     `json:"head_count"`
	TotalAmount float64 `json:"total_amount"`
}
