package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stokeshomestead/farmops/pkg/database"
	"github.com/stokeshomestead/farmops/pkg/models"
)

// SaleRepository defines the interface for sale data access.
type SaleRepository interface {
	Create(ctx context.Context, s *models.Sale) error
	TotalsSince(ctx context.Context, since time.Time) (*models.SaleTotals, error)
}

// saleRepository implements SaleRepository using PostgreSQL.
type saleRepository struct {
	db *database.DB
}

// NewSaleRepository creates a new sale repository.
func NewSaleRepository(db *database.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Create inserts a sale record.
func (r *saleRepository) Create(ctx context.Context, s *models.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	if s.SaleDate.IsZero() {
		s.SaleDate = s.CreatedAt
	}

	query := `
		INSERT INTO sales (id, sale_date, head_count, total_weight, price_per_lb, total_amount, buyer, cattle_type, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.SaleDate, s.HeadCount, s.TotalWeight, s.PricePerLb,
		s.TotalAmount, s.Buyer, s.CattleType, s.Notes, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

// TotalsSince sums head counts and dollar amounts for sales on or after
// the given date.
func (r *saleRepository) TotalsSince(ctx context.Context, since time.Time) (*models.SaleTotals, error) {
	query := `
		SELECT COALESCE(SUM(head_count), 0), COALESCE(SUM(total_amount), 0)
		FROM sales
		WHERE sale_date >= $1`

	var totals models.SaleTotals
	if err := r.db.QueryRow(ctx, query, since).Scan(&totals.HeadCount, &totals.TotalAmount); err != nil {
		return nil, fmt.Errorf("failed to total sales: %w", err)
	}
	return &totals, nil
}
