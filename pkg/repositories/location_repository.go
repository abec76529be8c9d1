package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stokeshomestead/farmops/pkg/database"
	"github.com/stokeshomestead/farmops/pkg/models"
)

// LocationRepository defines the interface for location data access.
type LocationRepository interface {
	GetOrCreateByName(ctx context.Context, name string) (*models.Location, error)
	List(ctx context.Context) ([]*models.Location, error)
}

// locationRepository implements LocationRepository using PostgreSQL.
type locationRepository struct {
	db *database.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *database.DB) LocationRepository {
	return &locationRepository{db: db}
}

// GetOrCreateByName finds a location by fuzzy name match ("north pasture"
// matches "North Pasture") or creates it with pasture_type 'other' when no
// existing location matches.
func (r *locationRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("location name is empty")
	}

	query := `
		SELECT id, name, COALESCE(pasture_type, ''), COALESCE(notes, ''), created_at
		FROM locations
		WHERE LOWER(name) LIKE '%' || LOWER($1) || '%'
		ORDER BY name
		LIMIT 1`

	var loc models.Location
	err := r.db.QueryRow(ctx, query, name).Scan(
		&loc.ID, &loc.Name, &loc.PastureType, &loc.Notes, &loc.CreatedAt,
	)
	if err == nil {
		return &loc, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to look up location: %w", err)
	}

	loc = models.Location{
		ID:          uuid.New(),
		Name:        name,
		PastureType: "other",
		CreatedAt:   time.Now(),
	}
	insert := `
		INSERT INTO locations (id, name, pasture_type, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, insert, loc.ID, loc.Name, loc.PastureType, loc.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return &loc, nil
}

// List returns all locations ordered by name.
func (r *locationRepository) List(ctx context.Context) ([]*models.Location, error) {
	query := `
		SELECT id, name, COALESCE(pasture_type, ''), COALESCE(notes, ''), created_at
		FROM locations
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.PastureType, &loc.Notes, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, &loc)
	}
	return locations, rows.Err()
}
