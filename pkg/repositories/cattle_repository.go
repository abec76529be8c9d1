package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stokeshomestead/farmops/pkg/apperrors"
	"github.com/stokeshomestead/farmops/pkg/database"
	"github.com/stokeshomestead/farmops/pkg/models"
)

// CattleRepository defines the interface for cattle data access.
type CattleRepository interface {
	Create(ctx context.Context, c *models.Cattle) error
	GetByTag(ctx context.Context, tag string) (*models.Cattle, error)
	List(ctx context.Context, status string) ([]*models.Cattle, error)
	UpdateLocation(ctx context.Context, tag string, locationID uuid.UUID) error
	Count(ctx context.Context, cattleType string, since *time.Time) (int, error)
	CountByType(ctx context.Context) (map[string]int, error)
}

// cattleRepository implements CattleRepository using PostgreSQL.
type cattleRepository struct {
	db *database.DB
}

// NewCattleRepository creates a new cattle repository.
func NewCattleRepository(db *database.DB) CattleRepository {
	return &cattleRepository{db: db}
}

const cattleColumns = `
	c.id, COALESCE(c.tag, ''), c.type, c.breed, c.birth_date, c.status,
	c.location_id, c.dam_id, c.sire_id, COALESCE(c.notes, ''),
	c.created_at, c.updated_at, COALESCE(l.name, '')`

// Create inserts a new animal. Returns ErrDuplicateTag when the tag is
// already taken.
func (r *cattleRepository) Create(ctx context.Context, c *models.Cattle) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	if c.Breed == "" {
		c.Breed = "Angus"
	}

	query := `
		INSERT INTO cattle (id, tag, type, breed, birth_date, status, location_id, dam_id, sire_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Tag, c.Type, c.Breed, c.BirthDate, c.Status,
		c.LocationID, c.DamID, c.SireID, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateTag
		}
		return fmt.Errorf("failed to create cattle record: %w", err)
	}
	return nil
}

// GetByTag finds an animal by exact tag, falling back to a contains match
// for partial tags ("42" matches "RED-42"). Returns ErrNotFound when
// nothing matches.
func (r *cattleRepository) GetByTag(ctx context.Context, tag string) (*models.Cattle, error) {
	query := `
		SELECT ` + cattleColumns + `
		FROM cattle c
		LEFT JOIN locations l ON c.location_id = l.id
		WHERE LOWER(c.tag) = LOWER($1)
		   OR LOWER(c.tag) LIKE '%' || LOWER($1) || '%'
		ORDER BY (LOWER(c.tag) = LOWER($1)) DESC, c.created_at
		LIMIT 1`

	c, err := scanCattle(r.db.QueryRow(ctx, query, tag))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cattle by tag: %w", err)
	}
	return c, nil
}

// List returns all animals with the given status, ordered by tag.
func (r *cattleRepository) List(ctx context.Context, status string) ([]*models.Cattle, error) {
	query := `
		SELECT ` + cattleColumns + `
		FROM cattle c
		LEFT JOIN locations l ON c.location_id = l.id
		WHERE c.status = $1
		ORDER BY c.tag`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list cattle: %w", err)
	}
	defer rows.Close()

	var herd []*models.Cattle
	for rows.Next() {
		c, err := scanCattle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cattle row: %w", err)
		}
		herd = append(herd, c)
	}
	return herd, rows.Err()
}

// UpdateLocation moves the animal with the given tag (exact or partial
// match) to locationID. Returns ErrNotFound when no animal matched.
func (r *cattleRepository) UpdateLocation(ctx context.Context, tag string, locationID uuid.UUID) error {
	query := `
		UPDATE cattle SET location_id = $1, updated_at = now()
		WHERE LOWER(tag) = LOWER($2)
		   OR LOWER(tag) LIKE '%' || LOWER($2) || '%'`

	res, err := r.db.Exec(ctx, query, locationID, tag)
	if err != nil {
		return fmt.Errorf("failed to update cattle location: %w", err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Count counts active animals, optionally filtered by type and by birth
// date on or after since.
func (r *cattleRepository) Count(ctx context.Context, cattleType string, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM cattle WHERE status = 'active'`
	args := []any{}

	if cattleType != "" {
		args = append(args, cattleType)
		query += fmt.Sprintf(" AND LOWER(type) = LOWER($%d)", len(args))
	}
	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND birth_date >= $%d", len(args))
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cattle: %w", err)
	}
	return count, nil
}

// CountByType returns active head counts grouped by animal type.
func (r *cattleRepository) CountByType(ctx context.Context) (map[string]int, error) {
	query := `SELECT type, COUNT(*) FROM cattle WHERE status = 'active' GROUP BY type`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count cattle by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

// scanCattle maps one joined cattle row into a model.
func scanCattle(row pgx.Row) (*models.Cattle, error) {
	var c models.Cattle
	err := row.Scan(
		&c.ID, &c.Tag, &c.Type, &c.Breed, &c.BirthDate, &c.Status,
		&c.LocationID, &c.DamID, &c.SireID, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt, &c.LocationName,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
