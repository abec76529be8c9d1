package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stokeshomestead/farmops/pkg/database"
	"github.com/stokeshomestead/farmops/pkg/models"
)

// EventRepository defines the interface for event data access.
type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	Recent(ctx context.Context, limit int) ([]*models.Event, error)
}

// eventRepository implements EventRepository using PostgreSQL.
type eventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *database.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create inserts an event. CattleID may be nil for events about animals
// that have no record yet.
func (r *eventRepository) Create(ctx context.Context, e *models.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	if e.EventDate.IsZero() {
		e.EventDate = e.CreatedAt
	}

	query := `
		INSERT INTO events (id, cattle_id, event_type, event_date, details, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		e.ID, e.CattleID, e.EventType, e.EventDate, e.Details, e.Cost, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Recent returns the newest events first, joined with the animal's tag.
func (r *eventRepository) Recent(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT e.id, e.cattle_id, e.event_type, e.event_date,
		       COALESCE(e.details, ''), e.cost, e.created_at, COALESCE(c.tag, '')
		FROM events e
		LEFT JOIN cattle c ON e.cattle_id = c.id
		ORDER BY e.event_date DESC, e.created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID, &e.CattleID, &e.EventType, &e.EventDate,
			&e.Details, &e.Cost, &e.CreatedAt, &e.CattleTag,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
