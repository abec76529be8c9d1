package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stokeshomestead/farmops/pkg/database"
	"github.com/stokeshomestead/farmops/pkg/models"
)

// MessageRepository defines the interface for the message log.
type MessageRepository interface {
	Log(ctx context.Context, phone, direction, body, parsedAction string) error
}

// messageRepository implements MessageRepository using PostgreSQL.
type messageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *database.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Log records one inbound or outbound message leg.
func (r *messageRepository) Log(ctx context.Context, phone, direction, body, parsedAction string) error {
	if direction != models.DirectionInbound && direction != models.DirectionOutbound {
		return fmt.Errorf("invalid message direction %q", direction)
	}

	query := `
		INSERT INTO messages (id, phone_number, direction, body, parsed_action, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`

	if _, err := r.db.Exec(ctx, query, uuid.New(), phone, direction, body, parsedAction); err != nil {
		return fmt.Errorf("failed to log message: %w", err)
	}
	return nil
}
