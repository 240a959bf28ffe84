package postgres

import (
	"context"
	"fmt"

	"github.com/Krosebrook/oneuptime/internal/domain"
)

type DeliveryAttemptStore struct {
	db *DB
}

func NewDeliveryAttemptStore(db *DB) *DeliveryAttemptStore {
	return &DeliveryAttemptStore{db: db}
}

func (s *DeliveryAttemptStore) Create(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	query := `
		INSERT INTO delivery_attempts (id, job_id, note_id, channel, destination, status, error, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.Pool.Exec(ctx, query,
		attempt.ID,
		attempt.JobID,
		attempt.NoteID,
		attempt.Channel,
		attempt.Destination,
		attempt.Status,
		attempt.Error,
		attempt.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create delivery attempt: %w", err)
	}

	return nil
}
