package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store"
)

type noteTable struct {
	name        string
	eventColumn string
}

var noteTables = map[domain.EventKind]noteTable{
	domain.EventKindIncident:             {name: "incident_public_notes", eventColumn: "incident_id"},
	domain.EventKindScheduledMaintenance: {name: "scheduled_maintenance_public_notes", eventColumn: "scheduled_maintenance_id"},
}

type PublicNoteStore struct {
	db *DB
}

func NewPublicNoteStore(db *DB) *PublicNoteStore {
	return &PublicNoteStore{db: db}
}

func (s *PublicNoteStore) SelectPending(ctx context.Context, kind domain.EventKind, before time.Time, limit int) ([]*domain.PublicNote, error) {
	t, ok := noteTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}

	query := fmt.Sprintf(`
		SELECT id, project_id, %s, note, notify_on_create, notification_status, status_message, created_at
		FROM %s
		WHERE notification_status = $1 AND notify_on_create AND created_at <= $2
		ORDER BY created_at ASC
		LIMIT $3
	`, t.eventColumn, t.name)

	rows, err := s.db.Pool.Query(ctx, query, domain.NotificationStatusPending, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows, kind)
}

// UpdateNotificationStatus applies one forward state-machine step. The
// update is guarded on the expected predecessor status, so a note already
// claimed by a previous run can not be claimed again.
func (s *PublicNoteStore) UpdateNotificationStatus(ctx context.Context, kind domain.EventKind, noteID string, to domain.NotificationStatus, message string) error {
	t, ok := noteTables[kind]
	if !ok {
		return fmt.Errorf("unknown event kind %q", kind)
	}

	var from domain.NotificationStatus
	switch {
	case to == domain.NotificationStatusInProgress:
		from = domain.NotificationStatusPending
	case to.Terminal():
		from = domain.NotificationStatusInProgress
	default:
		return fmt.Errorf("status %s is not a valid transition target", to)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET notification_status = $1, status_message = $2
		WHERE id = $3 AND notification_status = $4
	`, t.name)

	tag, err := s.db.Pool.Exec(ctx, query, to, message, noteID, from)
	if err != nil {
		return fmt.Errorf("update note status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: no %s note to move to %s", noteID, from, to)
	}
	return nil
}

func (s *PublicNoteStore) GetByID(ctx context.Context, kind domain.EventKind, noteID string) (*domain.PublicNote, error) {
	t, ok := noteTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}

	query := fmt.Sprintf(`
		SELECT id, project_id, %s, note, notify_on_create, notification_status, status_message, created_at
		FROM %s
		WHERE id = $1
	`, t.eventColumn, t.name)

	n := domain.PublicNote{Kind: kind}
	err := s.db.Pool.QueryRow(ctx, query, noteID).Scan(
		&n.ID, &n.ProjectID, &n.EventID, &n.Note, &n.NotifyOnCreate,
		&n.NotificationStatus, &n.StatusMessage, &n.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

func (s *PublicNoteStore) List(ctx context.Context, kind domain.EventKind, status domain.NotificationStatus, limit int) ([]*domain.PublicNote, error) {
	t, ok := noteTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}

	query := fmt.Sprintf(`
		SELECT id, project_id, %s, note, notify_on_create, notification_status, status_message, created_at
		FROM %s
		WHERE ($1 = '' OR notification_status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, t.eventColumn, t.name)

	rows, err := s.db.Pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows, kind)
}

// Requeue resets a Failed note to Pending so the next engine tick picks it
// up again.
func (s *PublicNoteStore) Requeue(ctx context.Context, kind domain.EventKind, noteID string) error {
	t, ok := noteTables[kind]
	if !ok {
		return fmt.Errorf("unknown event kind %q", kind)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET notification_status = $1, status_message = ''
		WHERE id = $2 AND notification_status = $3
	`, t.name)

	tag, err := s.db.Pool.Exec(ctx, query, domain.NotificationStatusPending, noteID, domain.NotificationStatusFailed)
	if err != nil {
		return fmt.Errorf("requeue note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s is not in Failed status", noteID)
	}
	return nil
}

func scanNotes(rows pgx.Rows, kind domain.EventKind) ([]*domain.PublicNote, error) {
	var notes []*domain.PublicNote
	for rows.Next() {
		n := domain.PublicNote{Kind: kind}
		err := rows.Scan(
			&n.ID, &n.ProjectID, &n.EventID, &n.Note, &n.NotifyOnCreate,
			&n.NotificationStatus, &n.StatusMessage, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
