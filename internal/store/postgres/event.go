package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store"
)

type EventStore struct {
	db *DB
}

func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) GetIncident(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT i.id, i.project_id, i.title, COALESCE(i.description, ''), COALESCE(i.severity, ''),
		       COALESCE(i.incident_number, 0), i.is_visible_on_status_page,
		       COALESCE(array_agg(im.monitor_id) FILTER (WHERE im.monitor_id IS NOT NULL), '{}')
		FROM incidents i
		LEFT JOIN incident_monitors im ON im.incident_id = i.id
		WHERE i.id = $1
		GROUP BY i.id
	`

	ev := domain.Event{Kind: domain.EventKindIncident}
	err := s.db.Pool.QueryRow(ctx, query, id).Scan(
		&ev.ID, &ev.ProjectID, &ev.Title, &ev.Description, &ev.SeverityLabel,
		&ev.Number, &ev.VisibleOnStatusPage, &ev.MonitorIDs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get incident: %w", err)
	}
	return &ev, nil
}

func (s *EventStore) GetScheduledMaintenance(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT m.id, m.project_id, m.title, COALESCE(m.description, ''),
		       COALESCE(m.maintenance_number, 0), m.is_visible_on_status_page,
		       COALESCE(m.starts_at, 'epoch'::timestamptz),
		       COALESCE(array_agg(DISTINCT mm.monitor_id) FILTER (WHERE mm.monitor_id IS NOT NULL), '{}'),
		       COALESCE(array_agg(DISTINCT mp.status_page_id) FILTER (WHERE mp.status_page_id IS NOT NULL), '{}')
		FROM scheduled_maintenances m
		LEFT JOIN scheduled_maintenance_monitors mm ON mm.scheduled_maintenance_id = m.id
		LEFT JOIN scheduled_maintenance_status_pages mp ON mp.scheduled_maintenance_id = m.id
		WHERE m.id = $1
		GROUP BY m.id
	`

	ev := domain.Event{Kind: domain.EventKindScheduledMaintenance}
	err := s.db.Pool.QueryRow(ctx, query, id).Scan(
		&ev.ID, &ev.ProjectID, &ev.Title, &ev.Description,
		&ev.Number, &ev.VisibleOnStatusPage, &ev.StartsAt,
		&ev.MonitorIDs, &ev.StatusPageIDs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled maintenance: %w", err)
	}
	return &ev, nil
}
