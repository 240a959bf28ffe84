package postgres

import (
	"context"
	"fmt"

	"github.com/Krosebrook/oneuptime/internal/domain"
)

type FeedStore struct {
	db *DB
}

func NewFeedStore(db *DB) *FeedStore {
	return &FeedStore{db: db}
}

func (s *FeedStore) Append(ctx context.Context, entry *domain.FeedEntry) error {
	query := `
		INSERT INTO event_feed (id, event_id, kind, project_id, event_type, markdown, more_markdown, dashboard_link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.Pool.Exec(ctx, query,
		entry.ID,
		entry.EventID,
		entry.Kind,
		entry.ProjectID,
		entry.EventType,
		entry.Markdown,
		entry.MoreMarkdown,
		entry.DashboardLink,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append feed entry: %w", err)
	}

	return nil
}
