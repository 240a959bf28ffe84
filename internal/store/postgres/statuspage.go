package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store"
)

type StatusPageStore struct {
	db *DB
}

func NewStatusPageStore(db *DB) *StatusPageStore {
	return &StatusPageStore{db: db}
}

func (s *StatusPageStore) ResourcesByMonitorIDs(ctx context.Context, monitorIDs []string) ([]*domain.StatusPageResource, error) {
	if len(monitorIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, status_page_id, monitor_id, display_name
		FROM status_page_resources
		WHERE monitor_id = ANY($1)
	`

	rows, err := s.db.Pool.Query(ctx, query, monitorIDs)
	if err != nil {
		return nil, fmt.Errorf("query status page resources: %w", err)
	}
	defer rows.Close()

	var resources []*domain.StatusPageResource
	for rows.Next() {
		var r domain.StatusPageResource
		if err := rows.Scan(&r.ID, &r.StatusPageID, &r.MonitorID, &r.DisplayName); err != nil {
			return nil, fmt.Errorf("scan status page resource: %w", err)
		}
		resources = append(resources, &r)
	}
	return resources, rows.Err()
}

func (s *StatusPageStore) PagesToNotify(ctx context.Context, pageIDs []string) ([]*domain.StatusPage, error) {
	if len(pageIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, project_id, name, COALESCE(page_title, ''), COALESCE(page_url, ''),
		       is_public, COALESCE(logo_file_id, ''),
		       show_incidents, show_scheduled_maintenances,
		       COALESCE(smtp_config_id, ''), COALESCE(sms_config_id, ''),
		       COALESCE(subscriber_email_footer_text, '')
		FROM status_pages
		WHERE id = ANY($1) AND deleted_at IS NULL
	`

	rows, err := s.db.Pool.Query(ctx, query, pageIDs)
	if err != nil {
		return nil, fmt.Errorf("query status pages: %w", err)
	}
	defer rows.Close()

	var pages []*domain.StatusPage
	for rows.Next() {
		var p domain.StatusPage
		err := rows.Scan(
			&p.ID, &p.ProjectID, &p.Name, &p.PageTitle, &p.PageURL,
			&p.IsPublic, &p.LogoFileID,
			&p.ShowIncidents, &p.ShowScheduledMaintenances,
			&p.SMTPConfigID, &p.SMSConfigID,
			&p.SubscriberEmailFooterText,
		)
		if err != nil {
			return nil, fmt.Errorf("scan status page: %w", err)
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

func (s *StatusPageStore) SubscribersByPage(ctx context.Context, pageID string) ([]*domain.Subscriber, error) {
	query := `
		SELECT id, status_page_id, COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(webhook_url, ''), unsubscribed, resource_ids
		FROM status_page_subscribers
		WHERE status_page_id = $1
	`

	rows, err := s.db.Pool.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		err := rows.Scan(
			&sub.ID, &sub.StatusPageID, &sub.Email, &sub.Phone,
			&sub.WebhookURL, &sub.Unsubscribed, &sub.ResourceIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (s *StatusPageStore) SMTPConfig(ctx context.Context, id string) (*domain.SMTPConfig, error) {
	query := `
		SELECT id, project_id, host, port, COALESCE(username, ''), COALESCE(password, ''),
		       from_email, COALESCE(from_name, '')
		FROM project_smtp_configs
		WHERE id = $1
	`

	var c domain.SMTPConfig
	err := s.db.Pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ProjectID, &c.Host, &c.Port, &c.Username, &c.Password,
		&c.FromEmail, &c.FromName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get smtp config: %w", err)
	}
	return &c, nil
}

func (s *StatusPageStore) SMSConfig(ctx context.Context, id string) (*domain.SMSConfig, error) {
	query := `
		SELECT id, project_id, provider_url, account_sid, auth_token, from_number
		FROM project_sms_configs
		WHERE id = $1
	`

	var c domain.SMSConfig
	err := s.db.Pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ProjectID, &c.ProviderURL, &c.AccountSID, &c.AuthToken, &c.FromNumber,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sms config: %w", err)
	}
	return &c, nil
}
