package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

func (db *DB) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS monitors (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name       TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS incidents (
			id                        TEXT PRIMARY KEY,
			project_id                TEXT NOT NULL,
			title                     TEXT NOT NULL,
			description               TEXT,
			severity                  TEXT,
			incident_number           INT,
			is_visible_on_status_page BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS incident_monitors (
			incident_id TEXT REFERENCES incidents(id),
			monitor_id  TEXT REFERENCES monitors(id),
			PRIMARY KEY (incident_id, monitor_id)
		);

		CREATE TABLE IF NOT EXISTS scheduled_maintenances (
			id                        TEXT PRIMARY KEY,
			project_id                TEXT NOT NULL,
			title                     TEXT NOT NULL,
			description               TEXT,
			maintenance_number        INT,
			is_visible_on_status_page BOOLEAN NOT NULL DEFAULT TRUE,
			starts_at                 TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS scheduled_maintenance_monitors (
			scheduled_maintenance_id TEXT REFERENCES scheduled_maintenances(id),
			monitor_id               TEXT REFERENCES monitors(id),
			PRIMARY KEY (scheduled_maintenance_id, monitor_id)
		);

		CREATE TABLE IF NOT EXISTS scheduled_maintenance_status_pages (
			scheduled_maintenance_id TEXT REFERENCES scheduled_maintenances(id),
			status_page_id           TEXT NOT NULL,
			PRIMARY KEY (scheduled_maintenance_id, status_page_id)
		);

		CREATE TABLE IF NOT EXISTS incident_public_notes (
			id                  TEXT PRIMARY KEY,
			project_id          TEXT NOT NULL,
			incident_id         TEXT REFERENCES incidents(id),
			note                TEXT NOT NULL,
			notify_on_create    BOOLEAN NOT NULL DEFAULT TRUE,
			notification_status TEXT NOT NULL DEFAULT 'PENDING'
				CHECK (notification_status IN ('PENDING', 'IN_PROGRESS', 'SUCCESS', 'SKIPPED', 'FAILED')),
			status_message      TEXT NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS scheduled_maintenance_public_notes (
			id                       TEXT PRIMARY KEY,
			project_id               TEXT NOT NULL,
			scheduled_maintenance_id TEXT REFERENCES scheduled_maintenances(id),
			note                     TEXT NOT NULL,
			notify_on_create         BOOLEAN NOT NULL DEFAULT TRUE,
			notification_status      TEXT NOT NULL DEFAULT 'PENDING'
				CHECK (notification_status IN ('PENDING', 'IN_PROGRESS', 'SUCCESS', 'SKIPPED', 'FAILED')),
			status_message           TEXT NOT NULL DEFAULT '',
			created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS project_smtp_configs (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			host       TEXT NOT NULL,
			port       INT NOT NULL,
			username   TEXT,
			password   TEXT,
			from_email TEXT NOT NULL,
			from_name  TEXT
		);

		CREATE TABLE IF NOT EXISTS project_sms_configs (
			id           TEXT PRIMARY KEY,
			project_id   TEXT NOT NULL,
			provider_url TEXT NOT NULL,
			account_sid  TEXT NOT NULL,
			auth_token   TEXT NOT NULL,
			from_number  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS status_pages (
			id                           TEXT PRIMARY KEY,
			project_id                   TEXT NOT NULL,
			name                         TEXT NOT NULL,
			page_title                   TEXT,
			page_url                     TEXT,
			is_public                    BOOLEAN NOT NULL DEFAULT TRUE,
			logo_file_id                 TEXT,
			show_incidents               BOOLEAN NOT NULL DEFAULT TRUE,
			show_scheduled_maintenances  BOOLEAN NOT NULL DEFAULT TRUE,
			smtp_config_id               TEXT REFERENCES project_smtp_configs(id),
			sms_config_id                TEXT REFERENCES project_sms_configs(id),
			subscriber_email_footer_text TEXT,
			deleted_at                   TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS status_page_resources (
			id             TEXT PRIMARY KEY,
			status_page_id TEXT REFERENCES status_pages(id),
			monitor_id     TEXT REFERENCES monitors(id),
			display_name   TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS status_page_subscribers (
			id             TEXT PRIMARY KEY,
			status_page_id TEXT REFERENCES status_pages(id),
			email          TEXT,
			phone          TEXT,
			webhook_url    TEXT,
			unsubscribed   BOOLEAN NOT NULL DEFAULT FALSE,
			resource_ids   TEXT[] NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS delivery_attempts (
			id           TEXT PRIMARY KEY,
			job_id       TEXT NOT NULL,
			note_id      TEXT NOT NULL,
			channel      TEXT NOT NULL,
			destination  TEXT NOT NULL,
			status       TEXT NOT NULL,
			error        TEXT,
			attempted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS event_feed (
			id             TEXT PRIMARY KEY,
			event_id       TEXT NOT NULL,
			kind           TEXT NOT NULL,
			project_id     TEXT NOT NULL,
			event_type     TEXT NOT NULL,
			markdown       TEXT NOT NULL,
			more_markdown  TEXT,
			dashboard_link TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_incident_public_notes_status ON incident_public_notes(notification_status, created_at);
		CREATE INDEX IF NOT EXISTS idx_maintenance_public_notes_status ON scheduled_maintenance_public_notes(notification_status, created_at);
		CREATE INDEX IF NOT EXISTS idx_status_page_resources_monitor ON status_page_resources(monitor_id);
		CREATE INDEX IF NOT EXISTS idx_status_page_subscribers_page ON status_page_subscribers(status_page_id);
		CREATE INDEX IF NOT EXISTS idx_delivery_attempts_note ON delivery_attempts(note_id);
		CREATE INDEX IF NOT EXISTS idx_event_feed_event ON event_feed(event_id);
	`

	_, err := db.Pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
