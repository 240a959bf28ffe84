package store

import (
	"context"
	"errors"
	"time"

	"github.com/Krosebrook/oneuptime/internal/domain"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// PublicNoteStore selects and advances public notes of one event kind.
type PublicNoteStore interface {
	// SelectPending returns notes with status Pending, the notify-on-create
	// flag set, and a creation time at or before the given instant,
	// bounded by limit, across all projects.
	SelectPending(ctx context.Context, kind domain.EventKind, before time.Time, limit int) ([]*domain.PublicNote, error)

	// UpdateNotificationStatus persists a guarded state-machine step and
	// an optional human-readable message. Backward moves are rejected.
	UpdateNotificationStatus(ctx context.Context, kind domain.EventKind, noteID string, to domain.NotificationStatus, message string) error

	GetByID(ctx context.Context, kind domain.EventKind, noteID string) (*domain.PublicNote, error)

	List(ctx context.Context, kind domain.EventKind, status domain.NotificationStatus, limit int) ([]*domain.PublicNote, error)

	// Requeue is the operator-driven reset of a Failed note back to
	// Pending. It is the only sanctioned backward move and lives outside
	// the engine's monotonic state machine.
	Requeue(ctx context.Context, kind domain.EventKind, noteID string) error
}

// EventStore loads the parent of a note.
type EventStore interface {
	GetIncident(ctx context.Context, id string) (*domain.Event, error)
	GetScheduledMaintenance(ctx context.Context, id string) (*domain.Event, error)
}

// StatusPageStore resolves monitors to page resources, pages to notify, and
// their subscribers.
type StatusPageStore interface {
	ResourcesByMonitorIDs(ctx context.Context, monitorIDs []string) ([]*domain.StatusPageResource, error)

	// PagesToNotify loads full status pages for the given identities,
	// filtering out deleted or otherwise ineligible pages.
	PagesToNotify(ctx context.Context, pageIDs []string) ([]*domain.StatusPage, error)

	SubscribersByPage(ctx context.Context, pageID string) ([]*domain.Subscriber, error)

	SMTPConfig(ctx context.Context, id string) (*domain.SMTPConfig, error)
	SMSConfig(ctx context.Context, id string) (*domain.SMSConfig, error)
}

// DeliveryAttemptStore records transport tries.
type DeliveryAttemptStore interface {
	Create(ctx context.Context, attempt *domain.DeliveryAttempt) error
}

// FeedStore appends audit-feed entries to the owning event.
type FeedStore interface {
	Append(ctx context.Context, entry *domain.FeedEntry) error
}
