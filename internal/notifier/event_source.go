package notifier

import (
	"context"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store"
)

// EventSource adapts one kind of notifiable event (incident or scheduled
// maintenance) to the shared fan-out pipeline. The two pipelines differ only
// in how the parent event is loaded, which status pages are in scope, and
// the wording of outgoing messages.
type EventSource interface {
	Kind() domain.EventKind
	JobName() string

	// Label is the human-facing event name used in subjects and feed
	// entries, e.g. "Incident".
	Label() string

	// NoteAddedPhrase is the one-line summary used in SMS and webhook
	// messages.
	NoteAddedPhrase() string

	Load(ctx context.Context, id string) (*domain.Event, error)

	// PageIDs returns the status page identities in scope for the event:
	// incidents reach pages through their monitors' resources, maintenance
	// events carry a direct page association.
	PageIDs(ev *domain.Event, resolved map[string][]*domain.StatusPageResource) []string
}

type incidentSource struct {
	events store.EventStore
}

func NewIncidentSource(events store.EventStore) EventSource {
	return &incidentSource{events: events}
}

func (s *incidentSource) Kind() domain.EventKind { return domain.EventKindIncident }

func (s *incidentSource) JobName() string { return "incident-public-note:notify-subscribers" }

func (s *incidentSource) Label() string { return "Incident" }

func (s *incidentSource) NoteAddedPhrase() string {
	return "New note has been added to an incident."
}

func (s *incidentSource) Load(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetIncident(ctx, id)
}

func (s *incidentSource) PageIDs(ev *domain.Event, resolved map[string][]*domain.StatusPageResource) []string {
	ids := make([]string, 0, len(resolved))
	for id := range resolved {
		ids = append(ids, id)
	}
	return ids
}

type maintenanceSource struct {
	events store.EventStore
}

func NewScheduledMaintenanceSource(events store.EventStore) EventSource {
	return &maintenanceSource{events: events}
}

func (s *maintenanceSource) Kind() domain.EventKind { return domain.EventKindScheduledMaintenance }

func (s *maintenanceSource) JobName() string {
	return "scheduled-maintenance-public-note:notify-subscribers"
}

func (s *maintenanceSource) Label() string { return "Scheduled Maintenance" }

func (s *maintenanceSource) NoteAddedPhrase() string {
	return "New note has been added to a scheduled maintenance event."
}

func (s *maintenanceSource) Load(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetScheduledMaintenance(ctx, id)
}

func (s *maintenanceSource) PageIDs(ev *domain.Event, resolved map[string][]*domain.StatusPageResource) []string {
	return ev.StatusPageIDs
}
