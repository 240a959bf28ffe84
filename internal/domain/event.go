package domain

import "time"

// Event is the parent of a public note: an incident or a scheduled
// maintenance window. Both kinds are carried by one struct; kind-specific
// behavior lives in the notifier's event sources.
type Event struct {
	ID          string
	ProjectID   string
	Kind        EventKind
	Title       string
	Description string

	// SeverityLabel is the incident severity name. Empty for scheduled
	// maintenance events.
	SeverityLabel string

	// Number is the human-facing display number used in dashboard links.
	Number int

	VisibleOnStatusPage bool

	// MonitorIDs are the monitors this event affects. Resources on status
	// pages are resolved from these.
	MonitorIDs []string

	// StatusPageIDs is the direct event -> status page association.
	// Scheduled maintenance events carry it; incidents reach pages only
	// through their monitors.
	StatusPageIDs []string

	// StartsAt is the maintenance window start. Zero for incidents.
	StartsAt time.Time
}
