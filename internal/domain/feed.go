package domain

import "time"

type FeedEventType string

const (
	FeedEventSubscriberNotificationSent FeedEventType = "subscriber-notification-sent"
)

// FeedEntry is one audit-feed item on an incident or maintenance event.
type FeedEntry struct {
	ID            string
	EventID       string
	Kind          EventKind
	ProjectID     string
	EventType     FeedEventType
	Markdown      string
	MoreMarkdown  string
	DashboardLink string
	CreatedAt     time.Time
}
