package domain

import (
	"fmt"
	"time"
)

// EventKind distinguishes the two note pipelines. It selects the note and
// event tables, the page visibility toggle, and the wording of outgoing
// messages.
type EventKind string

const (
	EventKindIncident             EventKind = "incident"
	EventKindScheduledMaintenance EventKind = "scheduled-maintenance"
)

// NotificationStatus tracks subscriber notification progress for one public
// note. A note moves forward through Pending -> InProgress -> one of
// {Success, Skipped, Failed}; the engine never moves a note backward.
type NotificationStatus string

const (
	NotificationStatusPending    NotificationStatus = "PENDING"
	NotificationStatusInProgress NotificationStatus = "IN_PROGRESS"
	NotificationStatusSuccess    NotificationStatus = "SUCCESS"
	NotificationStatusSkipped    NotificationStatus = "SKIPPED"
	NotificationStatusFailed     NotificationStatus = "FAILED"
)

// Terminal reports whether no further transition is allowed.
func (s NotificationStatus) Terminal() bool {
	switch s {
	case NotificationStatusSuccess, NotificationStatusSkipped, NotificationStatusFailed:
		return true
	}
	return false
}

// ValidTransition reports whether moving from one status to another is a
// legal forward step of the state machine. Claiming a note is
// Pending -> InProgress; everything terminal is reached from InProgress only.
func ValidTransition(from, to NotificationStatus) bool {
	switch from {
	case NotificationStatusPending:
		return to == NotificationStatusInProgress
	case NotificationStatusInProgress:
		return to.Terminal()
	}
	return false
}

// Transition validates a status move and returns the new status.
func Transition(from, to NotificationStatus) (NotificationStatus, error) {
	if !ValidTransition(from, to) {
		return from, fmt.Errorf("invalid notification status transition %s -> %s", from, to)
	}
	return to, nil
}

// PublicNote is a subscriber-visible note attached to exactly one incident
// or scheduled-maintenance event. The engine claims it, fans notifications
// out, and records the outcome; it never deletes notes.
type PublicNote struct {
	ID                 string
	ProjectID          string
	EventID            string
	Kind               EventKind
	Note               string
	NotifyOnCreate     bool
	NotificationStatus NotificationStatus
	StatusMessage      string
	CreatedAt          time.Time
}
