package domain

import "testing"

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from, to NotificationStatus
		want     bool
	}{
		{NotificationStatusPending, NotificationStatusInProgress, true},
		{NotificationStatusInProgress, NotificationStatusSuccess, true},
		{NotificationStatusInProgress, NotificationStatusSkipped, true},
		{NotificationStatusInProgress, NotificationStatusFailed, true},

		// terminal states never move again
		{NotificationStatusSuccess, NotificationStatusPending, false},
		{NotificationStatusSkipped, NotificationStatusInProgress, false},
		{NotificationStatusFailed, NotificationStatusFailed, false},

		// InProgress may not be skipped over
		{NotificationStatusPending, NotificationStatusSuccess, false},
		{NotificationStatusPending, NotificationStatusSkipped, false},
		{NotificationStatusPending, NotificationStatusFailed, false},

		// never backward
		{NotificationStatusInProgress, NotificationStatusPending, false},
	}

	for _, tt := range tests {
		if got := ValidTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("ValidTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransitionRejectsBackward(t *testing.T) {
	if _, err := Transition(NotificationStatusSuccess, NotificationStatusPending); err == nil {
		t.Error("expected error moving a terminal note back to Pending")
	}

	got, err := Transition(NotificationStatusPending, NotificationStatusInProgress)
	if err != nil {
		t.Fatalf("claim transition failed: %v", err)
	}
	if got != NotificationStatusInProgress {
		t.Errorf("expected InProgress, got %s", got)
	}
}

func TestTerminal(t *testing.T) {
	if NotificationStatusPending.Terminal() || NotificationStatusInProgress.Terminal() {
		t.Error("Pending and InProgress must not be terminal")
	}
	for _, s := range []NotificationStatus{NotificationStatusSuccess, NotificationStatusSkipped, NotificationStatusFailed} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}
