package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Krosebrook/oneuptime/internal/channel"
	"github.com/Krosebrook/oneuptime/internal/directory"
	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store"
)

// mockNoteStore implements store.PublicNoteStore with the same guarded
// transition semantics as the postgres store.
type mockNoteStore struct {
	mu      sync.Mutex
	notes   map[string]*domain.PublicNote
	history map[string][]domain.NotificationStatus
}

func newMockNoteStore(notes ...*domain.PublicNote) *mockNoteStore {
	s := &mockNoteStore{
		notes:   make(map[string]*domain.PublicNote),
		history: make(map[string][]domain.NotificationStatus),
	}
	for _, n := range notes {
		s.notes[n.ID] = n
	}
	return s
}

func (s *mockNoteStore) SelectPending(ctx context.Context, kind domain.EventKind, before time.Time, limit int) ([]*domain.PublicNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PublicNote
	for _, n := range s.notes {
		if n.Kind != kind || n.NotificationStatus != domain.NotificationStatusPending {
			continue
		}
		if !n.NotifyOnCreate || n.CreatedAt.After(before) {
			continue
		}
		out = append(out, n)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *mockNoteStore) UpdateNotificationStatus(ctx context.Context, kind domain.EventKind, noteID string, to domain.NotificationStatus, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok {
		return store.ErrNotFound
	}
	if !domain.ValidTransition(n.NotificationStatus, to) {
		return fmt.Errorf("invalid transition %s -> %s", n.NotificationStatus, to)
	}
	n.NotificationStatus = to
	n.StatusMessage = message
	s.history[noteID] = append(s.history[noteID], to)
	return nil
}

func (s *mockNoteStore) GetByID(ctx context.Context, kind domain.EventKind, noteID string) (*domain.PublicNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[noteID]; ok {
		return n, nil
	}
	return nil, store.ErrNotFound
}

func (s *mockNoteStore) List(ctx context.Context, kind domain.EventKind, status domain.NotificationStatus, limit int) ([]*domain.PublicNote, error) {
	return nil, nil
}

func (s *mockNoteStore) Requeue(ctx context.Context, kind domain.EventKind, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok {
		return store.ErrNotFound
	}
	n.NotificationStatus = domain.NotificationStatusPending
	n.StatusMessage = ""
	return nil
}

func (s *mockNoteStore) statusOf(noteID string) (domain.NotificationStatus, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notes[noteID]
	return n.NotificationStatus, n.StatusMessage
}

func (s *mockNoteStore) historyOf(noteID string) []domain.NotificationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.NotificationStatus(nil), s.history[noteID]...)
}

type mockEventStore struct {
	incidents    map[string]*domain.Event
	maintenances map[string]*domain.Event
}

func (s *mockEventStore) GetIncident(ctx context.Context, id string) (*domain.Event, error) {
	if ev, ok := s.incidents[id]; ok {
		return ev, nil
	}
	return nil, store.ErrNotFound
}

func (s *mockEventStore) GetScheduledMaintenance(ctx context.Context, id string) (*domain.Event, error) {
	if ev, ok := s.maintenances[id]; ok {
		return ev, nil
	}
	return nil, store.ErrNotFound
}

type mockPageStore struct {
	resources   []*domain.StatusPageResource
	pages       map[string]*domain.StatusPage
	subscribers map[string][]*domain.Subscriber

	// resourceErrFor injects a lookup failure when the monitor-id set
	// contains the given id.
	resourceErrFor map[string]error
}

func (s *mockPageStore) ResourcesByMonitorIDs(ctx context.Context, monitorIDs []string) ([]*domain.StatusPageResource, error) {
	for _, id := range monitorIDs {
		if err, ok := s.resourceErrFor[id]; ok {
			return nil, err
		}
	}
	monitors := make(map[string]struct{}, len(monitorIDs))
	for _, id := range monitorIDs {
		monitors[id] = struct{}{}
	}
	var out []*domain.StatusPageResource
	for _, r := range s.resources {
		if _, ok := monitors[r.MonitorID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *mockPageStore) PagesToNotify(ctx context.Context, pageIDs []string) ([]*domain.StatusPage, error) {
	var out []*domain.StatusPage
	for _, id := range pageIDs {
		if p, ok := s.pages[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *mockPageStore) SubscribersByPage(ctx context.Context, pageID string) ([]*domain.Subscriber, error) {
	return s.subscribers[pageID], nil
}

func (s *mockPageStore) SMTPConfig(ctx context.Context, id string) (*domain.SMTPConfig, error) {
	return nil, store.ErrNotFound
}

func (s *mockPageStore) SMSConfig(ctx context.Context, id string) (*domain.SMSConfig, error) {
	return nil, store.ErrNotFound
}

type mockFeedStore struct {
	mu      sync.Mutex
	entries []*domain.FeedEntry
}

func (s *mockFeedStore) Append(ctx context.Context, entry *domain.FeedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// mockPublisher records published delivery jobs and can fail selected
// subjects.
type mockPublisher struct {
	mu          sync.Mutex
	jobs        []*domain.DeliveryJob
	subjects    []string
	failSubject string
}

func (p *mockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSubject != "" && subject == p.failSubject {
		return errors.New("broker unavailable")
	}
	var job domain.DeliveryJob
	if err := json.Unmarshal(data, &job); err != nil {
		return err
	}
	p.jobs = append(p.jobs, &job)
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *mockPublisher) PublishToDLQ(ctx context.Context, data []byte) error { return nil }

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) jobsByChannel(kind domain.ChannelKind) []*domain.DeliveryJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*domain.DeliveryJob
	for _, j := range p.jobs {
		if j.Channel == kind {
			out = append(out, j)
		}
	}
	return out
}

func testChannels() *channel.Registry {
	return channel.NewRegistry(
		channel.NewEmailChannel(),
		channel.NewSMSChannel(nil),
		channel.NewWebhookChannel(nil),
	)
}

func testDirectory(pages store.StatusPageStore) *directory.Directory {
	return directory.New(pages, "https://oneuptime.example.com",
		domain.SMTPConfig{Host: "mail.example.com", Port: 587, FromEmail: "status@example.com"},
		domain.SMSConfig{ProviderURL: "https://sms.example.com", FromNumber: "+15550000000"},
	)
}

func pendingNote(id, eventID string, kind domain.EventKind) *domain.PublicNote {
	return &domain.PublicNote{
		ID:                 id,
		ProjectID:          "proj-1",
		EventID:            eventID,
		Kind:               kind,
		Note:               "We are **investigating** the issue.",
		NotifyOnCreate:     true,
		NotificationStatus: domain.NotificationStatusPending,
		CreatedAt:          time.Now().Add(-time.Minute),
	}
}

// Scenario: incident I with one monitor M, visible on page S; subscriber A
// (email only, unscoped) and subscriber B (SMS only, scoped to a different
// resource). A gets exactly one email job, B gets nothing, the note ends in
// Success and one feed entry references I.
func TestIncidentNoteFanOut(t *testing.T) {
	notes := newMockNoteStore(pendingNote("note-1", "inc-1", domain.EventKindIncident))
	events := &mockEventStore{incidents: map[string]*domain.Event{
		"inc-1": {
			ID: "inc-1", ProjectID: "proj-1", Kind: domain.EventKindIncident,
			Title: "Database down", SeverityLabel: "Critical", Number: 42,
			VisibleOnStatusPage: true, MonitorIDs: []string{"mon-1"},
		},
	}}
	pages := &mockPageStore{
		resources: []*domain.StatusPageResource{
			{ID: "res-1", StatusPageID: "page-1", MonitorID: "mon-1", DisplayName: "API"},
			{ID: "res-other", StatusPageID: "page-1", MonitorID: "mon-other", DisplayName: "Website"},
		},
		pages: map[string]*domain.StatusPage{
			"page-1": {ID: "page-1", ProjectID: "proj-1", Name: "Acme Status", ShowIncidents: true},
		},
		subscribers: map[string][]*domain.Subscriber{
			"page-1": {
				{ID: "sub-a", StatusPageID: "page-1", Email: "a@example.com"},
				{ID: "sub-b", StatusPageID: "page-1", Phone: "+15551234567", ResourceIDs: []string{"res-other"}},
			},
		},
	}
	feed := &mockFeedStore{}
	pub := &mockPublisher{}

	engine := NewEngine(NewIncidentSource(events), notes, pages, feed, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	emails := pub.jobsByChannel(domain.ChannelKindEmail)
	if len(emails) != 1 {
		t.Fatalf("expected exactly 1 email job, got %d", len(emails))
	}
	if emails[0].Email.ToEmail != "a@example.com" {
		t.Errorf("email sent to %s, want a@example.com", emails[0].Email.ToEmail)
	}
	if !strings.Contains(emails[0].Email.Subject, "[Incident Update] Database down") {
		t.Errorf("unexpected subject %q", emails[0].Email.Subject)
	}
	if !strings.Contains(emails[0].Email.HTMLBody, "<strong>investigating</strong>") {
		t.Error("note markdown was not rendered into the email body")
	}
	if got := emails[0].Email.SMTP.Host; got != "mail.example.com" {
		t.Errorf("expected default smtp config, got host %s", got)
	}

	if n := len(pub.jobsByChannel(domain.ChannelKindSMS)); n != 0 {
		t.Errorf("scoped SMS subscriber must receive nothing, got %d jobs", n)
	}
	if n := len(pub.jobsByChannel(domain.ChannelKindWebhook)); n != 0 {
		t.Errorf("no webhook subscribers, got %d jobs", n)
	}

	status, msg := notes.statusOf("note-1")
	if status != domain.NotificationStatusSuccess {
		t.Errorf("note status = %s, want Success (message %q)", status, msg)
	}

	if len(feed.entries) != 1 {
		t.Fatalf("expected 1 feed entry, got %d", len(feed.entries))
	}
	if feed.entries[0].EventID != "inc-1" {
		t.Errorf("feed entry references %s, want inc-1", feed.entries[0].EventID)
	}
	if !strings.Contains(feed.entries[0].Markdown, "Incident 42") {
		t.Errorf("feed entry missing display number: %q", feed.entries[0].Markdown)
	}

	wantHistory := []domain.NotificationStatus{domain.NotificationStatusInProgress, domain.NotificationStatusSuccess}
	got := notes.historyOf("note-1")
	if len(got) != len(wantHistory) || got[0] != wantHistory[0] || got[1] != wantHistory[1] {
		t.Errorf("status history = %v, want %v", got, wantHistory)
	}
}

// Scenario: maintenance event not visible on the status page. The note ends
// in Skipped with zero dispatches of any kind.
func TestHiddenEventIsSkippedWithoutDispatch(t *testing.T) {
	notes := newMockNoteStore(pendingNote("note-1", "mnt-1", domain.EventKindScheduledMaintenance))
	events := &mockEventStore{maintenances: map[string]*domain.Event{
		"mnt-1": {
			ID: "mnt-1", ProjectID: "proj-1", Kind: domain.EventKindScheduledMaintenance,
			Title: "Planned upgrade", VisibleOnStatusPage: false,
			StatusPageIDs: []string{"page-1"},
		},
	}}
	pages := &mockPageStore{
		pages: map[string]*domain.StatusPage{
			"page-1": {ID: "page-1", ShowScheduledMaintenances: true},
		},
		subscribers: map[string][]*domain.Subscriber{
			"page-1": {{ID: "sub-a", Email: "a@example.com"}},
		},
	}
	feed := &mockFeedStore{}
	pub := &mockPublisher{}

	engine := NewEngine(NewScheduledMaintenanceSource(events), notes, pages, feed, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(pub.jobs) != 0 {
		t.Errorf("expected zero dispatches, got %d", len(pub.jobs))
	}
	status, msg := notes.statusOf("note-1")
	if status != domain.NotificationStatusSkipped {
		t.Errorf("note status = %s, want Skipped", status)
	}
	if !strings.Contains(msg, "not visible on status page") {
		t.Errorf("unexpected skip reason %q", msg)
	}
	if len(feed.entries) != 0 {
		t.Errorf("skipped note must not produce a feed entry, got %d", len(feed.entries))
	}
}

// Scenario: resource resolution fails for the first note. It ends in Failed
// with the thrown message stored, and the next note in the batch still
// succeeds.
func TestResolutionFailureDoesNotBlockBatch(t *testing.T) {
	good := pendingNote("note-good", "inc-good", domain.EventKindIncident)
	bad := pendingNote("note-bad", "inc-bad", domain.EventKindIncident)
	bad.CreatedAt = good.CreatedAt.Add(-time.Second)
	notes := newMockNoteStore(good, bad)

	events := &mockEventStore{incidents: map[string]*domain.Event{
		"inc-good": {ID: "inc-good", ProjectID: "proj-1", Title: "ok", VisibleOnStatusPage: true, MonitorIDs: []string{"mon-1"}},
		"inc-bad":  {ID: "inc-bad", ProjectID: "proj-1", Title: "boom", VisibleOnStatusPage: true, MonitorIDs: []string{"mon-broken"}},
	}}
	pages := &mockPageStore{
		resources: []*domain.StatusPageResource{
			{ID: "res-1", StatusPageID: "page-1", MonitorID: "mon-1", DisplayName: "API"},
		},
		pages: map[string]*domain.StatusPage{
			"page-1": {ID: "page-1", ShowIncidents: true},
		},
		subscribers: map[string][]*domain.Subscriber{
			"page-1": {{ID: "sub-a", Email: "a@example.com"}},
		},
		resourceErrFor: map[string]error{"mon-broken": errors.New("connection reset by peer")},
	}
	feed := &mockFeedStore{}
	pub := &mockPublisher{}

	engine := NewEngine(NewIncidentSource(events), notes, pages, feed, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	status, msg := notes.statusOf("note-bad")
	if status != domain.NotificationStatusFailed {
		t.Errorf("bad note status = %s, want Failed", status)
	}
	if !strings.Contains(msg, "connection reset by peer") {
		t.Errorf("failure reason %q does not carry the thrown message", msg)
	}

	status, _ = notes.statusOf("note-good")
	if status != domain.NotificationStatusSuccess {
		t.Errorf("good note status = %s, want Success", status)
	}
}

// A note claimed by a crashed run is not selected again.
func TestClaimedNoteIsNotReselected(t *testing.T) {
	n := pendingNote("note-1", "inc-1", domain.EventKindIncident)
	n.NotificationStatus = domain.NotificationStatusInProgress
	notes := newMockNoteStore(n)

	events := &mockEventStore{incidents: map[string]*domain.Event{
		"inc-1": {ID: "inc-1", ProjectID: "proj-1", Title: "x", VisibleOnStatusPage: true, MonitorIDs: []string{"mon-1"}},
	}}
	pages := &mockPageStore{}
	pub := &mockPublisher{}

	engine := NewEngine(NewIncidentSource(events), notes, pages, &mockFeedStore{}, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(pub.jobs) != 0 {
		t.Errorf("in-progress note must not be processed, got %d jobs", len(pub.jobs))
	}
	if status, _ := notes.statusOf("note-1"); status != domain.NotificationStatusInProgress {
		t.Errorf("note status = %s, want untouched InProgress", status)
	}
}

// Future-dated notes are not selected.
func TestFutureNoteIsNotSelected(t *testing.T) {
	n := pendingNote("note-1", "inc-1", domain.EventKindIncident)
	n.CreatedAt = time.Now().Add(time.Hour)
	notes := newMockNoteStore(n)
	pages := &mockPageStore{}
	pub := &mockPublisher{}

	engine := NewEngine(NewIncidentSource(&mockEventStore{}), notes, pages, &mockFeedStore{}, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if status, _ := notes.statusOf("note-1"); status != domain.NotificationStatusPending {
		t.Errorf("future-dated note must stay Pending, got %s", status)
	}
}

// A subscriber with all three contact fields gets one job per channel,
// and a broker failure on one channel does not stop the others.
func TestChannelIndependence(t *testing.T) {
	notes := newMockNoteStore(pendingNote("note-1", "inc-1", domain.EventKindIncident))
	events := &mockEventStore{incidents: map[string]*domain.Event{
		"inc-1": {ID: "inc-1", ProjectID: "proj-1", Title: "x", VisibleOnStatusPage: true, MonitorIDs: []string{"mon-1"}},
	}}
	pages := &mockPageStore{
		resources: []*domain.StatusPageResource{
			{ID: "res-1", StatusPageID: "page-1", MonitorID: "mon-1", DisplayName: "API"},
		},
		pages: map[string]*domain.StatusPage{
			"page-1": {ID: "page-1", ShowIncidents: true},
		},
		subscribers: map[string][]*domain.Subscriber{
			"page-1": {{
				ID: "sub-all", Email: "a@example.com",
				Phone: "+15551234567", WebhookURL: "https://hooks.example.com/x",
			}},
		},
	}
	pub := &mockPublisher{failSubject: "deliveries.sms"}

	engine := NewEngine(NewIncidentSource(events), notes, pages, &mockFeedStore{}, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if n := len(pub.jobsByChannel(domain.ChannelKindEmail)); n != 1 {
		t.Errorf("expected 1 email job, got %d", n)
	}
	if n := len(pub.jobsByChannel(domain.ChannelKindWebhook)); n != 1 {
		t.Errorf("expected 1 webhook job despite sms failure, got %d", n)
	}

	// channel-tier failure never escalates to note status
	if status, _ := notes.statusOf("note-1"); status != domain.NotificationStatusSuccess {
		t.Errorf("note status = %s, want Success", status)
	}
}

// A page that hides incidents produces no dispatches
// even with eligible subscribers.
func TestPageVisibilityToggleGatesAllSubscribers(t *testing.T) {
	notes := newMockNoteStore(pendingNote("note-1", "inc-1", domain.EventKindIncident))
	events := &mockEventStore{incidents: map[string]*domain.Event{
		"inc-1": {ID: "inc-1", ProjectID: "proj-1", Title: "x", VisibleOnStatusPage: true, MonitorIDs: []string{"mon-1"}},
	}}
	pages := &mockPageStore{
		resources: []*domain.StatusPageResource{
			{ID: "res-1", StatusPageID: "page-1", MonitorID: "mon-1", DisplayName: "API"},
		},
		pages: map[string]*domain.StatusPage{
			"page-1": {ID: "page-1", ShowIncidents: false},
		},
		subscribers: map[string][]*domain.Subscriber{
			"page-1": {{ID: "sub-a", Email: "a@example.com"}},
		},
	}
	pub := &mockPublisher{}

	engine := NewEngine(NewIncidentSource(events), notes, pages, &mockFeedStore{}, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(pub.jobs) != 0 {
		t.Errorf("expected no dispatches for a page hiding incidents, got %d", len(pub.jobs))
	}
	if status, _ := notes.statusOf("note-1"); status != domain.NotificationStatusSuccess {
		t.Errorf("note status = %s, want Success", status)
	}
}

// Maintenance events reach status pages through their direct association,
// not through monitors.
func TestMaintenanceUsesDirectPageAssociation(t *testing.T) {
	notes := newMockNoteStore(pendingNote("note-1", "mnt-1", domain.EventKindScheduledMaintenance))
	events := &mockEventStore{maintenances: map[string]*domain.Event{
		"mnt-1": {
			ID: "mnt-1", ProjectID: "proj-1", Kind: domain.EventKindScheduledMaintenance,
			Title: "Planned upgrade", Number: 7, VisibleOnStatusPage: true,
			StatusPageIDs: []string{"page-1"},
		},
	}}
	pages := &mockPageStore{
		pages: map[string]*domain.StatusPage{
			"page-1": {ID: "page-1", ShowScheduledMaintenances: true},
		},
		subscribers: map[string][]*domain.Subscriber{
			"page-1": {{ID: "sub-a", WebhookURL: "https://hooks.example.com/x"}},
		},
	}
	pub := &mockPublisher{}

	engine := NewEngine(NewScheduledMaintenanceSource(events), notes, pages, &mockFeedStore{}, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	hooks := pub.jobsByChannel(domain.ChannelKindWebhook)
	if len(hooks) != 1 {
		t.Fatalf("expected 1 webhook job, got %d", len(hooks))
	}
	if !strings.Contains(hooks[0].Webhook.Text, "Planned upgrade") {
		t.Errorf("webhook text missing event title: %q", hooks[0].Webhook.Text)
	}
	if status, _ := notes.statusOf("note-1"); status != domain.NotificationStatusSuccess {
		t.Errorf("note status = %s, want Success", status)
	}
}

// A missing parent event is a Failed outcome, consistent with every other
// mid-pipeline error.
func TestMissingEventMarksNoteFailed(t *testing.T) {
	notes := newMockNoteStore(pendingNote("note-1", "inc-gone", domain.EventKindIncident))
	pages := &mockPageStore{}
	pub := &mockPublisher{}

	engine := NewEngine(NewIncidentSource(&mockEventStore{}), notes, pages, &mockFeedStore{}, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	status, msg := notes.statusOf("note-1")
	if status != domain.NotificationStatusFailed {
		t.Errorf("note status = %s, want Failed", status)
	}
	if !strings.Contains(msg, "not found") {
		t.Errorf("unexpected failure reason %q", msg)
	}
}

// An event with neither monitors nor direct status pages has nothing to
// notify.
func TestEventWithoutScopeIsSkipped(t *testing.T) {
	notes := newMockNoteStore(pendingNote("note-1", "inc-1", domain.EventKindIncident))
	events := &mockEventStore{incidents: map[string]*domain.Event{
		"inc-1": {ID: "inc-1", ProjectID: "proj-1", Title: "x", VisibleOnStatusPage: true},
	}}
	pages := &mockPageStore{}
	pub := &mockPublisher{}

	engine := NewEngine(NewIncidentSource(events), notes, pages, &mockFeedStore{}, testDirectory(pages), testChannels(), pub, 500)
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if status, _ := notes.statusOf("note-1"); status != domain.NotificationStatusSkipped {
		t.Errorf("note status = %s, want Skipped", status)
	}
	if len(pub.jobs) != 0 {
		t.Errorf("expected no dispatches, got %d", len(pub.jobs))
	}
}
