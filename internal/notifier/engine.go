package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Krosebrook/oneuptime/internal/broker"
	"github.com/Krosebrook/oneuptime/internal/channel"
	"github.com/Krosebrook/oneuptime/internal/directory"
	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/logging"
	"github.com/Krosebrook/oneuptime/internal/store"
)

// errNotClaimed marks a note another run already claimed; it is logged and
// skipped, never escalated to a Failed status.
var errNotClaimed = errors.New("note already claimed")

// Engine is the subscriber notification fan-out pipeline for one event kind.
// One Run processes one batch of pending notes sequentially; channel
// submissions within a note are fire-and-forget broker publishes.
type Engine struct {
	source    EventSource
	notes     store.PublicNoteStore
	pages     store.StatusPageStore
	feed      store.FeedStore
	dir       *directory.Directory
	channels  *channel.Registry
	publisher broker.Publisher

	batchSize int
	now       func() time.Time
}

func NewEngine(
	source EventSource,
	notes store.PublicNoteStore,
	pages store.StatusPageStore,
	feed store.FeedStore,
	dir *directory.Directory,
	channels *channel.Registry,
	publisher broker.Publisher,
	batchSize int,
) *Engine {
	return &Engine{
		source:    source,
		notes:     notes,
		pages:     pages,
		feed:      feed,
		dir:       dir,
		channels:  channels,
		publisher: publisher,
		batchSize: batchSize,
		now:       time.Now,
	}
}

func (e *Engine) JobName() string { return e.source.JobName() }

// Run executes one batch: select pending notes across all projects and push
// each through the pipeline. A failure while selecting aborts the whole tick
// (retried on the next one); a failure inside one note marks that note
// Failed and the batch moves on.
func (e *Engine) Run(ctx context.Context) error {
	ctx = logging.WithJobName(ctx, e.source.JobName())

	notes, err := e.notes.SelectPending(ctx, e.source.Kind(), e.now(), e.batchSize)
	if err != nil {
		return fmt.Errorf("select pending notes: %w", err)
	}

	for _, note := range notes {
		nctx := logging.WithNoteID(logging.WithProjectID(ctx, note.ProjectID), note.ID)
		l := logging.FromContext(nctx)

		if err := e.processNote(nctx, note); err != nil {
			if errors.Is(err, errNotClaimed) {
				l.Warn("note already claimed, skipping", slog.String("code", "NOTE_CLAIM_LOST"))
				continue
			}

			l.Error("subscriber notification failed",
				slog.String("code", "NOTE_FAILED"),
				slog.Any("error", err),
			)
			if uerr := e.notes.UpdateNotificationStatus(nctx, e.source.Kind(), note.ID, domain.NotificationStatusFailed, err.Error()); uerr != nil {
				l.Error("failed to record Failed status",
					slog.String("code", "DB_ERROR"),
					slog.Any("error", uerr),
				)
			}
		}
	}

	return nil
}

// processNote runs the pipeline for one note. Any returned error (other
// than errNotClaimed) is recorded as a Failed status by Run; Skipped and
// Success transitions happen in here.
func (e *Engine) processNote(ctx context.Context, note *domain.PublicNote) error {
	kind := e.source.Kind()
	l := logging.FromContext(ctx)

	// Claim before any resolution work. After this point a crash cannot
	// re-admit the note: a later scan only sees Pending notes.
	if err := e.notes.UpdateNotificationStatus(ctx, kind, note.ID, domain.NotificationStatusInProgress, ""); err != nil {
		return fmt.Errorf("%w: %v", errNotClaimed, err)
	}
	l.Info("note claimed", slog.String("code", "NOTE_CLAIMED"))

	ev, err := e.source.Load(ctx, note.EventID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %s not found", strings.ToLower(e.source.Label()), note.EventID)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", strings.ToLower(e.source.Label()), err)
	}
	ctx = logging.WithEventID(ctx, ev.ID)

	if len(ev.MonitorIDs) == 0 && len(ev.StatusPageIDs) == 0 {
		return e.skip(ctx, note, "Notifications skipped as the event has no monitors or status pages associated.")
	}

	if !ev.VisibleOnStatusPage {
		return e.skip(ctx, note, fmt.Sprintf("Notifications skipped as %s is not visible on status page.", strings.ToLower(e.source.Label())))
	}

	resources, err := e.pages.ResourcesByMonitorIDs(ctx, ev.MonitorIDs)
	if err != nil {
		return fmt.Errorf("resolve status page resources: %w", err)
	}

	// resolution map: status page -> resources affected by this event
	resolved := make(map[string][]*domain.StatusPageResource)
	for _, r := range resources {
		if r.StatusPageID == "" {
			continue
		}
		resolved[r.StatusPageID] = append(resolved[r.StatusPageID], r)
	}

	pages, err := e.pages.PagesToNotify(ctx, e.source.PageIDs(ev, resolved))
	if err != nil {
		return fmt.Errorf("resolve status pages: %w", err)
	}

	noteHTML, err := e.renderNoteHTML(note)
	if err != nil {
		return err
	}

	for _, page := range pages {
		if !page.ShowsEventKind(kind) {
			continue
		}

		pctx := logging.WithStatusPageID(ctx, page.ID)
		if err := e.notifyPageSubscribers(pctx, note, ev, page, resolved[page.ID], noteHTML); err != nil {
			return err
		}
	}

	if err := e.appendFeedEntry(ctx, note, ev); err != nil {
		return fmt.Errorf("append feed entry: %w", err)
	}

	if err := e.notes.UpdateNotificationStatus(ctx, kind, note.ID, domain.NotificationStatusSuccess, "Notifications sent successfully to all subscribers"); err != nil {
		return fmt.Errorf("record Success status: %w", err)
	}
	l.Info("subscriber notifications dispatched", slog.String("code", "NOTE_SUCCESS"))
	return nil
}

// notifyPageSubscribers fans one note out to every eligible subscriber of
// one status page. Channel submission failures are logged and swallowed
// here; only persistence failures escalate to the note boundary.
func (e *Engine) notifyPageSubscribers(ctx context.Context, note *domain.PublicNote, ev *domain.Event, page *domain.StatusPage, affected []*domain.StatusPageResource, noteHTML string) error {
	l := logging.FromContext(ctx)

	subscribers, err := e.pages.SubscribersByPage(ctx, page.ID)
	if err != nil {
		return fmt.Errorf("load subscribers of page %s: %w", page.ID, err)
	}
	if len(subscribers) == 0 {
		return nil
	}

	smtpCfg, err := e.dir.SMTPFor(ctx, page)
	if err != nil {
		return err
	}
	smsCfg, err := e.dir.SMSFor(ctx, page)
	if err != nil {
		return err
	}

	pageURL := e.dir.PageURL(page)

	for _, sub := range subscribers {
		if !e.dir.ShouldNotify(sub, affected, page, e.source.Kind()) {
			continue
		}

		unsubscribeURL := e.dir.UnsubscribeLink(pageURL, sub.ID)

		for _, ch := range e.channels.All() {
			if !ch.CanSend(sub) {
				continue
			}

			job, err := e.composeJob(composeInput{
				note:           note,
				event:          ev,
				page:           page,
				subscriber:     sub,
				channel:        ch.Kind(),
				affected:       affected,
				noteHTML:       noteHTML,
				pageURL:        pageURL,
				unsubscribeURL: unsubscribeURL,
				smtp:           smtpCfg,
				sms:            smsCfg,
			})
			if err != nil {
				l.Error("failed to compose delivery job",
					slog.String("code", "DISPATCH_ERROR"),
					slog.String("channel", string(ch.Kind())),
					slog.String("subscriber_id", sub.ID),
					slog.Any("error", err),
				)
				continue
			}

			if err := e.submit(ctx, job); err != nil {
				l.Error("failed to submit delivery job",
					slog.String("code", "DISPATCH_ERROR"),
					slog.String("channel", string(ch.Kind())),
					slog.String("subscriber_id", sub.ID),
					slog.Any("error", err),
				)
			}
		}
	}

	return nil
}

func (e *Engine) skip(ctx context.Context, note *domain.PublicNote, reason string) error {
	if err := e.notes.UpdateNotificationStatus(ctx, e.source.Kind(), note.ID, domain.NotificationStatusSkipped, reason); err != nil {
		return fmt.Errorf("record Skipped status: %w", err)
	}
	logging.FromContext(ctx).Info("subscriber notification skipped",
		slog.String("code", "NOTE_SKIPPED"),
		slog.String("reason", reason),
	)
	return nil
}
