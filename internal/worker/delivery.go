package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Krosebrook/oneuptime/internal/broker"
	"github.com/Krosebrook/oneuptime/internal/channel"
	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/logging"
	"github.com/Krosebrook/oneuptime/internal/retry"
	"github.com/Krosebrook/oneuptime/internal/store"
)

// DeliveryWorker drains composed delivery jobs from the broker and performs
// the actual channel sends. It records every attempt and retries failed
// transport calls with backoff, but never touches note status: the engine's
// bookkeeping is done the moment a job is submitted.
type DeliveryWorker struct {
	channels  *channel.Registry
	attempts  store.DeliveryAttemptStore
	consumer  jetstream.Consumer
	publisher broker.Publisher
	policy    retry.Policy
}

func NewDeliveryWorker(
	channels *channel.Registry,
	attempts store.DeliveryAttemptStore,
	consumer jetstream.Consumer,
	publisher broker.Publisher,
	policy retry.Policy,
) *DeliveryWorker {
	return &DeliveryWorker{
		channels:  channels,
		attempts:  attempts,
		consumer:  consumer,
		publisher: publisher,
		policy:    policy,
	}
}

func (w *DeliveryWorker) Start(ctx context.Context) error {
	slog.Info("delivery worker started", slog.String("code", "SYS_STARTUP"))

	for {
		select {
		case <-ctx.Done():
			slog.Info("delivery worker shutting down", slog.String("code", "SYS_SHUTDOWN"))
			return ctx.Err()
		default:
			msgs, err := w.consumer.Fetch(10, jetstream.FetchMaxWait(5*time.Second))
			if err != nil {
				slog.Error("error fetching delivery jobs", slog.String("code", "BROKER_ERROR"), slog.Any("error", err))
				continue
			}

			for msg := range msgs.Messages() {
				w.processMessage(ctx, msg)
			}
		}
	}
}

func (w *DeliveryWorker) processMessage(ctx context.Context, msg jetstream.Msg) {
	var job domain.DeliveryJob
	if err := json.Unmarshal(msg.Data(), &job); err != nil {
		slog.Error("failed to unmarshal delivery job", slog.String("code", "SYS_ERR"), slog.Any("error", err))
		msg.Ack()
		return
	}

	ctx = logging.WithNoteID(logging.WithProjectID(ctx, job.ProjectID), job.NoteID)
	l := logging.FromContext(ctx).With("delivery_job_id", job.ID, "channel", string(job.Channel))

	if w.Deliver(ctx, &job) {
		msg.Ack()
		return
	}

	job.AttemptCount++
	if w.policy.ShouldRetry(job.AttemptCount) {
		delay := w.policy.NextDelay(job.AttemptCount)
		l.Info("scheduling delivery retry",
			slog.String("code", "DEL_RETRY"),
			slog.Int("attempt", job.AttemptCount),
			slog.Duration("delay", delay),
		)
		msg.NakWithDelay(delay)
		return
	}

	l.Error("max delivery attempts reached, moving job to DLQ",
		slog.String("code", "DEL_FAILED"),
		slog.Int("attempts", job.AttemptCount),
	)
	dlqData, _ := json.Marshal(&job)
	if err := w.publisher.PublishToDLQ(ctx, dlqData); err != nil {
		l.Error("failed to publish to DLQ", slog.String("code", "BROKER_ERROR"), slog.Any("error", err))
	}
	msg.Ack()
}

// Deliver performs one transport try and records the attempt. It reports
// whether the send succeeded.
func (w *DeliveryWorker) Deliver(ctx context.Context, job *domain.DeliveryJob) bool {
	l := logging.FromContext(ctx)

	attempt := &domain.DeliveryAttempt{
		ID:          uuid.New().String(),
		JobID:       job.ID,
		NoteID:      job.NoteID,
		Channel:     job.Channel,
		Destination: job.Destination(),
		AttemptedAt: time.Now(),
	}

	ch, ok := w.channels.ByKind(job.Channel)
	if !ok {
		attempt.Status = domain.DeliveryStatusFailed
		attempt.Error = "no channel registered for kind " + string(job.Channel)
	} else if err := ch.Send(ctx, job); err != nil {
		attempt.Status = domain.DeliveryStatusFailed
		attempt.Error = err.Error()
		l.Error("channel send failed",
			slog.String("code", "DEL_ERROR"),
			slog.String("channel", string(job.Channel)),
			slog.Any("error", err),
		)
	} else {
		attempt.Status = domain.DeliveryStatusSuccess
	}

	if err := w.attempts.Create(ctx, attempt); err != nil {
		l.Error("failed to record delivery attempt", slog.String("code", "DB_ERROR"), slog.Any("error", err))
	}

	return attempt.Status == domain.DeliveryStatusSuccess
}
