package broker

import "context"

// Publisher is the fire-and-forget submission boundary of the dispatcher:
// once a delivery job is published, the engine moves on and the transport
// worker owns the outcome.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	PublishToDLQ(ctx context.Context, data []byte) error
	Close() error
}
