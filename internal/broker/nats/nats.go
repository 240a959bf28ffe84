package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName     = "DELIVERIES"
	StreamSubjects = "deliveries.>"
	DLQSubject     = "deliveries.dlq"
	ConsumerName   = "delivery-worker"
)

// JobSubjects are the per-channel subjects delivery jobs are published to.
var JobSubjects = []string{"deliveries.email", "deliveries.sms", "deliveries.webhook"}

type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

func New(ctx context.Context, url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamSubjects},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		stream: stream,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	_, err := p.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) PublishToDLQ(ctx context.Context, data []byte) error {
	_, err := p.js.Publish(ctx, DLQSubject, data)
	if err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}
	return nil
}

// Consumer creates or looks up the durable pull consumer the delivery worker
// fetches jobs from. The DLQ subject is excluded so dead jobs are not
// redelivered to the worker.
func (p *Publisher) Consumer(ctx context.Context) (jetstream.Consumer, error) {
	cons, err := p.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:        ConsumerName,
		FilterSubjects: JobSubjects,
		AckPolicy:      jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	return cons, nil
}

func (p *Publisher) Close() error {
	p.conn.Close()
	return nil
}
