// Package channel implements the delivery channels a subscriber can be
// reached on. Each channel decides for itself whether a subscriber is
// reachable; the dispatcher fans a note out to every channel that is.
package channel

import (
	"context"

	"github.com/Krosebrook/oneuptime/internal/domain"
)

type Channel interface {
	Kind() domain.ChannelKind

	// CanSend reports whether the subscriber carries the contact field
	// this channel needs. A missing field means the channel is skipped,
	// not failed.
	CanSend(sub *domain.Subscriber) bool

	// Send performs the transport call for a composed delivery job.
	Send(ctx context.Context, job *domain.DeliveryJob) error
}

// Registry holds the configured channels keyed by kind.
type Registry struct {
	channels map[domain.ChannelKind]Channel
	order    []Channel
}

func NewRegistry(channels ...Channel) *Registry {
	r := &Registry{channels: make(map[domain.ChannelKind]Channel)}
	for _, ch := range channels {
		r.channels[ch.Kind()] = ch
		r.order = append(r.order, ch)
	}
	return r
}

func (r *Registry) ByKind(kind domain.ChannelKind) (Channel, bool) {
	ch, ok := r.channels[kind]
	return ch, ok
}

// All returns channels in registration order.
func (r *Registry) All() []Channel {
	return r.order
}
