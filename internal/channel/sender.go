package channel

import (
	"context"
	"fmt"

	"github.com/admitpath/admissions-api/internal/domain"
)

// Sender is the outbound delivery port for a single channel. Any returned
// error is a delivery failure; the dispatcher converts it to state, it is
// never propagated past the dispatch boundary.
type Sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// Registry maps channels to their senders.
type Registry struct {
	senders map[domain.Channel]Sender
}

func NewRegistry() *Registry {
	return &Registry{senders: make(map[domain.Channel]Sender)}
}

func (r *Registry) Register(channel domain.Channel, sender Sender) {
	if r == nil || sender == nil {
		return
	}
	r.senders[channel] = sender
}

func (r *Registry) Sender(channel domain.Channel) (Sender, error) {
	if r == nil {
		return nil, fmt.Errorf("sender registry is not initialized")
	}
	sender, ok := r.senders[channel]
	if !ok {
		return nil, fmt.Errorf("no sender registered for channel %q", channel)
	}
	return sender, nil
}
