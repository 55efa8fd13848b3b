package channel

import (
	"context"

	"github.com/admitpath/admissions-api/internal/domain"
)

// InAppSender delivers in-app notifications. The stored notification record
// is the in-app inbox entry itself, so delivery amounts to honoring context
// cancellation and reporting success.
type InAppSender struct{}

func NewInAppSender() *InAppSender {
	return &InAppSender{}
}

func (s *InAppSender) Send(ctx context.Context, _ domain.Notification) error {
	return ctx.Err()
}
