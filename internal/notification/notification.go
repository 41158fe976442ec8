// Package notification subscribes to domain events and turns them into
// outbound email.
package notification

import (
	"context"

	"rewards_backend/internal/email"
	"rewards_backend/internal/events"
	"rewards_backend/platform/logger"
)

// Module connects the event bus to the email sender.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

func New(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

// RegisterHandlers subscribes the email handlers. Delivery failures are
// logged, never propagated.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadJoined{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadJoined)
		if !ok {
			return nil
		}
		if err := m.sender.SendWelcomeEmail(ctx, e.Email, e.Name, e.ReferralCode, e.DiscountCode); err != nil {
			m.log.Warn("welcome email failed", "email", e.Email, "error", err)
		}
		return nil
	}))
}
