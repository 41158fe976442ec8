// Package ledger implements the points accrual service.
package ledger

import (
	"context"
	"fmt"

	"rewards_backend/internal/events"
	"rewards_backend/internal/rewards/gueststore"
	"rewards_backend/platform/apperr"
	"rewards_backend/platform/logger"

	"github.com/google/uuid"
)

// BalanceStore persists authenticated users' balances.
type BalanceStore interface {
	IncrementPoints(ctx context.Context, userID uuid.UUID, email string, amount int) (int, error)
	GetPoints(ctx context.Context, userID uuid.UUID) (int, error)
}

// Notifier delivers the points-earned email. Delivery is best effort.
type Notifier interface {
	SendPointsEarnedEmail(ctx context.Context, to string, amount, newTotal int, reason string) error
}

// Account identifies who is earning. Exactly one of the two identities is
// used: UserID/Email when Authenticated, GuestKey otherwise.
type Account struct {
	UserID        uuid.UUID
	Email         string
	GuestKey      string
	Authenticated bool
}

// Service coordinates balance updates, engagement tracking, and
// notifications for point earns.
type Service struct {
	balances BalanceStore
	guests   gueststore.Store
	notifier Notifier
	bus      events.Bus
	log      *logger.Logger
}

func New(balances BalanceStore, guests gueststore.Store, notifier Notifier, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		balances: balances,
		guests:   guests,
		notifier: notifier,
		bus:      bus,
		log:      log,
	}
}

// Earn credits amount points for reason and returns the new balance.
//
// Authenticated accounts get an atomic server-side increment, a best-effort
// email, and a PointsEarned event (which feeds the lead engagement trail).
// When platform is set the share is also recorded as an event. Guests only
// get their keyed balance updated. Balance store failures propagate; email
// failures are logged and swallowed.
func (s *Service) Earn(ctx context.Context, account Account, amount int, reason, platform string) (int, error) {
	if amount < 1 {
		return 0, apperr.Validation("amount must be at least 1")
	}
	if reason == "" {
		return 0, apperr.Validation("reason is required")
	}

	if !account.Authenticated {
		return s.earnGuest(ctx, account, amount)
	}

	newTotal, err := s.balances.IncrementPoints(ctx, account.UserID, account.Email, amount)
	if err != nil {
		return 0, fmt.Errorf("increment points: %w", err)
	}

	s.log.Info("points earned",
		"userId", account.UserID, "amount", amount, "reason", reason, "newTotal", newTotal)

	if platform != "" {
		s.bus.Publish(ctx, events.SocialShareRecorded{
			BaseEvent: events.NewBaseEvent(),
			UserID:    account.UserID,
			Email:     account.Email,
			Platform:  platform,
		})
	}

	s.bus.Publish(ctx, events.PointsEarned{
		BaseEvent: events.NewBaseEvent(),
		UserID:    account.UserID,
		Email:     account.Email,
		Amount:    amount,
		Reason:    reason,
		Platform:  platform,
		NewTotal:  newTotal,
	})

	if s.notifier != nil && account.Email != "" {
		go func() {
			sendCtx := context.WithoutCancel(ctx)
			if err := s.notifier.SendPointsEarnedEmail(sendCtx, account.Email, amount, newTotal, reason); err != nil {
				s.log.Warn("points earned email failed", "email", account.Email, "error", err)
			}
		}()
	}

	return newTotal, nil
}

func (s *Service) earnGuest(ctx context.Context, account Account, amount int) (int, error) {
	if account.GuestKey == "" {
		return 0, apperr.Validation("guest key is required for unauthenticated earns")
	}

	current, err := s.guests.GetPoints(ctx, account.GuestKey)
	if err != nil {
		return 0, fmt.Errorf("read guest points: %w", err)
	}

	newTotal := current + amount
	if err := s.guests.SetPoints(ctx, account.GuestKey, newTotal); err != nil {
		return 0, fmt.Errorf("write guest points: %w", err)
	}

	s.log.Info("guest points earned", "guestKey", account.GuestKey, "amount", amount, "newTotal", newTotal)
	return newTotal, nil
}

// Balance returns the account's current balance.
func (s *Service) Balance(ctx context.Context, account Account) (int, error) {
	if account.Authenticated {
		return s.balances.GetPoints(ctx, account.UserID)
	}
	if account.GuestKey == "" {
		return 0, apperr.Validation("guest key is required for unauthenticated balance reads")
	}
	return s.guests.GetPoints(ctx, account.GuestKey)
}
