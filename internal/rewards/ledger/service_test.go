package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rewards_backend/internal/events"
	"rewards_backend/platform/apperr"
	"rewards_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeBalances struct {
	mu         sync.Mutex
	balances   map[uuid.UUID]int
	failureErr error
	calls      int
}

func (f *fakeBalances) IncrementPoints(ctx context.Context, userID uuid.UUID, email string, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failureErr != nil {
		return 0, f.failureErr
	}
	if f.balances == nil {
		f.balances = make(map[uuid.UUID]int)
	}
	f.balances[userID] += amount
	return f.balances[userID], nil
}

func (f *fakeBalances) GetPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID], nil
}

type fakeGuests struct {
	mu     sync.Mutex
	points map[string]int
}

func (f *fakeGuests) GetPoints(ctx context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points[key], nil
}

func (f *fakeGuests) SetPoints(ctx context.Context, key string, points int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.points == nil {
		f.points = make(map[string]int)
	}
	f.points[key] = points
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sends int
	err   error
	done  chan struct{}
}

func (f *fakeNotifier) SendPointsEarnedEmail(ctx context.Context, to string, amount, newTotal int, reason string) error {
	f.mu.Lock()
	f.sends++
	f.mu.Unlock()
	if f.done != nil {
		close(f.done)
	}
	return f.err
}

func authAccount() Account {
	return Account{UserID: uuid.New(), Email: "user@example.com", Authenticated: true}
}

func newTestService(balances BalanceStore, guests *fakeGuests, notifier Notifier) *Service {
	if guests == nil {
		guests = &fakeGuests{}
	}
	return New(balances, guests, notifier, events.NewInMemoryBus(logger.New("test")), logger.New("test"))
}

func TestEarnRejectsInvalidAmount(t *testing.T) {
	svc := newTestService(&fakeBalances{}, nil, nil)

	for _, amount := range []int{0, -5} {
		_, err := svc.Earn(context.Background(), authAccount(), amount, "daily_login", "")
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
			t.Fatalf("Earn(amount=%d) err = %v, want validation error", amount, err)
		}
	}
}

func TestEarnAuthenticatedIncrements(t *testing.T) {
	balances := &fakeBalances{}
	svc := newTestService(balances, nil, nil)
	account := authAccount()

	total, err := svc.Earn(context.Background(), account, 25, "social_share", "")
	if err != nil {
		t.Fatalf("Earn() error: %v", err)
	}
	if total != 25 {
		t.Fatalf("new total = %d, want 25", total)
	}

	total, err = svc.Earn(context.Background(), account, 10, "daily_login", "")
	if err != nil {
		t.Fatalf("second Earn() error: %v", err)
	}
	if total != 35 {
		t.Fatalf("new total = %d, want 35", total)
	}
}

func TestEarnGuestNeverTouchesBalanceStore(t *testing.T) {
	balances := &fakeBalances{}
	guests := &fakeGuests{}
	svc := newTestService(balances, guests, nil)

	account := Account{GuestKey: "guest-abc"}
	total, err := svc.Earn(context.Background(), account, 25, "social_share", "")
	if err != nil {
		t.Fatalf("Earn() error: %v", err)
	}
	if total != 25 {
		t.Fatalf("guest total = %d, want 25", total)
	}
	if balances.calls != 0 {
		t.Fatalf("balance store called %d times for a guest, want 0", balances.calls)
	}
	if guests.points["guest-abc"] != 25 {
		t.Fatalf("guest store = %d, want 25", guests.points["guest-abc"])
	}
}

func TestEarnGuestRequiresKey(t *testing.T) {
	svc := newTestService(&fakeBalances{}, nil, nil)

	_, err := svc.Earn(context.Background(), Account{}, 25, "social_share", "")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error for missing guest key", err)
	}
}

func TestEarnStoreFailurePropagates(t *testing.T) {
	balances := &fakeBalances{failureErr: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	svc := newTestService(balances, nil, notifier)

	_, err := svc.Earn(context.Background(), authAccount(), 25, "social_share", "")
	if err == nil {
		t.Fatal("expected store failure to propagate")
	}
	if notifier.sends != 0 {
		t.Fatal("no email should be sent when the increment fails")
	}
}

func TestEarnSendsEmailAsync(t *testing.T) {
	notifier := &fakeNotifier{done: make(chan struct{})}
	svc := newTestService(&fakeBalances{}, nil, notifier)

	if _, err := svc.Earn(context.Background(), authAccount(), 25, "social_share", ""); err != nil {
		t.Fatalf("Earn() error: %v", err)
	}

	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("points earned email was never sent")
	}
}

func TestEarnEmailFailureDoesNotAffectBalance(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp timeout"), done: make(chan struct{})}
	balances := &fakeBalances{}
	svc := newTestService(balances, nil, notifier)
	account := authAccount()

	total, err := svc.Earn(context.Background(), account, 25, "social_share", "")
	if err != nil {
		t.Fatalf("Earn() error: %v", err)
	}
	if total != 25 {
		t.Fatalf("total = %d, want 25", total)
	}
	<-notifier.done
}

func TestBalanceGuestAndAuthenticated(t *testing.T) {
	balances := &fakeBalances{balances: map[uuid.UUID]int{}}
	guests := &fakeGuests{points: map[string]int{"guest-xyz": 40}}
	svc := newTestService(balances, guests, nil)

	got, err := svc.Balance(context.Background(), Account{GuestKey: "guest-xyz"})
	if err != nil || got != 40 {
		t.Fatalf("guest Balance() = %d, %v, want 40", got, err)
	}

	account := authAccount()
	balances.balances[account.UserID] = 120
	got, err = svc.Balance(context.Background(), account)
	if err != nil || got != 120 {
		t.Fatalf("auth Balance() = %d, %v, want 120", got, err)
	}
}
